package chatapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTranscribeSendsContextHints(t *testing.T) {
	var gotModel, gotLanguage, gotPrompt string
	var gotAudio []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		gotPrompt = r.FormValue("prompt")

		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		buf := make([]byte, 16)
		n, _ := file.Read(buf)
		gotAudio = buf[:n]

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hello"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, TranscriptionModel: "whisper-1"})

	text, err := client.Transcribe(context.Background(), "clip.webm", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "hello" {
		t.Errorf("text = %q", text)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model = %q", gotModel)
	}
	if gotLanguage != "en" {
		t.Errorf("language = %q", gotLanguage)
	}
	if !strings.Contains(gotPrompt, "business, marketing, and web development") {
		t.Errorf("prompt missing domain context: %q", gotPrompt)
	}
	if len(gotAudio) != 3 {
		t.Errorf("audio bytes = %d, want 3", len(gotAudio))
	}
}
