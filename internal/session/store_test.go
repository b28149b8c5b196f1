package session

import (
	"fmt"
	"sync"
	"testing"
)

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	st := NewStore()

	a := st.GetOrCreate("visitor-1")
	b := st.GetOrCreate("visitor-1")

	if a != b {
		t.Fatal("expected the same session instance for the same key")
	}
	if st.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", st.Len())
	}
}

func TestGetMissingSession(t *testing.T) {
	st := NewStore()
	if _, ok := st.Get("nope"); ok {
		t.Fatal("expected no session for unknown key")
	}
}

func TestGetOrCreateConcurrent(t *testing.T) {
	st := NewStore()

	var wg sync.WaitGroup
	results := make([]*Session, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = st.GetOrCreate("shared")
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent GetOrCreate produced distinct sessions")
		}
	}
}

func TestStateTransitions(t *testing.T) {
	st := NewStore()
	s := st.GetOrCreate("visitor-2")

	if got := s.State(); got != StateFresh {
		t.Fatalf("new session state = %s, want %s", got, StateFresh)
	}

	s.Append("user", "hi there")
	if got := s.State(); got != StateCollecting {
		t.Fatalf("state after first turn = %s, want %s", got, StateCollecting)
	}

	s.EmailValidated = true
	if got := s.State(); got != StateValidated {
		t.Fatalf("state after validation = %s, want %s", got, StateValidated)
	}
}

func TestWindowBoundsHistory(t *testing.T) {
	s := &Session{Key: "w"}
	for i := 0; i < 20; i++ {
		s.Append("user", fmt.Sprintf("message %d", i))
	}

	window := s.Window(12)
	if len(window) != 12 {
		t.Fatalf("window length = %d, want 12", len(window))
	}
	if window[0].Content != "message 8" {
		t.Errorf("window starts at %q, want %q", window[0].Content, "message 8")
	}
	if len(s.History) != 20 {
		t.Errorf("full history length = %d, want 20", len(s.History))
	}
}

func TestWindowShorterThanLimit(t *testing.T) {
	s := &Session{Key: "short"}
	s.Append("user", "only one")

	if got := len(s.Window(12)); got != 1 {
		t.Fatalf("window length = %d, want 1", got)
	}
}

func TestUserMessages(t *testing.T) {
	s := &Session{Key: "u"}
	s.Append("user", "first")
	s.Append("assistant", "reply")
	s.Append("user", "second")
	s.Append("assistant", "reply again")
	s.Append("user", "third")

	got := s.UserMessages(2)
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if got[0] != "second" || got[1] != "third" {
		t.Errorf("got %v, want [second third]", got)
	}
}
