package email

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     []string
	}{
		{
			name:     "no matches",
			messages: []string{"hello there", "how are you"},
			want:     nil,
		},
		{
			name:     "single topic",
			messages: []string{"I need a new website for my shop"},
			want:     []string{"web development"},
		},
		{
			name:     "matching is case insensitive",
			messages: []string{"We focus on SEO and Advertising"},
			want:     []string{"digital marketing"},
		},
		{
			name:     "ordered by first match across messages",
			messages: []string{"we need help with seo", "also the website is slow"},
			want:     []string{"digital marketing", "web development"},
		},
		{
			name: "caps at three topics",
			messages: []string{
				"my business needs growth",
				"the website is old",
				"maybe a mobile app too",
				"and a fresh design",
			},
			want: []string{"business growth", "web development", "mobile apps"},
		},
		{
			name:     "topic reported once across messages",
			messages: []string{"website first", "then more web work"},
			want:     []string{"web development"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Topics(tt.messages)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Topics(%v) = %v, want %v", tt.messages, got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		given string
		email string
		want  string
	}{
		{"name wins", "Jane", "jane.doe@x.com", "Jane"},
		{"local part fallback", "", "jane.doe@x.com", "jane doe"},
		{"underscores become spaces", "", "john_smith@x.com", "john smith"},
		{"whitespace name ignored", "   ", "bob@x.com", "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.given, tt.email); got != tt.want {
				t.Errorf("DisplayName(%q, %q) = %q, want %q", tt.given, tt.email, got, tt.want)
			}
		})
	}
}

func TestRenderFollowUpIncludesDetails(t *testing.T) {
	html, err := renderFollowUp(FollowUp{
		Email:        "jane@acme.com",
		Name:         "Jane",
		BusinessType: "retail",
		ProjectGoal:  "sell online",
		Topics:       []string{"web development"},
	}, "FA Media", "https://example.com")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{"Hi Jane!", "retail", "sell online", "web development", "https://example.com"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered mail missing %q", want)
		}
	}
}

func TestRenderFollowUpOmitsEmptySections(t *testing.T) {
	html, err := renderFollowUp(FollowUp{Email: "bob@acme.com"}, "FA Media", "")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(html, "working in") {
		t.Error("business section rendered without a business type")
	}
	if strings.Contains(html, "Visit Our Website") {
		t.Error("website button rendered without a URL")
	}
}

func TestStripHTML(t *testing.T) {
	got := stripHTML("<p>Hello <b>world</b></p>\n<p>again</p>")
	if got != "Hello world again" {
		t.Errorf("stripHTML = %q", got)
	}
}
