package conversation

import "testing"

func TestScanForEmail(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		fromVoice bool
		want      string
		found     bool
	}{
		{"written address", "reach me at jane@acme.com please", false, "jane@acme.com", true},
		{"uppercase is lowered", "JANE@ACME.COM", false, "jane@acme.com", true},
		{"no address", "just chatting about websites", false, "", false},
		{"spoken form ignored for text", "jane at acme dot com", false, "", false},
		{"spoken form for voice", "my email is jane at acme dot com thanks", true, "jane@acme.com", true},
		{"written wins for voice", "it's jane@acme.com", true, "jane@acme.com", true},
		{"voice with no address", "I run a bakery", true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := scanForEmail(tt.text, tt.fromVoice)
			if found != tt.found || got != tt.want {
				t.Errorf("scanForEmail(%q, %v) = (%q, %v), want (%q, %v)",
					tt.text, tt.fromVoice, got, found, tt.want, tt.found)
			}
		})
	}
}
