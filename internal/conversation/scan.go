package conversation

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	spokenAt       = regexp.MustCompile(`(?i)\bat\b`)
	spokenDot      = regexp.MustCompile(`(?i)\bdot\b`)
	spaceAroundSym = regexp.MustCompile(`[ \t]*([@.])[ \t]*`)
)

// scanForEmail finds the first email-like token in a message. For voice
// transcripts it also tries the spoken form ("jane at acme dot com") when no
// written address is present.
func scanForEmail(text string, fromVoice bool) (string, bool) {
	if match := emailPattern.FindString(text); match != "" {
		return strings.ToLower(match), true
	}
	if fromVoice {
		if match := emailPattern.FindString(despeak(text)); match != "" {
			return strings.ToLower(match), true
		}
	}
	return "", false
}

// despeak rewrites spoken address tokens into symbols, joining only the words
// directly around them so the rest of the transcript stays intact.
func despeak(text string) string {
	s := spokenAt.ReplaceAllString(text, "@")
	s = spokenDot.ReplaceAllString(s, ".")
	return spaceAroundSym.ReplaceAllString(s, "$1")
}
