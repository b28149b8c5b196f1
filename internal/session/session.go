// Package session holds per-visitor conversation state in memory.
package session

import (
	"sync"
	"time"
)

// State describes how far a session has progressed toward a captured lead.
type State string

const (
	// StateFresh is a session with no conversation turns yet.
	StateFresh State = "fresh"
	// StateCollecting is a session with history but no validated email.
	StateCollecting State = "collecting"
	// StateValidated is a session whose visitor email passed validation.
	StateValidated State = "validated"
)

// Turn is a single message in the conversation history.
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// LeadInfo accumulates what the conversation has revealed about the visitor.
// Fields are filled first-writer-wins by the merger.
type LeadInfo struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	BusinessType string `json:"businessType,omitempty"`
	ProjectGoal  string `json:"projectGoal,omitempty"`
}

// Session is the mutable state of one visitor conversation. Callers must hold
// the session's lock for the duration of a turn.
type Session struct {
	mu sync.Mutex

	Key                     string
	History                 []Turn
	Lead                    LeadInfo
	EmailValidated          bool
	EmailValidationAttempts int
	LeadSaved               bool
	FollowUpScheduled       bool
	CreatedAt               time.Time
	LastActiveAt            time.Time
}

// Lock acquires the session for a single conversation turn.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session after the turn completes.
func (s *Session) Unlock() { s.mu.Unlock() }

// State derives the lifecycle state from the session's fields.
func (s *Session) State() State {
	switch {
	case s.EmailValidated:
		return StateValidated
	case len(s.History) > 0:
		return StateCollecting
	default:
		return StateFresh
	}
}

// Append records a turn and bumps the activity timestamp.
func (s *Session) Append(role, content string) {
	now := time.Now()
	s.History = append(s.History, Turn{Role: role, Content: content, At: now})
	s.LastActiveAt = now
}

// Window returns the most recent n turns of history. The full history is
// retained; only the view sent to the dialogue engine is bounded.
func (s *Session) Window(n int) []Turn {
	if len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// UserMessages returns up to n most recent visitor-authored turns, oldest first.
func (s *Session) UserMessages(n int) []string {
	var out []string
	for i := len(s.History) - 1; i >= 0 && len(out) < n; i-- {
		if s.History[i].Role == "user" {
			out = append(out, s.History[i].Content)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
