// Package transport defines the request and response shapes of the chat API.
package transport

// ChatRequest is a plain text chat turn.
type ChatRequest struct {
	SessionKey string `json:"sessionKey" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

// SpeechRequest asks for a text-to-speech rendering.
type SpeechRequest struct {
	Text  string `json:"text" binding:"required"`
	Voice string `json:"voice"`
}

// ValidationFeedback mirrors the pipeline verdict for failed candidates.
type ValidationFeedback struct {
	IsValid     bool     `json:"isValid"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ChatResponse is the reply for text, voice and image turns.
type ChatResponse struct {
	Reply           string              `json:"reply"`
	Transcript      string              `json:"transcribedText,omitempty"`
	EmailValidation *ValidationFeedback `json:"emailValidation,omitempty"`
}
