// Package conversation orchestrates chat turns: session bookkeeping, email
// capture and validation, dialogue engine calls and lead-activity events.
package conversation

import (
	"context"
	"strings"

	"leadchat_backend/internal/conversation/persona"
	"leadchat_backend/internal/emailcheck"
	"leadchat_backend/internal/session"
	"leadchat_backend/platform/ai/chatapi"
	"leadchat_backend/platform/apperr"
	"leadchat_backend/platform/events"
	"leadchat_backend/platform/logger"
)

// EventLeadActivity is published after every completed turn so lead
// processing can run off the request path. Payload is the session key.
const EventLeadActivity = "lead.activity_recorded"

// History windows sent to the dialogue engine. Vision requests carry image
// payloads, so their window is smaller.
const (
	textWindow  = 12
	imageWindow = 10
)

const (
	emptyTranscriptReply = "I couldn't hear anything in your voice message. Please try again."
	engineDownMessage    = "AI service unavailable. Please try again shortly."
)

// Engine is the dialogue/transcription/speech backend.
type Engine interface {
	ChatCompletion(ctx context.Context, messages []chatapi.Message, withVision bool) (string, error)
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
	Speech(ctx context.Context, text, voice string) ([]byte, error)
}

// EmailValidator runs the staged validation pipeline.
type EmailValidator interface {
	Validate(ctx context.Context, candidate string, fromVoice bool, attempt int) emailcheck.Result
}

// ValidationFeedback is returned to the client when a candidate email failed
// validation, so the UI can surface suggestions.
type ValidationFeedback struct {
	IsValid     bool     `json:"isValid"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Reply is the outcome of one conversation turn.
type Reply struct {
	Text       string
	Transcript string
	Validation *ValidationFeedback
}

type imagePayload struct {
	mimeType   string
	base64Data string
}

// Service handles conversation turns for all input modalities.
type Service struct {
	store    *session.Store
	engine   Engine
	pipeline EmailValidator
	persona  persona.Persona
	bus      events.Bus
	log      *logger.Logger
}

func NewService(store *session.Store, engine Engine, pipeline EmailValidator,
	p persona.Persona, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		engine:   engine,
		pipeline: pipeline,
		persona:  p,
		bus:      bus,
		log:      log,
	}
}

// HandleText runs one text turn.
func (svc *Service) HandleText(ctx context.Context, sessionKey, message string) (Reply, error) {
	return svc.handleTurn(ctx, sessionKey, message, false, nil)
}

// HandleVoice transcribes the audio and runs the turn on the transcript.
func (svc *Service) HandleVoice(ctx context.Context, sessionKey, filename string, audio []byte) (Reply, error) {
	transcript, err := svc.engine.Transcribe(ctx, filename, audio)
	if err != nil {
		svc.log.CollaboratorError("transcription", "transcribe", err)
		return Reply{}, apperr.Wrap(apperr.KindUnavailable, engineDownMessage, err)
	}
	if strings.TrimSpace(transcript) == "" {
		return Reply{Text: emptyTranscriptReply}, nil
	}

	reply, err := svc.handleTurn(ctx, sessionKey, transcript, true, nil)
	if err != nil {
		return Reply{}, err
	}
	reply.Transcript = transcript
	return reply, nil
}

// HandleImage runs a vision turn: the caption joins the history while the
// image itself rides along on the engine call only.
func (svc *Service) HandleImage(ctx context.Context, sessionKey, caption, mimeType, base64Image string) (Reply, error) {
	if strings.TrimSpace(caption) == "" {
		caption = "What do you see in this image?"
	}
	return svc.handleTurn(ctx, sessionKey, caption, false, &imagePayload{
		mimeType:   mimeType,
		base64Data: base64Image,
	})
}

// Speech converts assistant text to audio.
func (svc *Service) Speech(ctx context.Context, text, voice string) ([]byte, error) {
	audio, err := svc.engine.Speech(ctx, text, voice)
	if err != nil {
		svc.log.CollaboratorError("speech", "synthesize", err)
		return nil, apperr.Wrap(apperr.KindUnavailable, "Failed to convert text to speech.", err)
	}
	return audio, nil
}

// handleTurn is the per-message protocol shared by all modalities.
func (svc *Service) handleTurn(ctx context.Context, sessionKey, text string, fromVoice bool, img *imagePayload) (Reply, error) {
	s := svc.store.GetOrCreate(sessionKey)
	s.Lock()
	defer s.Unlock()

	s.Append("user", text)

	validationMsg := ""
	if candidate, found := scanForEmail(text, fromVoice); found && !s.EmailValidated {
		s.EmailValidationAttempts++
		res := svc.pipeline.Validate(ctx, candidate, fromVoice, s.EmailValidationAttempts)
		svc.log.ValidationEvent(sessionKey, candidate, res.IsValid, string(res.Confidence), s.EmailValidationAttempts)

		switch {
		case res.IsValid:
			s.Lead.Email = candidate
			s.EmailValidated = true
			validationMsg = res.Message
		case res.ShouldContinueSales:
			// Throttled: keep chatting, surface the notice.
			validationMsg = res.Message
		default:
			// Validation failure consumes the turn: no engine call, and the
			// clarification is not recorded as an assistant message.
			return Reply{
				Text: res.Message,
				Validation: &ValidationFeedback{
					Message:     res.Message,
					Suggestions: res.Suggestions,
				},
			}, nil
		}
	}

	replyText, err := svc.callEngine(ctx, s, img)
	if err != nil {
		// The user message stays in history; only this turn fails.
		return Reply{}, apperr.Wrap(apperr.KindUnavailable, engineDownMessage, err)
	}

	if validationMsg != "" {
		replyText = validationMsg + "\n\n" + replyText
	}

	s.Append("assistant", replyText)

	svc.bus.Publish(ctx, events.Event{Name: EventLeadActivity, Payload: sessionKey})

	return Reply{Text: replyText}, nil
}

// callEngine builds the windowed prompt and requests a completion. Caller
// holds the session lock.
func (svc *Service) callEngine(ctx context.Context, s *session.Session, img *imagePayload) (string, error) {
	window := textWindow
	if img != nil {
		window = imageWindow
	}

	turns := s.Window(window)
	messages := make([]chatapi.Message, 0, len(turns)+1)
	messages = append(messages, chatapi.TextMessage(chatapi.RoleSystem, svc.persona.Instructions))

	for i, turn := range turns {
		if img != nil && i == len(turns)-1 {
			// The freshest user turn carries the image inline.
			messages = append(messages, chatapi.ImageMessage(turn.Content, img.mimeType, img.base64Data))
			continue
		}
		role := chatapi.RoleUser
		if turn.Role == "assistant" {
			role = chatapi.RoleAssistant
		}
		messages = append(messages, chatapi.TextMessage(role, turn.Content))
	}

	return svc.engine.ChatCompletion(ctx, messages, img != nil)
}
