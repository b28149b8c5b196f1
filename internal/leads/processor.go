package leads

import (
	"context"
	"time"

	"leadchat_backend/internal/email"
	"leadchat_backend/internal/ledger"
	"leadchat_backend/internal/scheduler"
	"leadchat_backend/internal/session"
	"leadchat_backend/platform/apperr"
	"leadchat_backend/platform/logger"
)

// Extractor derives lead details from conversation history.
type Extractor interface {
	Extract(ctx context.Context, history []session.Turn) (Extracted, error)
}

// topicMessageWindow is how many recent visitor messages feed topic tagging.
const topicMessageWindow = 8

// Processor runs after each conversation turn: it extracts lead details,
// merges them into the session record and, once the email is validated,
// persists the lead and schedules the follow-up mail exactly once.
type Processor struct {
	store         *session.Store
	extractor     Extractor
	ledger        ledger.Ledger
	scheduler     scheduler.FollowUpScheduler
	followUpDelay time.Duration
	log           *logger.Logger
}

// NewProcessor wires the lead processing chain. extractor and followUpSched
// may be nil when the respective collaborator is not configured.
func NewProcessor(store *session.Store, extractor Extractor, ledger ledger.Ledger,
	followUpSched scheduler.FollowUpScheduler, followUpDelay time.Duration, log *logger.Logger) *Processor {
	return &Processor{
		store:         store,
		extractor:     extractor,
		ledger:        ledger,
		scheduler:     followUpSched,
		followUpDelay: followUpDelay,
		log:           log,
	}
}

// Process handles one activity notification for a session. Extraction runs
// without the session lock; merge and dispatch hold it so the saved flag is
// checked and set atomically.
func (p *Processor) Process(ctx context.Context, sessionKey string) {
	s, ok := p.store.Get(sessionKey)
	if !ok {
		return
	}

	s.Lock()
	history := append([]session.Turn(nil), s.History...)
	s.Unlock()

	var extracted Extracted
	if p.extractor != nil {
		var err error
		extracted, err = p.extractor.Extract(ctx, history)
		if err != nil {
			// Extraction failure degrades to a no-op merge; dispatch still
			// runs in case earlier turns already completed the record.
			p.log.CollaboratorError("lead_extractor", "extract", err)
			extracted = Extracted{}
		}
	}

	s.Lock()
	defer s.Unlock()

	Merge(&s.Lead, extracted, s.EmailValidated)

	p.log.Debug("lead record merged",
		"session_key", sessionKey,
		"name", s.Lead.Name,
		"email", s.Lead.Email,
		"business_type", s.Lead.BusinessType,
		"validated", s.EmailValidated,
	)

	p.dispatch(ctx, s)
}

// dispatch persists the lead and schedules the follow-up. Caller holds the
// session lock.
func (p *Processor) dispatch(ctx context.Context, s *session.Session) {
	if s.Lead.Email == "" || !s.EmailValidated {
		return
	}

	if !s.LeadSaved {
		name := s.Lead.Name
		if name == "" {
			name = "Unknown"
		}

		row := ledger.Row{
			Name:         name,
			Email:        s.Lead.Email,
			Phone:        s.Lead.Phone,
			BusinessType: s.Lead.BusinessType,
			ProjectGoal:  s.Lead.ProjectGoal,
			Source:       "chat",
		}

		if err := p.ledger.Append(ctx, row); err != nil {
			if !apperr.Is(err, apperr.KindConflict) {
				// Leave LeadSaved unset so a later turn retries.
				p.log.Error("lead persistence failed", "session_key", s.Key, "error", err)
				return
			}
			// The row already exists; the lead is persisted.
		}

		s.LeadSaved = true
		p.log.Info("lead saved", "session_key", s.Key, "email", s.Lead.Email)
	}

	p.scheduleFollowUp(ctx, s)
}

func (p *Processor) scheduleFollowUp(ctx context.Context, s *session.Session) {
	if s.FollowUpScheduled || p.scheduler == nil {
		return
	}
	// Only reach out when the conversation revealed something to personalize.
	if s.Lead.Name == "" && s.Lead.BusinessType == "" {
		return
	}

	payload := scheduler.FollowUpPayload{
		Email:        s.Lead.Email,
		Name:         s.Lead.Name,
		BusinessType: s.Lead.BusinessType,
		ProjectGoal:  s.Lead.ProjectGoal,
		Topics:       email.Topics(s.UserMessages(topicMessageWindow)),
	}

	if err := p.scheduler.ScheduleFollowUp(ctx, payload, p.followUpDelay); err != nil {
		p.log.Error("follow-up scheduling failed", "session_key", s.Key, "error", err)
		return
	}

	s.FollowUpScheduled = true
	p.log.Info("follow-up email scheduled", "session_key", s.Key, "delay", p.followUpDelay)
}
