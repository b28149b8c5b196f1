// Package email renders and delivers the personalized follow-up mail sent
// after a lead is captured.
package email

import (
	"context"

	"leadchat_backend/platform/logger"
)

// FollowUp is everything needed to render one follow-up mail.
type FollowUp struct {
	Email        string
	Name         string
	BusinessType string
	ProjectGoal  string
	Topics       []string
}

// Sender delivers a follow-up mail to a captured lead.
type Sender interface {
	SendFollowUp(ctx context.Context, followUp FollowUp) error
}

// NoopSender is used when no SMTP server is configured. Sends are logged and
// dropped so the rest of the flow keeps working in development.
type NoopSender struct {
	log *logger.Logger
}

func NewNoopSender(log *logger.Logger) *NoopSender {
	return &NoopSender{log: log}
}

func (s *NoopSender) SendFollowUp(_ context.Context, followUp FollowUp) error {
	s.log.Info("email sending disabled, dropping follow-up", "to", followUp.Email)
	return nil
}
