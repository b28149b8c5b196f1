package email

import (
	"leadchat_backend/platform/config"
	"leadchat_backend/platform/logger"
)

// NewSender returns the SMTP sender when mail is configured, otherwise a no-op
// so the rest of the capture flow still runs.
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() {
		log.Warn("SMTP not configured; follow-up emails disabled")
		return NewNoopSender(log)
	}
	return NewSMTPSender(cfg)
}
