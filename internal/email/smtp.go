package email

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"leadchat_backend/platform/config"
)

// SMTPSender delivers follow-up mail via a direct SMTP connection using go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
	website   string
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		website:   cfg.GetWebsiteURL(),
	}
}

func (s *SMTPSender) SendFollowUp(ctx context.Context, followUp FollowUp) error {
	htmlBody, err := renderFollowUp(followUp, s.fromName, s.website)
	if err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(followUp.Email); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(fmt.Sprintf("Great chatting with you, %s!", DisplayName(followUp.Name, followUp.Email)))
	msg.SetBodyString(gomail.TypeTextPlain, stripHTML(htmlBody))
	msg.AddAlternativeString(gomail.TypeTextHTML, htmlBody)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

