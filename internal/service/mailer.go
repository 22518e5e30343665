package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"github.com/nexora/nexora-backend/internal/config"
)

// Mailer sends transactional email
type Mailer interface {
	SendVerification(to, username, verifyURL string) error
}

// SMTPMailer sends mail through a plain SMTP relay
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendVerification(to, username, verifyURL string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject("Confirme ton adresse email")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Bonjour %s,\n\nClique sur le lien suivant pour activer ton compte :\n\n%s\n\nCe lien expire dans 24 heures.\n",
		username, verifyURL,
	))

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
	}
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	return client.DialAndSend(msg)
}

// LogMailer logs mail instead of sending it. Used when SMTP is not
// configured, typically in development.
type LogMailer struct{}

func (LogMailer) SendVerification(to, username, verifyURL string) error {
	log.Info().
		Str("to", to).
		Str("username", username).
		Str("verify_url", verifyURL).
		Msg("SMTP not configured, verification mail logged instead of sent")
	return nil
}
