package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/jordan-wright/email"
)

type sendFunc func(mail *email.Email, addr string, auth smtp.Auth) error

// Email sends plain-text mail over SMTP.
type Email struct {
	cfg  models.EmailConfig
	send sendFunc
}

func NewEmail(cfg models.EmailConfig) *Email {
	return &Email{
		cfg: cfg,
		send: func(mail *email.Email, addr string, auth smtp.Auth) error {
			return mail.Send(addr, auth)
		},
	}
}

func (e *Email) Name() string { return "email" }

// Notify sends msg with PLAIN auth, retrying without auth when the server
// does not offer it.
func (e *Email) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("SBC Prices <%s>", e.cfg.From)
	mail.To = e.cfg.To
	mail.Subject = msg.Title
	mail.Text = []byte(msg.Body)

	addr := fmt.Sprintf("%s:%d", e.cfg.SMTPServer, e.cfg.SMTPPort)
	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.SMTPServer)
	}

	err := e.send(mail, addr, auth)
	if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = e.send(mail, addr, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
