package notify

import (
	"context"
	"dualis-watch/lib/results"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type EmailConfig struct {
	Server string `json:"server" validate:"required"`
	Port   int    `json:"port" validate:"required"`
	// sender address, also used as the smtp username
	Address  string   `json:"address" validate:"required,email"`
	Password string   `json:"password"`
	To       []string `json:"to" validate:"required,min=1,dive,email"`
}

type Email struct {
	config EmailConfig
}

func NewEmail(config EmailConfig) Email {
	return Email{config: config}
}

func (e Email) Notify(ctx context.Context, transitions []results.Transition) error {
	if len(transitions) == 0 {
		return nil
	}

	_, span := tracer.Start(ctx, "Email:Notify")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Dualis Watch <%s>", e.config.Address)
	mail.To = e.config.To
	if len(transitions) == 1 {
		mail.Subject = fmt.Sprintf("New result: %s", transitions[0].Name())
	} else {
		mail.Subject = fmt.Sprintf("%d new results", len(transitions))
	}
	mail.Text = []byte(Message(transitions))

	addr := fmt.Sprintf("%s:%d", e.config.Server, e.config.Port)
	var auth smtp.Auth
	if e.config.Password != "" {
		auth = smtp.PlainAuth("", e.config.Address, e.config.Password, e.config.Server)
	}
	err := mail.Send(addr, auth)
	if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
