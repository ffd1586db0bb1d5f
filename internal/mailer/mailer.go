// Package mailer delivers rendered messages through a pluggable provider.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var ErrNotConfigured = errors.New("mailer not configured")

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string // optional
}

type Provider interface {
	Name() string
	Send(ctx context.Context, m Message) error
}

type Config struct {
	Provider string // log | ses | mailgun

	AWSRegion      string
	SESSenderEmail string

	MailgunAPIKey      string
	MailgunDomain      string
	MailgunSenderEmail string
	MailgunSenderName  string
}

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "log":
		return NewLogProvider(slog.Default()), nil
	case "ses":
		return NewSESProvider(ctx, cfg.AWSRegion, cfg.SESSenderEmail)
	case "mailgun":
		return NewMailgunProvider(MailgunConfig{
			APIKey:      cfg.MailgunAPIKey,
			Domain:      cfg.MailgunDomain,
			SenderEmail: cfg.MailgunSenderEmail,
			SenderName:  cfg.MailgunSenderName,
		}, nil), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q (supported: log, ses, mailgun)", cfg.Provider)
	}
}

// LogProvider writes messages to the log instead of sending them. Used in dev.
type LogProvider struct {
	log *slog.Logger
}

func NewLogProvider(l *slog.Logger) *LogProvider {
	if l == nil {
		l = slog.Default()
	}
	return &LogProvider{log: l}
}

func (p *LogProvider) Name() string { return "log" }

func (p *LogProvider) Send(ctx context.Context, m Message) error {
	p.log.InfoContext(ctx, "email (log provider)", "to", m.To, "subject", m.Subject, "body", m.Text)
	return nil
}
