package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

type MailgunConfig struct {
	APIKey      string
	Domain      string
	SenderEmail string
	SenderName  string
	BaseURL     string // defaults to the public US API
}

// MailgunProvider sends through the Mailgun messages API.
type MailgunProvider struct {
	cfg MailgunConfig
	mg  *mailgun.MailgunImpl
}

func NewMailgunProvider(cfg MailgunConfig, hc *http.Client) *MailgunProvider {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	mg.SetClient(hc)
	if cfg.BaseURL != "" {
		mg.SetAPIBase(cfg.BaseURL)
	}
	return &MailgunProvider{cfg: cfg, mg: mg}
}

func (p *MailgunProvider) Name() string { return "mailgun" }

func (p *MailgunProvider) Send(ctx context.Context, m Message) error {
	if p.cfg.APIKey == "" || p.cfg.Domain == "" || p.cfg.SenderEmail == "" {
		return fmt.Errorf("%w: mailgun key, domain and sender are required", ErrNotConfigured)
	}

	from := p.cfg.SenderEmail
	if p.cfg.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", p.cfg.SenderName, p.cfg.SenderEmail)
	}
	msg := p.mg.NewMessage(from, m.Subject, m.Text, m.To)
	if m.HTML != "" {
		msg.SetHtml(m.HTML)
	}

	if _, _, err := p.mg.Send(ctx, msg); err != nil {
		if status := mailgun.GetStatusFromErr(err); status > 0 {
			return fmt.Errorf("mailgun send: status %d: %w", status, err)
		}
		return fmt.Errorf("mailgun send: %w", err)
	}
	return nil
}
