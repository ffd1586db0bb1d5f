package impl

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"sfc/internal/mailer"
	"sfc/internal/observability/logging"
	"sfc/internal/observability/metrics"
)

type EmailConfig struct {
	ProjectName string
	OTPTTL      time.Duration
	Timeout     time.Duration // 30s
}

// EmailServiceImpl renders code emails and hands them to a mailer.Provider.
// Delivery never fails the caller: the outcome is reported as a bool.
type EmailServiceImpl struct {
	cfg      EmailConfig
	provider mailer.Provider
}

func NewEmailService(cfg EmailConfig, p mailer.Provider) *EmailServiceImpl {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &EmailServiceImpl{cfg: cfg, provider: p}
}

type codeEmail struct {
	Heading string
	Intro   string
	Code    string
	Minutes int
	Footer  string
	Project string
}

var codeText = texttemplate.Must(texttemplate.New("text").Parse(`Hello,

{{.Intro}} {{.Code}}

This code will expire in {{.Minutes}} minutes.

{{.Footer}}

Best regards,
{{.Project}} Team
`))

var codeHTML = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2c3e50;">{{.Heading}}</h2>
    <p>Hello,</p>
    <p>{{.Intro}}</p>
    <div style="background-color: #f8f9fa; padding: 20px; text-align: center; margin: 20px 0; border-radius: 8px;">
      <span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #2c3e50;">{{.Code}}</span>
    </div>
    <p>This code will expire in <strong>{{.Minutes}} minutes</strong>.</p>
    <p style="color: #666; font-size: 14px;">{{.Footer}}</p>
    <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
    <p style="color: #999; font-size: 12px;">Best regards,<br>{{.Project}} Team</p>
  </div>
</body>
</html>
`))

func (e *EmailServiceImpl) SendOTP(ctx context.Context, to, code string) bool {
	return e.send(ctx, to, e.cfg.ProjectName+" - Verify Your Email", codeEmail{
		Heading: "Verify Your Email",
		Intro:   "Your verification code is:",
		Code:    code,
		Footer:  "If you didn't request this code, please ignore this email.",
	})
}

func (e *EmailServiceImpl) SendPasswordReset(ctx context.Context, to, code string) bool {
	return e.send(ctx, to, e.cfg.ProjectName+" - Reset Your Password", codeEmail{
		Heading: "Reset Your Password",
		Intro:   "You requested to reset your password. Your reset code is:",
		Code:    code,
		Footer:  "If you didn't request this, please ignore this email or contact support if you're concerned.",
	})
}

func (e *EmailServiceImpl) send(ctx context.Context, to, subject string, data codeEmail) bool {
	log := logging.FromContext(ctx)
	data.Minutes = int(e.cfg.OTPTTL.Minutes())
	data.Project = e.cfg.ProjectName

	var text, html bytes.Buffer
	if err := codeText.Execute(&text, data); err != nil {
		log.Error("render email", "error", err)
		return false
	}
	if err := codeHTML.Execute(&html, data); err != nil {
		log.Error("render email", "error", err)
		return false
	}

	// The request may already be gone; delivery gets its own deadline.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.Timeout)
	defer cancel()

	err := e.provider.Send(sendCtx, mailer.Message{To: to, Subject: subject, Text: text.String(), HTML: html.String()})
	metrics.EmailsSentTotal.WithLabelValues(e.provider.Name(), metrics.Result(err)).Inc()
	if err != nil {
		log.Error("email delivery failed", "provider", e.provider.Name(), "error", err)
		return false
	}
	log.Info("email sent", "provider", e.provider.Name(), "subject", subject)
	return true
}
