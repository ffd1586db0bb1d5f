package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"sfc/internal/mailer"

	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	sent []mailer.Message
	err  error

	ctxErr      error
	hasDeadline bool
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Send(ctx context.Context, m mailer.Message) error {
	p.ctxErr = ctx.Err()
	_, p.hasDeadline = ctx.Deadline()
	p.sent = append(p.sent, m)
	return p.err
}

func TestEmailRendersCode(t *testing.T) {
	p := &recordingProvider{}
	svc := NewEmailService(EmailConfig{ProjectName: "Flow", OTPTTL: 10 * time.Minute}, p)

	require.True(t, svc.SendOTP(context.Background(), "a@example.com", "012345"))
	require.Len(t, p.sent, 1)
	m := p.sent[0]
	require.Equal(t, "a@example.com", m.To)
	require.Equal(t, "Flow - Verify Your Email", m.Subject)
	require.Contains(t, m.Text, "012345")
	require.Contains(t, m.Text, "expire in 10 minutes")
	require.Contains(t, m.HTML, "012345")

	require.True(t, svc.SendPasswordReset(context.Background(), "a@example.com", "999999"))
	require.Equal(t, "Flow - Reset Your Password", p.sent[1].Subject)
}

func TestEmailSurvivesCanceledRequest(t *testing.T) {
	p := &recordingProvider{}
	svc := NewEmailService(EmailConfig{ProjectName: "Flow", OTPTTL: time.Minute}, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.True(t, svc.SendOTP(ctx, "a@example.com", "123456"))
	require.NoError(t, p.ctxErr)
	require.True(t, p.hasDeadline)
}

func TestEmailFailureIsReported(t *testing.T) {
	p := &recordingProvider{err: errors.New("smtp down")}
	svc := NewEmailService(EmailConfig{ProjectName: "Flow"}, p)
	require.False(t, svc.SendOTP(context.Background(), "a@example.com", "123456"))
}
