package service

import "context"

type EmailService interface {
	SendOTP(ctx context.Context, to, code string) bool
	SendPasswordReset(ctx context.Context, to, code string) bool
}
