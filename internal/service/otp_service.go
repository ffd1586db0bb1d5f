package service

import (
	"context"

	"sfc/internal/domain"
	"sfc/internal/store"
)

// OTPService runs inside the caller's transaction; delivery happens after commit.
type OTPService interface {
	Issue(ctx context.Context, tx *store.Store, user *domain.User, purpose domain.OTPPurpose) (string, error)
	Verify(ctx context.Context, tx *store.Store, email, code string, purpose domain.OTPPurpose) (*domain.User, error)
}
