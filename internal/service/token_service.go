package service

import (
	"context"

	"sfc/internal/domain"
	"sfc/internal/dto"
	"sfc/internal/store"
)

type TokenService interface {
	IssuePair(ctx context.Context, tx *store.Store, user *domain.User, deviceInfo string) (*dto.TokenPair, error)
	Rotate(ctx context.Context, rawRefresh, deviceInfo string) (*dto.TokenPair, *domain.User, error)
	Revoke(ctx context.Context, rawRefresh string) bool
	RevokeAll(ctx context.Context, tx *store.Store, userID domain.UserID) (int64, error)
	VerifyAccess(token string) (*domain.AccessClaims, error)
}
