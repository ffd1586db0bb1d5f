package store

import (
	"context"
	"time"

	"sfc/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefreshTokenStore struct{ db *gorm.DB }

func (s *Store) RefreshTokens() *RefreshTokenStore { return &RefreshTokenStore{db: s.DB} }

func (r *RefreshTokenStore) Create(ctx context.Context, t *domain.RefreshToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *RefreshTokenStore) GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	if err := r.db.WithContext(ctx).First(&t, "token_hash = ?", hash).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// RevokeIfActive revokes a single token only if it is not revoked yet. The
// affected row count tells concurrent callers which one won.
func (r *RefreshTokenStore) RevokeIfActive(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at)
	return tx.RowsAffected, tx.Error
}

func (r *RefreshTokenStore) RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at)
	return tx.RowsAffected, tx.Error
}

func (r *RefreshTokenStore) DeleteForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.RefreshToken{})
	return tx.RowsAffected, tx.Error
}

func (r *RefreshTokenStore) CountActiveForUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Count(&n).Error
	return n, err
}
