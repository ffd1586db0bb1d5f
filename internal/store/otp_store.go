package store

import (
	"context"
	"time"

	"sfc/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OTPStore struct{ db *gorm.DB }

func (s *Store) OTPs() *OTPStore { return &OTPStore{db: s.DB} }

func (o *OTPStore) Create(ctx context.Context, code *domain.OTPCode) error {
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	return o.db.WithContext(ctx).Create(code).Error
}

// CountCreatedSince counts every code issued for (user, purpose) since the given
// instant, superseded or not.
func (o *OTPStore) CountCreatedSince(ctx context.Context, userID uuid.UUID, purpose domain.OTPPurpose, since time.Time) (int64, error) {
	var n int64
	err := o.db.WithContext(ctx).Model(&domain.OTPCode{}).
		Where("user_id = ? AND purpose = ? AND created_at >= ?", userID, purpose, since).
		Count(&n).Error
	return n, err
}

// Supersede marks every outstanding code for (user, purpose) as used.
func (o *OTPStore) Supersede(ctx context.Context, userID uuid.UUID, purpose domain.OTPPurpose, at time.Time) (int64, error) {
	tx := o.db.WithContext(ctx).Model(&domain.OTPCode{}).
		Where("user_id = ? AND purpose = ? AND used_at IS NULL", userID, purpose).
		Update("used_at", at)
	return tx.RowsAffected, tx.Error
}

// LatestActiveForUpdate returns the newest unused, unexpired code and locks its row.
func (o *OTPStore) LatestActiveForUpdate(ctx context.Context, userID uuid.UUID, purpose domain.OTPPurpose, now time.Time) (*domain.OTPCode, error) {
	var code domain.OTPCode
	err := o.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND purpose = ? AND used_at IS NULL AND expires_at > ?", userID, purpose, now).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &code, nil
}

func (o *OTPStore) Save(ctx context.Context, code *domain.OTPCode) error {
	return o.db.WithContext(ctx).Model(code).
		Select("attempts", "used_at").
		Updates(code).Error
}

func (o *OTPStore) DeleteForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx := o.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.OTPCode{})
	return tx.RowsAffected, tx.Error
}

func (o *OTPStore) ListForUser(ctx context.Context, userID uuid.UUID, purpose domain.OTPPurpose) ([]domain.OTPCode, error) {
	var out []domain.OTPCode
	err := o.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, purpose).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
