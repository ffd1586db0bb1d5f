package store

import (
	"context"
	"strings"
	"time"

	"sfc/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	usr.Email = NormalizeEmail(usr.Email)
	return u.db.WithContext(ctx).Create(usr).Error
}

func (u *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetByEmail matches case-insensitively. Deleted users never match because their
// address has been anonymized.
func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).
		First(&user, "email = ? AND deleted_at IS NULL", NormalizeEmail(email)).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (u *UserStore) Save(ctx context.Context, usr *domain.User) error {
	return u.db.WithContext(ctx).Save(usr).Error
}

func (u *UserStore) SetVerified(ctx context.Context, userID uuid.UUID) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"is_verified": true, "updated_at": time.Now().UTC()}).Error
}

func (u *UserStore) SetPassword(ctx context.Context, userID uuid.UUID, hash string) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"hashed_password": hash, "updated_at": time.Now().UTC()}).Error
}

// Anonymize performs the erasure part of account deletion.
func (u *UserStore) Anonymize(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"email":             domain.AnonymizedEmail(userID),
			"hashed_password":   nil,
			"is_active":         false,
			"marketing_consent": false,
			"deleted_at":        at,
			"updated_at":        at,
		}).Error
}
