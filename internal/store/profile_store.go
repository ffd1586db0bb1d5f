package store

import (
	"context"

	"sfc/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileStore struct{ db *gorm.DB }

func (s *Store) Profiles() *ProfileStore { return &ProfileStore{db: s.DB} }

func (p *ProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	var prof domain.UserProfile
	if err := p.db.WithContext(ctx).First(&prof, "user_id = ?", userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &prof, nil
}

func (p *ProfileStore) Create(ctx context.Context, prof *domain.UserProfile) error {
	if prof.ID == uuid.Nil {
		prof.ID = uuid.New()
	}
	return p.db.WithContext(ctx).Create(prof).Error
}

// Save writes every column, including nil pointers.
func (p *ProfileStore) Save(ctx context.Context, prof *domain.UserProfile) error {
	return p.db.WithContext(ctx).Save(prof).Error
}
