package store

import (
	"context"
	"encoding/json"
	"time"

	"sfc/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditStore struct{ db *gorm.DB }

func (s *Store) Audit() *AuditStore { return &AuditStore{db: s.DB} }

func (a *AuditStore) Record(ctx context.Context, userID uuid.UUID, action domain.AuditAction, meta map[string]any) error {
	entry := &domain.AuditLog{
		ID:        uuid.New(),
		UserID:    &userID,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		entry.Metadata = string(b)
	}
	return a.db.WithContext(ctx).Create(entry).Error
}

func (a *AuditStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.AuditLog, error) {
	var out []domain.AuditLog
	err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
