package store

import (
	"context"
	"errors"

	"sfc/internal/domain"

	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = gorm.ErrDuplicatedKey

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.UserProfile{},
		&domain.OTPCode{},
		&domain.RefreshToken{},
		&domain.AuditLog{},
		&domain.Program{},
		&domain.Workout{},
		&domain.ProgramEnrollment{},
		&domain.WorkoutCompletion{},
	}
}

func (s *Store) AutoMigrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(Models()...)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
