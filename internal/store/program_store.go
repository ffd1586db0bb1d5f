package store

import (
	"context"

	"sfc/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgramStore struct{ db *gorm.DB }

func (s *Store) Programs() *ProgramStore { return &ProgramStore{db: s.DB} }

type ProgramFilter struct {
	Goal          domain.Goal
	Difficulty    domain.Difficulty
	FeaturedOnly  bool
	PublishedOnly bool
	Limit         int
	Offset        int
}

func (p *ProgramStore) Create(ctx context.Context, prog *domain.Program) error {
	if prog.ID == uuid.Nil {
		prog.ID = uuid.New()
	}
	return p.db.WithContext(ctx).Create(prog).Error
}

func (p *ProgramStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Program, error) {
	var prog domain.Program
	if err := p.db.WithContext(ctx).First(&prog, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &prog, nil
}

func (p *ProgramStore) Save(ctx context.Context, prog *domain.Program) error {
	return p.db.WithContext(ctx).Save(prog).Error
}

// ListPublished orders by catalog position, newest first within a position.
func (p *ProgramStore) ListPublished(ctx context.Context, f ProgramFilter) ([]domain.Program, error) {
	q := p.db.WithContext(ctx).Model(&domain.Program{}).Where("is_published = ?", true)
	q = applyProgramFilter(q, f)
	var out []domain.Program
	err := q.Order("order_index ASC").Order("created_at DESC").
		Limit(limitOr(f.Limit, 50)).Offset(f.Offset).
		Find(&out).Error
	return out, err
}

// ListAll is the admin view, unpublished programs included unless PublishedOnly.
func (p *ProgramStore) ListAll(ctx context.Context, f ProgramFilter) ([]domain.Program, error) {
	q := p.db.WithContext(ctx).Model(&domain.Program{})
	if f.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var out []domain.Program
	err := q.Order("created_at DESC").
		Limit(limitOr(f.Limit, 100)).Offset(f.Offset).
		Find(&out).Error
	return out, err
}

// Recommend ranks published programs matching goal and difficulty, featured first.
func (p *ProgramStore) Recommend(ctx context.Context, goal domain.Goal, difficulty domain.Difficulty, limit int) ([]domain.Program, error) {
	q := p.db.WithContext(ctx).Model(&domain.Program{}).Where("is_published = ?", true)
	q = applyProgramFilter(q, ProgramFilter{Goal: goal, Difficulty: difficulty})
	var out []domain.Program
	err := q.Order("is_featured DESC").Order("order_index ASC").Order("created_at DESC").
		Limit(limitOr(limit, 6)).
		Find(&out).Error
	return out, err
}

func (p *ProgramStore) Featured(ctx context.Context, limit int) ([]domain.Program, error) {
	var out []domain.Program
	err := p.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("is_featured DESC").Order("order_index ASC").
		Limit(limitOr(limit, 6)).
		Find(&out).Error
	return out, err
}

// Delete removes a program together with its workouts, enrollments and their
// completions. Must run inside a transaction.
func (p *ProgramStore) Delete(ctx context.Context, id uuid.UUID) error {
	db := p.db.WithContext(ctx)
	enrollmentIDs := db.Model(&domain.ProgramEnrollment{}).Select("id").Where("program_id = ?", id)
	workoutIDs := db.Model(&domain.Workout{}).Select("id").Where("program_id = ?", id)

	if err := db.Where("enrollment_id IN (?) OR workout_id IN (?)", enrollmentIDs, workoutIDs).
		Delete(&domain.WorkoutCompletion{}).Error; err != nil {
		return err
	}
	if err := db.Where("program_id = ?", id).Delete(&domain.ProgramEnrollment{}).Error; err != nil {
		return err
	}
	if err := db.Where("program_id = ?", id).Delete(&domain.Workout{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&domain.Program{}).Error
}

func applyProgramFilter(q *gorm.DB, f ProgramFilter) *gorm.DB {
	if f.Goal != "" {
		q = q.Where("goal = ?", f.Goal)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}
	if f.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	return q
}

func limitOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
