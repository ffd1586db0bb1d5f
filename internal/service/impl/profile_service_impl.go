package impl

import (
	"context"
	"errors"
	"time"

	"sfc/internal/domain"
	"sfc/internal/dto"
	"sfc/internal/observability/logging"
	"sfc/internal/store"

	"github.com/google/uuid"
)

type ProfileServiceImpl struct {
	store *store.Store
	now   func() time.Time
}

func NewProfileService(st *store.Store) *ProfileServiceImpl {
	return &ProfileServiceImpl{store: st, now: func() time.Time { return time.Now().UTC() }}
}

// Onboard records the questionnaire once. A profile row that exists without
// a completed onboarding is overwritten.
func (p *ProfileServiceImpl) Onboard(ctx context.Context, userID domain.UserID, r dto.OnboardingRequest) (*domain.UserProfile, error) {
	var out *domain.UserProfile
	err := p.store.WithTx(ctx, func(tx *store.Store) error {
		existing, err := tx.Profiles().GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		if existing != nil && existing.OnboardingCompletedAt != nil {
			return domain.ErrOnboardingCompleted
		}
		if !r.HealthDisclaimerAccepted {
			return domain.ErrHealthDisclaimer
		}
		if err := checkRequest(r); err != nil {
			return err
		}

		now := p.now()
		prof := existing
		if prof == nil {
			prof = &domain.UserProfile{ID: uuid.New(), UserID: userID, CreatedAt: now}
		}
		prof.DisplayName = r.DisplayName
		prof.AgeRange = r.AgeRange
		prof.Gender = r.Gender
		prof.HeightCM = r.HeightCM
		prof.WeightKG = r.WeightKG
		prof.FitnessLevel = r.FitnessLevel
		prof.PrimaryGoal = r.PrimaryGoal
		prof.SecondaryGoals = r.SecondaryGoals
		prof.DaysPerWeek = r.DaysPerWeek
		prof.MinutesPerSession = r.MinutesPerSession
		prof.PreferredDays = r.PreferredDays
		prof.Injuries = r.Injuries
		prof.EquipmentAvailable = r.EquipmentAvailable
		prof.WorkoutLocation = r.WorkoutLocation
		prof.PrefersCardio = r.PrefersCardio
		prof.PrefersStrength = r.PrefersStrength
		prof.InterestedInYoga = r.InterestedInYoga
		prof.HealthDisclaimerAcceptedAt = &now
		prof.OnboardingCompletedAt = &now
		prof.UpdatedAt = now
		out = prof

		if existing == nil {
			return tx.Profiles().Create(ctx, prof)
		}
		return tx.Profiles().Save(ctx, prof)
	})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("onboarding completed", "user_id", userID)
	return out, nil
}

func (p *ProfileServiceImpl) Get(ctx context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	prof, err := p.store.Profiles().GetByUserID(ctx, userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	return prof, err
}

func (p *ProfileServiceImpl) Update(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*domain.UserProfile, error) {
	if err := checkRequest(r); err != nil {
		return nil, err
	}
	var out *domain.UserProfile
	err := p.store.WithTx(ctx, func(tx *store.Store) error {
		prof, err := tx.Profiles().GetByUserID(ctx, userID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrProfileNotFound
		}
		if err != nil {
			return err
		}
		if r.DisplayName != nil {
			prof.DisplayName = r.DisplayName
		}
		if r.HeightCM != nil {
			prof.HeightCM = r.HeightCM
		}
		if r.WeightKG != nil {
			prof.WeightKG = r.WeightKG
		}
		if r.FitnessLevel != nil {
			prof.FitnessLevel = r.FitnessLevel
		}
		if r.PrimaryGoal != nil {
			prof.PrimaryGoal = r.PrimaryGoal
		}
		if r.DaysPerWeek != nil {
			prof.DaysPerWeek = r.DaysPerWeek
		}
		if r.MinutesPerSession != nil {
			prof.MinutesPerSession = r.MinutesPerSession
		}
		if r.PreferredDays != nil {
			prof.PreferredDays = *r.PreferredDays
		}
		if r.Injuries != nil {
			prof.Injuries = r.Injuries
		}
		if r.EquipmentAvailable != nil {
			prof.EquipmentAvailable = *r.EquipmentAvailable
		}
		if r.WorkoutLocation != nil {
			prof.WorkoutLocation = r.WorkoutLocation
		}
		if r.PrefersCardio != nil {
			prof.PrefersCardio = r.PrefersCardio
		}
		if r.PrefersStrength != nil {
			prof.PrefersStrength = r.PrefersStrength
		}
		if r.InterestedInYoga != nil {
			prof.InterestedInYoga = r.InterestedInYoga
		}
		prof.UpdatedAt = p.now()
		out = prof
		return tx.Profiles().Save(ctx, prof)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
