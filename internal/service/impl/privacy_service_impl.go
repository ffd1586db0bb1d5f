package impl

import (
	"context"
	"errors"
	"time"

	"sfc/internal/domain"
	"sfc/internal/dto"
	"sfc/internal/store"
)

// PrivacyServiceImpl covers consent management and data portability. Erasure
// lives in AuthServiceImpl.DeleteAccount since it revokes sessions.
type PrivacyServiceImpl struct {
	store *store.Store
	now   func() time.Time
}

func NewPrivacyService(st *store.Store) *PrivacyServiceImpl {
	return &PrivacyServiceImpl{store: st, now: func() time.Time { return time.Now().UTC() }}
}

func (p *PrivacyServiceImpl) Consent(ctx context.Context, userID domain.UserID) (*dto.ConsentResponse, error) {
	u, err := p.user(ctx, p.store, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewConsentResponse(u)
	return &resp, nil
}

// UpdateConsent toggles marketing freely. Data processing consent can only be
// withdrawn by deleting the account.
func (p *PrivacyServiceImpl) UpdateConsent(ctx context.Context, userID domain.UserID, r dto.ConsentUpdateRequest) (*dto.ConsentResponse, error) {
	if r.DataProcessingConsent != nil && !*r.DataProcessingConsent {
		return nil, domain.ErrConsentWithdrawal
	}
	var out dto.ConsentResponse
	err := p.store.WithTx(ctx, func(tx *store.Store) error {
		u, err := p.user(ctx, tx, userID)
		if err != nil {
			return err
		}
		meta := map[string]any{}
		if r.MarketingConsent != nil {
			u.MarketingConsent = *r.MarketingConsent
			meta["marketing_consent"] = *r.MarketingConsent
		}
		if r.DataProcessingConsent != nil {
			u.DataProcessingConsent = true
			meta["data_processing_consent"] = true
		}
		out = dto.NewConsentResponse(u)
		if len(meta) == 0 {
			return nil
		}
		u.UpdatedAt = p.now()
		if err := tx.Users().Save(ctx, u); err != nil {
			return err
		}
		return tx.Audit().Record(ctx, userID, domain.AuditConsentUpdated, meta)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Export gathers every personal record held for the user.
func (p *PrivacyServiceImpl) Export(ctx context.Context, userID domain.UserID) (*dto.DataExport, error) {
	u, err := p.user(ctx, p.store, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.DataExport{
		User: dto.ExportedUser{
			UserResponse:          dto.NewUserResponse(u),
			AuthProvider:          string(u.AuthProvider),
			DataProcessingConsent: u.DataProcessingConsent,
			UpdatedAt:             u.UpdatedAt,
		},
		Enrollments:        []domain.ProgramEnrollment{},
		WorkoutCompletions: []domain.WorkoutCompletion{},
		ExportedAt:         p.now(),
	}

	prof, err := p.store.Profiles().GetByUserID(ctx, userID)
	switch {
	case err == nil:
		out.Profile = prof
	case !errors.Is(err, store.ErrRecordNotFound):
		return nil, err
	}

	enrollments, err := p.store.Enrollments().ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return out, nil
	}
	out.Enrollments = enrollments

	ids := make([]domain.EnrollmentID, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.ID
	}
	completions, err := p.store.Completions().ListForEnrollments(ctx, ids)
	if err != nil {
		return nil, err
	}
	if completions != nil {
		out.WorkoutCompletions = completions
	}
	return out, nil
}

func (p *PrivacyServiceImpl) user(ctx context.Context, st *store.Store, id domain.UserID) (*domain.User, error) {
	u, err := st.Users().GetByID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrUserInactive
	}
	return u, err
}
