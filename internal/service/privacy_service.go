package service

import (
	"context"

	"sfc/internal/domain"
	"sfc/internal/dto"
)

type PrivacyService interface {
	Consent(ctx context.Context, userID domain.UserID) (*dto.ConsentResponse, error)
	UpdateConsent(ctx context.Context, userID domain.UserID, r dto.ConsentUpdateRequest) (*dto.ConsentResponse, error)
	Export(ctx context.Context, userID domain.UserID) (*dto.DataExport, error)
}
