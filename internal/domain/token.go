package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type OTPCode struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    UserID     `gorm:"type:uuid;not null;index:ix_otp_user_purpose,priority:1"`
	Code      string     `gorm:"type:text;not null"`
	Purpose   OTPPurpose `gorm:"type:text;not null;index:ix_otp_user_purpose,priority:2"`
	ExpiresAt time.Time  `gorm:"not null"`
	UsedAt    *time.Time
	Attempts  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (OTPCode) TableName() string { return "otp_codes" }

type RefreshToken struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID     UserID     `gorm:"type:uuid;not null;index"`
	TokenHash  string     `gorm:"type:text;not null;uniqueIndex:ux_refresh_tokens_hash"`
	ExpiresAt  time.Time  `gorm:"not null"`
	RevokedAt  *time.Time
	DeviceInfo string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

const AccessTokenType = "access"

type AccessClaims struct {
	Role Role   `json:"role"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) UserID() (UserID, error) {
	return uuid.Parse(c.Subject)
}
