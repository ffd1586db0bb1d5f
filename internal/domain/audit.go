package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditSignup          AuditAction = "signup"
	AuditEmailVerified   AuditAction = "email_verified"
	AuditPasswordChanged AuditAction = "password_changed"
	AuditPasswordReset   AuditAction = "password_reset"
	AuditTokensRevoked   AuditAction = "tokens_revoked"
	AuditAccountDeleted  AuditAction = "account_deleted"
	AuditConsentUpdated  AuditAction = "consent_updated"
)

type AuditLog struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID    *UserID     `gorm:"type:uuid;index"`
	Action    AuditAction `gorm:"type:text;not null"`
	Metadata  string      `gorm:"type:text"` // JSON object
	CreatedAt time.Time   `gorm:"not null"`
}

func (AuditLog) TableName() string { return "audit_logs" }
