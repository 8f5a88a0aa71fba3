package audit

import (
	"context"

	"github.com/waterworks/backend/internal/domain/shared"
)

// ActionType categorizes an audited action
type ActionType string

const (
	ActionCreate  ActionType = "CREATE"
	ActionUpdate  ActionType = "UPDATE"
	ActionDelete  ActionType = "DELETE"
	ActionConfirm ActionType = "CONFIRM"
	ActionVoid    ActionType = "VOID"
	ActionPayment ActionType = "PAYMENT"
	ActionLogin   ActionType = "LOGIN"
)

// AuditLog records who did what. Entries are append-only.
type AuditLog struct {
	shared.BaseEntity
	ActionType  ActionType `gorm:"not null;index"`
	Description string     `gorm:"not null"`
	PerformedBy string     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog records an action
func NewAuditLog(action ActionType, description, performedBy string) *AuditLog {
	return &AuditLog{
		BaseEntity:  shared.NewBaseEntity(),
		ActionType:  action,
		Description: description,
		PerformedBy: performedBy,
	}
}

// AuditLogRepository defines the interface for audit log persistence
type AuditLogRepository interface {
	// FindAll finds entries with filtering, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]AuditLog, int64, error)

	// Save appends an entry
	Save(ctx context.Context, log *AuditLog) error
}
