package notification

import (
	"context"

	"github.com/waterworks/backend/internal/domain/shared"
)

// AlertSettingsRepository defines the interface for alert settings persistence
type AlertSettingsRepository interface {
	// FindActive returns the active settings version, or nil if none exists
	FindActive(ctx context.Context) (*AlertSettings, error)

	// Rotate deactivates every stored version and inserts the given
	// settings as the new active one, atomically
	Rotate(ctx context.Context, settings *AlertSettings) error
}

// SMSLogRepository defines the interface for SMS log persistence
type SMSLogRepository interface {
	// FindAll finds log entries with filtering, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]SMSLog, int64, error)

	// Save appends a log entry
	Save(ctx context.Context, log *SMSLog) error
}
