package audit

import (
	"context"

	"github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Recorder appends audit log entries. Recording is best-effort: a failed
// write is logged and swallowed so auditing never breaks the operation
// being audited.
type Recorder struct {
	repo   audit.AuditLogRepository
	logger *zap.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(repo audit.AuditLogRepository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record appends an audit entry
func (r *Recorder) Record(ctx context.Context, action audit.ActionType, description, performedBy string) {
	entry := audit.NewAuditLog(action, description, performedBy)
	if err := r.repo.Save(ctx, entry); err != nil {
		r.logger.Warn("Failed to write audit log",
			zap.String("action", string(action)),
			zap.String("performed_by", performedBy),
			zap.Error(err),
		)
	}
}

// List returns audit entries, newest first
func (r *Recorder) List(ctx context.Context, filter shared.Filter) ([]audit.AuditLog, int64, error) {
	return r.repo.FindAll(ctx, filter)
}
