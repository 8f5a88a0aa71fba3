package persistence

import (
	"context"

	"github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements AuditLogRepository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// FindAll finds entries with filtering, newest first
func (r *GormAuditLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&audit.AuditLog{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR performed_by ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []audit.AuditLog
	if err := applyFilter(query, filter).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// Save appends an entry
func (r *GormAuditLogRepository) Save(ctx context.Context, log *audit.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// Ensure GormAuditLogRepository implements the interface
var _ audit.AuditLogRepository = (*GormAuditLogRepository)(nil)
