package persistence

import (
	"context"
	"errors"

	"github.com/waterworks/backend/internal/domain/notification"
	"github.com/waterworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAlertSettingsRepository implements AlertSettingsRepository using GORM
type GormAlertSettingsRepository struct {
	db *gorm.DB
}

// NewGormAlertSettingsRepository creates a new GormAlertSettingsRepository
func NewGormAlertSettingsRepository(db *gorm.DB) *GormAlertSettingsRepository {
	return &GormAlertSettingsRepository{db: db}
}

// FindActive returns the active settings version, or nil if none
// exists. Newest first, matching the configuration repository.
func (r *GormAlertSettingsRepository) FindActive(ctx context.Context) (*notification.AlertSettings, error) {
	var settings notification.AlertSettings
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Rotate deactivates every stored version and inserts the given settings
// as the new active one, atomically
func (r *GormAlertSettingsRepository) Rotate(ctx context.Context, settings *notification.AlertSettings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&notification.AlertSettings{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(settings).Error
	})
}

// Ensure GormAlertSettingsRepository implements the interface
var _ notification.AlertSettingsRepository = (*GormAlertSettingsRepository)(nil)

// GormSMSLogRepository implements SMSLogRepository using GORM
type GormSMSLogRepository struct {
	db *gorm.DB
}

// NewGormSMSLogRepository creates a new GormSMSLogRepository
func NewGormSMSLogRepository(db *gorm.DB) *GormSMSLogRepository {
	return &GormSMSLogRepository{db: db}
}

// FindAll finds log entries with filtering, newest first
func (r *GormSMSLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.SMSLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&notification.SMSLog{})
	if filter.Search != "" {
		query = query.Where("recipient ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []notification.SMSLog
	if err := applyFilter(query, filter).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// Save appends a log entry
func (r *GormSMSLogRepository) Save(ctx context.Context, log *notification.SMSLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// Ensure GormSMSLogRepository implements the interface
var _ notification.SMSLogRepository = (*GormSMSLogRepository)(nil)
