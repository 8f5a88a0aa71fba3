package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMeterRepository implements MeterRepository using GORM
type GormMeterRepository struct {
	db *gorm.DB
}

// NewGormMeterRepository creates a new GormMeterRepository
func NewGormMeterRepository(db *gorm.DB) *GormMeterRepository {
	return &GormMeterRepository{db: db}
}

// FindByID finds a meter by ID
func (r *GormMeterRepository) FindByID(ctx context.Context, id uuid.UUID) (*metering.Meter, error) {
	var meter metering.Meter
	if err := r.db.WithContext(ctx).First(&meter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meter, nil
}

// FindByMeterNumber finds a meter by its number
func (r *GormMeterRepository) FindByMeterNumber(ctx context.Context, meterNumber string) (*metering.Meter, error) {
	var meter metering.Meter
	if err := r.db.WithContext(ctx).First(&meter, "meter_number = ?", meterNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meter, nil
}

// FindByAccount finds non-deleted meters registered to an account
func (r *GormMeterRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]metering.Meter, error) {
	var meters []metering.Meter
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND deleted = ?", accountID, false).
		Order("created_at ASC").
		Find(&meters).Error; err != nil {
		return nil, err
	}
	return meters, nil
}

// FindAll finds non-deleted meters with filtering
func (r *GormMeterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]metering.Meter, int64, error) {
	query := r.db.WithContext(ctx).Model(&metering.Meter{}).Where("deleted = ?", false)
	if filter.Search != "" {
		query = query.Where("meter_number ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var meters []metering.Meter
	if err := applyFilter(query, filter).Find(&meters).Error; err != nil {
		return nil, 0, err
	}
	return meters, total, nil
}

// Save creates or updates a meter
func (r *GormMeterRepository) Save(ctx context.Context, meter *metering.Meter) error {
	return r.db.WithContext(ctx).Save(meter).Error
}

// Ensure GormMeterRepository implements the interface
var _ metering.MeterRepository = (*GormMeterRepository)(nil)
