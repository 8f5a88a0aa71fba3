package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReadingRepository implements ReadingRepository using GORM
type GormReadingRepository struct {
	db *gorm.DB
}

// NewGormReadingRepository creates a new GormReadingRepository
func NewGormReadingRepository(db *gorm.DB) *GormReadingRepository {
	return &GormReadingRepository{db: db}
}

// FindByID finds a reading by ID
func (r *GormReadingRepository) FindByID(ctx context.Context, id uuid.UUID) (*metering.Reading, error) {
	var reading metering.Reading
	if err := r.db.WithContext(ctx).First(&reading, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

// FindByMeterAndPeriod finds the active reading for a meter and billing period
func (r *GormReadingRepository) FindByMeterAndPeriod(ctx context.Context, meterID uuid.UUID, month, year int) (*metering.Reading, error) {
	var reading metering.Reading
	if err := r.db.WithContext(ctx).
		First(&reading, "meter_id = ? AND month = ? AND year = ? AND active = ?", meterID, month, year, true).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

// FindLatestByMeter returns the active reading with the latest billing
// period for a meter, or nil if the meter has none
func (r *GormReadingRepository) FindLatestByMeter(ctx context.Context, meterID uuid.UUID) (*metering.Reading, error) {
	var reading metering.Reading
	if err := r.db.WithContext(ctx).
		Where("meter_id = ? AND active = ?", meterID, true).
		Order("year DESC, month DESC").
		First(&reading).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

// FindLatestBefore returns the active reading with the latest billing
// period strictly earlier than the given one, or nil
func (r *GormReadingRepository) FindLatestBefore(ctx context.Context, meterID uuid.UUID, month, year int) (*metering.Reading, error) {
	var reading metering.Reading
	if err := r.db.WithContext(ctx).
		Where("meter_id = ? AND active = ? AND (year * 12 + month) < ?", meterID, true, year*12+month).
		Order("year DESC, month DESC").
		First(&reading).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

// FindByMeter finds active readings for a meter, newest period first
func (r *GormReadingRepository) FindByMeter(ctx context.Context, meterID uuid.UUID) ([]metering.Reading, error) {
	var readings []metering.Reading
	if err := r.db.WithContext(ctx).
		Where("meter_id = ? AND active = ?", meterID, true).
		Order("year DESC, month DESC").
		Find(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}

// FindAll finds active readings with filtering
func (r *GormReadingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]metering.Reading, int64, error) {
	query := r.db.WithContext(ctx).Model(&metering.Reading{}).Where("active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var readings []metering.Reading
	if err := applyFilter(query, filter).Find(&readings).Error; err != nil {
		return nil, 0, err
	}
	return readings, total, nil
}

// Save creates or updates a reading
func (r *GormReadingRepository) Save(ctx context.Context, reading *metering.Reading) error {
	return r.db.WithContext(ctx).Save(reading).Error
}

// Ensure GormReadingRepository implements the interface
var _ metering.ReadingRepository = (*GormReadingRepository)(nil)
