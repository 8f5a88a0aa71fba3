package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBillingRepository implements BillingRepository using GORM
type GormBillingRepository struct {
	db *gorm.DB
}

// NewGormBillingRepository creates a new GormBillingRepository
func NewGormBillingRepository(db *gorm.DB) *GormBillingRepository {
	return &GormBillingRepository{db: db}
}

// FindByID finds a billing by ID
func (r *GormBillingRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Billing, error) {
	var b billing.Billing
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// FindByBillingNumber finds a billing by its number
func (r *GormBillingRepository) FindByBillingNumber(ctx context.Context, billingNumber string) (*billing.Billing, error) {
	var b billing.Billing
	if err := r.db.WithContext(ctx).First(&b, "billing_number = ?", billingNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// FindByReading finds the billing generated for a reading, or nil
func (r *GormBillingRepository) FindByReading(ctx context.Context, readingID uuid.UUID) (*billing.Billing, error) {
	var b billing.Billing
	if err := r.db.WithContext(ctx).First(&b, "reading_id = ?", readingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// FindUnpaidByMeter finds the unpaid billings for a meter, newest billing date first
func (r *GormBillingRepository) FindUnpaidByMeter(ctx context.Context, meterID uuid.UUID) ([]billing.Billing, error) {
	var billings []billing.Billing
	if err := r.db.WithContext(ctx).
		Where("meter_id = ? AND status = ?", meterID, billing.BillingStatusUnpaid).
		Order("billing_date DESC").
		Find(&billings).Error; err != nil {
		return nil, err
	}
	return billings, nil
}

// FindByMeter finds billings for a meter, newest first
func (r *GormBillingRepository) FindByMeter(ctx context.Context, meterID uuid.UUID) ([]billing.Billing, error) {
	var billings []billing.Billing
	if err := r.db.WithContext(ctx).
		Where("meter_id = ?", meterID).
		Order("billing_date DESC").
		Find(&billings).Error; err != nil {
		return nil, err
	}
	return billings, nil
}

// FindAll finds billings with filtering
func (r *GormBillingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Billing, int64, error) {
	query := r.db.WithContext(ctx).Model(&billing.Billing{})
	if filter.Search != "" {
		query = query.Where("billing_number ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var billings []billing.Billing
	if err := applyFilter(query, filter).Find(&billings).Error; err != nil {
		return nil, 0, err
	}
	return billings, total, nil
}

// Save creates or updates a billing, assigning a billing number on create
func (r *GormBillingRepository) Save(ctx context.Context, b *billing.Billing) error {
	if b.BillingNumber == "" {
		number, err := nextDocumentNumber(ctx, r.db, &billing.Billing{}, "billing_number", "B")
		if err != nil {
			return err
		}
		b.BillingNumber = number
	}
	return r.db.WithContext(ctx).Save(b).Error
}

// Ensure GormBillingRepository implements the interface
var _ billing.BillingRepository = (*GormBillingRepository)(nil)
