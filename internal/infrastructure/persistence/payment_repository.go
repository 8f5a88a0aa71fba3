package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// FindByBilling finds payments taken against a billing, oldest first
func (r *GormPaymentRepository) FindByBilling(ctx context.Context, billingID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	if err := r.db.WithContext(ctx).
		Where("billing_id = ?", billingID).
		Order("payment_date ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumPostedByBilling returns the cumulative posted amount for a billing
func (r *GormPaymentRepository) SumPostedByBilling(ctx context.Context, billingID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&billing.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("billing_id = ? AND status = ?", billingID, billing.PaymentStatusPosted).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// FindAll finds payments with filtering
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&billing.Payment{})
	if filter.Search != "" {
		query = query.Where("payment_number ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []billing.Payment
	if err := applyFilter(query, filter).Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// Save creates or updates a payment, assigning a payment number on create
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	if payment.PaymentNumber == "" {
		number, err := nextDocumentNumber(ctx, r.db, &billing.Payment{}, "payment_number", "P")
		if err != nil {
			return err
		}
		payment.PaymentNumber = number
	}
	return r.db.WithContext(ctx).Save(payment).Error
}

// Ensure GormPaymentRepository implements the interface
var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
