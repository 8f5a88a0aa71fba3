package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/shared"
)

// BillingRepository defines the interface for billing persistence
type BillingRepository interface {
	// FindByID finds a billing by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Billing, error)

	// FindByBillingNumber finds a billing by its number
	FindByBillingNumber(ctx context.Context, billingNumber string) (*Billing, error)

	// FindByReading finds the billing generated for a reading, or nil
	FindByReading(ctx context.Context, readingID uuid.UUID) (*Billing, error)

	// FindUnpaidByMeter finds the unpaid billings for a meter, newest
	// billing date first
	FindUnpaidByMeter(ctx context.Context, meterID uuid.UUID) ([]Billing, error)

	// FindByMeter finds billings for a meter, newest first
	FindByMeter(ctx context.Context, meterID uuid.UUID) ([]Billing, error)

	// FindAll finds billings with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Billing, int64, error)

	// Save creates or updates a billing, assigning a billing number on create
	Save(ctx context.Context, b *Billing) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByBilling finds payments taken against a billing, oldest first
	FindByBilling(ctx context.Context, billingID uuid.UUID) ([]Payment, error)

	// SumPostedByBilling returns the cumulative posted amount for a billing
	SumPostedByBilling(ctx context.Context, billingID uuid.UUID) (decimal.Decimal, error)

	// FindAll finds payments with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, int64, error)

	// Save creates or updates a payment, assigning a payment number on create
	Save(ctx context.Context, p *Payment) error
}
