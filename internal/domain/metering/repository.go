package metering

import (
	"context"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/domain/shared"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByAccountNumber finds an account by its generated number
	FindByAccountNumber(ctx context.Context, accountNumber string) (*Account, error)

	// FindAll finds non-deleted accounts with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Account, int64, error)

	// Save creates or updates an account, assigning an account number on create
	Save(ctx context.Context, account *Account) error
}

// MeterRepository defines the interface for meter persistence
type MeterRepository interface {
	// FindByID finds a meter by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Meter, error)

	// FindByMeterNumber finds a meter by its number
	FindByMeterNumber(ctx context.Context, meterNumber string) (*Meter, error)

	// FindByAccount finds non-deleted meters registered to an account
	FindByAccount(ctx context.Context, accountID uuid.UUID) ([]Meter, error)

	// FindAll finds non-deleted meters with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Meter, int64, error)

	// Save creates or updates a meter
	Save(ctx context.Context, meter *Meter) error
}

// ReadingRepository defines the interface for reading persistence
type ReadingRepository interface {
	// FindByID finds a reading by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Reading, error)

	// FindByMeterAndPeriod finds the active reading for a meter and billing period
	FindByMeterAndPeriod(ctx context.Context, meterID uuid.UUID, month, year int) (*Reading, error)

	// FindLatestByMeter returns the active reading with the latest billing
	// period for a meter, or nil if the meter has none
	FindLatestByMeter(ctx context.Context, meterID uuid.UUID) (*Reading, error)

	// FindLatestBefore returns the active reading with the latest billing
	// period strictly earlier than the given one, or nil
	FindLatestBefore(ctx context.Context, meterID uuid.UUID, month, year int) (*Reading, error)

	// FindByMeter finds active readings for a meter, newest period first
	FindByMeter(ctx context.Context, meterID uuid.UUID) ([]Reading, error)

	// FindAll finds active readings with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Reading, int64, error)

	// Save creates or updates a reading
	Save(ctx context.Context, reading *Reading) error
}
