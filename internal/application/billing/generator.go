package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/shared"
)

// Generator derives a billing from a reading. It always runs inside the
// transaction that saved the reading, so a generation failure rolls the
// reading back too.
type Generator struct{}

// NewGenerator creates a new Generator
func NewGenerator() *Generator {
	return &Generator{}
}

// CreateOrRefresh generates the billing for a reading, or regenerates the
// existing one when the reading is re-billed before confirmation.
//
// Outstanding unpaid billings on the same meter are folded into the new
// billing's arrears at their overdue amount, and the most recent of them
// is demoted to overdue. The active configuration is snapshotted into the
// billing; without one generation aborts.
func (g *Generator) CreateOrRefresh(ctx context.Context, repos TransactionalRepositories, reading *metering.Reading) (*billing.Billing, error) {
	config, err := repos.ConfigurationRepo().FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active configuration: %w", err)
	}
	if config == nil {
		return nil, shared.ErrNoActiveConfig
	}

	meter, err := repos.MeterRepo().FindByID(ctx, reading.MeterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meter: %w", err)
	}
	if meter == nil {
		return nil, shared.ErrNotFound
	}

	arrears, err := g.foldArrears(ctx, repos, reading)
	if err != nil {
		return nil, err
	}

	previous, err := PreviousValue(ctx, repos.ReadingRepo(), meter, reading.Month, reading.Year)
	if err != nil {
		return nil, err
	}
	consumption := reading.ConsumptionFrom(previous)

	now := time.Now()

	existing, err := repos.BillingRepo().FindByReading(ctx, reading.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up billing for reading: %w", err)
	}
	if existing != nil {
		if err := existing.Refresh(consumption, config, arrears, now); err != nil {
			return nil, err
		}
		if err := repos.BillingRepo().Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to save billing: %w", err)
		}
		return existing, nil
	}

	b, err := billing.NewBilling(reading.ID, reading.MeterID, consumption, config, arrears, now)
	if err != nil {
		return nil, err
	}
	if err := repos.BillingRepo().Save(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save billing: %w", err)
	}
	return b, nil
}

// foldArrears sums the overdue amount of the meter's other unpaid
// billings and demotes the most recent of them to overdue
func (g *Generator) foldArrears(ctx context.Context, repos TransactionalRepositories, reading *metering.Reading) (decimal.Decimal, error) {
	unpaid, err := repos.BillingRepo().FindUnpaidByMeter(ctx, reading.MeterID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load unpaid billings: %w", err)
	}

	arrears := decimal.Zero
	for i := range unpaid {
		if unpaid[i].ReadingID == reading.ID {
			continue
		}
		arrears = arrears.Add(unpaid[i].OverdueAmount())
	}

	// Newest first; the head carries the running balance forward.
	for i := range unpaid {
		if unpaid[i].ReadingID == reading.ID {
			continue
		}
		if err := unpaid[i].MarkOverdue(); err != nil {
			return decimal.Zero, err
		}
		if err := repos.BillingRepo().Save(ctx, &unpaid[i]); err != nil {
			return decimal.Zero, fmt.Errorf("failed to demote unpaid billing: %w", err)
		}
		break
	}

	return arrears, nil
}

// PreviousValue resolves the register value a new reading is compared
// against: the latest earlier active reading's value, or the meter's
// installation value when the meter has no earlier readings.
func PreviousValue(ctx context.Context, readings metering.ReadingRepository, meter *metering.Meter, month, year int) (decimal.Decimal, error) {
	prev, err := readings.FindLatestBefore(ctx, meter.ID, month, year)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load previous reading: %w", err)
	}
	if prev == nil {
		return meter.FirstValue, nil
	}
	return prev.Value, nil
}
