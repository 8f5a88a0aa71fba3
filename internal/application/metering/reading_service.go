package metering

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/application/audit"
	appbilling "github.com/waterworks/backend/internal/application/billing"
	"github.com/waterworks/backend/internal/application/notification"
	domainaudit "github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/shared"
)

// ReadingService records meter readings and drives billing generation.
// A reading and its billing are written in one transaction so a rejected
// reading never leaves a half-generated statement behind.
type ReadingService struct {
	scope     appbilling.TransactionScope
	generator *appbilling.Generator
	notifier  *notification.Notifier
	recorder  *audit.Recorder
}

// NewReadingService creates a new ReadingService
func NewReadingService(
	scope appbilling.TransactionScope,
	generator *appbilling.Generator,
	notifier *notification.Notifier,
	recorder *audit.Recorder,
) *ReadingService {
	return &ReadingService{
		scope:     scope,
		generator: generator,
		notifier:  notifier,
		recorder:  recorder,
	}
}

// RecordReadingRequest carries a new register reading
type RecordReadingRequest struct {
	MeterID     uuid.UUID
	Value       decimal.Decimal
	Month       int
	Year        int
	ReadingDate time.Time
}

// ReadingResult reports the recorded reading and the billing derived from it
type ReadingResult struct {
	Reading     *metering.Reading `json:"reading"`
	Billing     *billing.Billing  `json:"billing"`
	Consumption decimal.Decimal   `json:"consumption"`
}

// Record validates and saves a reading, then generates or refreshes its
// billing in the same transaction.
//
// Validation order: an existing reading for the same meter and period
// wins first, then a period earlier than the latest recorded one, then a
// register value that does not increase.
func (s *ReadingService) Record(ctx context.Context, req RecordReadingRequest, actor string) (*ReadingResult, error) {
	var (
		result  *ReadingResult
		meter   *metering.Meter
		account *metering.Account
	)
	err := s.scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		var err error
		meter, err = repos.MeterRepo().FindByID(ctx, req.MeterID)
		if err != nil {
			return err
		}
		if meter == nil || meter.Deleted {
			return shared.ErrNotFound
		}

		reading, err := metering.NewReading(req.MeterID, req.Value, req.Month, req.Year, req.ReadingDate)
		if err != nil {
			return err
		}

		if err := s.validate(ctx, repos, meter, reading); err != nil {
			return err
		}

		if err := repos.ReadingRepo().Save(ctx, reading); err != nil {
			return fmt.Errorf("failed to save reading: %w", err)
		}

		b, err := s.generator.CreateOrRefresh(ctx, repos, reading)
		if err != nil {
			return err
		}

		result = &ReadingResult{
			Reading:     reading,
			Billing:     b,
			Consumption: b.Consumption,
		}

		account, err = repos.AccountRepo().FindByID(ctx, meter.AccountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, domainaudit.ActionCreate,
		fmt.Sprintf("Recorded reading for meter %s period %02d/%d", meter.MeterNumber, req.Month, req.Year),
		actor)
	if account != nil {
		s.notifier.ReadingRecorded(ctx, account, meter, result.Reading, result.Consumption)
	}
	return result, nil
}

// UpdateReadingRequest carries corrections to a recorded reading
type UpdateReadingRequest struct {
	Value       decimal.Decimal
	Month       int
	Year        int
	ReadingDate time.Time
}

// Update amends a recorded reading and re-derives its billing in the
// same transaction. The regenerated billing returns to pending, so an
// edit discards any prior confirmation.
func (s *ReadingService) Update(ctx context.Context, id uuid.UUID, req UpdateReadingRequest, actor string) (*ReadingResult, error) {
	var (
		result  *ReadingResult
		meter   *metering.Meter
		account *metering.Account
	)
	err := s.scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		reading, err := repos.ReadingRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if reading == nil || !reading.Active {
			return shared.ErrNotFound
		}

		meter, err = repos.MeterRepo().FindByID(ctx, reading.MeterID)
		if err != nil {
			return err
		}
		if meter == nil || meter.Deleted {
			return shared.ErrNotFound
		}

		if err := reading.Amend(req.Value, req.Month, req.Year, req.ReadingDate); err != nil {
			return err
		}

		if err := s.validate(ctx, repos, meter, reading); err != nil {
			return err
		}

		if err := repos.ReadingRepo().Save(ctx, reading); err != nil {
			return fmt.Errorf("failed to save reading: %w", err)
		}

		b, err := s.generator.CreateOrRefresh(ctx, repos, reading)
		if err != nil {
			return err
		}

		result = &ReadingResult{
			Reading:     reading,
			Billing:     b,
			Consumption: b.Consumption,
		}

		account, err = repos.AccountRepo().FindByID(ctx, meter.AccountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, domainaudit.ActionUpdate,
		fmt.Sprintf("Updated reading for meter %s period %02d/%d", meter.MeterNumber, req.Month, req.Year),
		actor)
	if account != nil {
		s.notifier.ReadingRecorded(ctx, account, meter, result.Reading, result.Consumption)
	}
	return result, nil
}

func (s *ReadingService) validate(ctx context.Context, repos appbilling.TransactionalRepositories, meter *metering.Meter, reading *metering.Reading) error {
	duplicate, err := repos.ReadingRepo().FindByMeterAndPeriod(ctx, meter.ID, reading.Month, reading.Year)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate reading: %w", err)
	}
	if duplicate != nil && duplicate.ID != reading.ID {
		return metering.ErrDuplicateReading
	}

	latest, err := repos.ReadingRepo().FindLatestByMeter(ctx, meter.ID)
	if err != nil {
		return fmt.Errorf("failed to load latest reading: %w", err)
	}
	if latest != nil && reading.PeriodBefore(latest.Month, latest.Year) {
		return metering.ErrStalePeriod
	}

	previous, err := appbilling.PreviousValue(ctx, repos.ReadingRepo(), meter, reading.Month, reading.Year)
	if err != nil {
		return err
	}
	if !reading.Value.GreaterThan(previous) {
		return metering.ErrNonIncreasingValue
	}
	return nil
}

// Get returns a reading by ID
func (s *ReadingService) Get(ctx context.Context, id uuid.UUID) (*metering.Reading, error) {
	var found *metering.Reading
	err := s.scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		r, err := repos.ReadingRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return shared.ErrNotFound
		}
		found = r
		return nil
	})
	return found, err
}

// List returns readings with filtering
func (s *ReadingService) List(ctx context.Context, filter shared.Filter) ([]metering.Reading, int64, error) {
	var (
		items []metering.Reading
		total int64
	)
	err := s.scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		var err error
		items, total, err = repos.ReadingRepo().FindAll(ctx, filter)
		return err
	})
	return items, total, err
}
