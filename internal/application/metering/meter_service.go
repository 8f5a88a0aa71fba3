package metering

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/application/audit"
	domainaudit "github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/shared"
)

// MeterService manages meters
type MeterService struct {
	meterRepo   metering.MeterRepository
	accountRepo metering.AccountRepository
	recorder    *audit.Recorder
}

// NewMeterService creates a new MeterService
func NewMeterService(meterRepo metering.MeterRepository, accountRepo metering.AccountRepository, recorder *audit.Recorder) *MeterService {
	return &MeterService{
		meterRepo:   meterRepo,
		accountRepo: accountRepo,
		recorder:    recorder,
	}
}

// CreateMeterRequest carries a new meter registration
type CreateMeterRequest struct {
	MeterNumber      string
	AccountID        uuid.UUID
	FirstValue       decimal.Decimal
	InstallationDate time.Time
}

// Create installs a meter for an account
func (s *MeterService) Create(ctx context.Context, req CreateMeterRequest, actor string) (*metering.Meter, error) {
	account, err := s.accountRepo.FindByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.Deleted {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account does not exist")
	}

	existing, err := s.meterRepo.FindByMeterNumber(ctx, req.MeterNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	meter, err := metering.NewMeter(req.MeterNumber, req.AccountID, req.FirstValue, req.InstallationDate)
	if err != nil {
		return nil, err
	}
	if err := s.meterRepo.Save(ctx, meter); err != nil {
		return nil, fmt.Errorf("failed to save meter: %w", err)
	}

	s.recorder.Record(ctx, domainaudit.ActionCreate,
		fmt.Sprintf("Installed meter %s for account %s", meter.MeterNumber, account.AccountNumber), actor)
	return meter, nil
}

// Delete soft-deletes a meter
func (s *MeterService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	meter, err := s.meterRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if meter == nil || meter.Deleted {
		return shared.ErrNotFound
	}

	meter.MarkDeleted()
	if err := s.meterRepo.Save(ctx, meter); err != nil {
		return fmt.Errorf("failed to save meter: %w", err)
	}

	s.recorder.Record(ctx, domainaudit.ActionDelete,
		fmt.Sprintf("Deleted meter %s", meter.MeterNumber), actor)
	return nil
}

// Get returns a meter by ID
func (s *MeterService) Get(ctx context.Context, id uuid.UUID) (*metering.Meter, error) {
	meter, err := s.meterRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if meter == nil || meter.Deleted {
		return nil, shared.ErrNotFound
	}
	return meter, nil
}

// List returns non-deleted meters with filtering
func (s *MeterService) List(ctx context.Context, filter shared.Filter) ([]metering.Meter, int64, error) {
	return s.meterRepo.FindAll(ctx, filter)
}

// ListByAccount returns an account's meters
func (s *MeterService) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]metering.Meter, error) {
	return s.meterRepo.FindByAccount(ctx, accountID)
}
