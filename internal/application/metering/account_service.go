package metering

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/application/audit"
	domainaudit "github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/shared"
)

// AccountService manages accountholders
type AccountService struct {
	accountRepo metering.AccountRepository
	meterRepo   metering.MeterRepository
	recorder    *audit.Recorder
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo metering.AccountRepository, meterRepo metering.MeterRepository, recorder *audit.Recorder) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		meterRepo:   meterRepo,
		recorder:    recorder,
	}
}

// AccountRequest carries accountholder details
type AccountRequest struct {
	FirstName    string
	MiddleName   string
	LastName     string
	Address      string
	MobileNumber string
}

// Create registers a new accountholder. The account number is assigned
// on save.
func (s *AccountService) Create(ctx context.Context, req AccountRequest, actor string) (*metering.Account, error) {
	account, err := metering.NewAccount(req.FirstName, req.MiddleName, req.LastName, req.Address, req.MobileNumber)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.recorder.Record(ctx, domainaudit.ActionCreate,
		fmt.Sprintf("Created account %s for %s", account.AccountNumber, account.FullName()), actor)
	return account, nil
}

// Update edits an accountholder's details
func (s *AccountService) Update(ctx context.Context, id uuid.UUID, req AccountRequest, actor string) (*metering.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil || account.Deleted {
		return nil, shared.ErrNotFound
	}

	updated, err := metering.NewAccount(req.FirstName, req.MiddleName, req.LastName, req.Address, req.MobileNumber)
	if err != nil {
		return nil, err
	}
	account.FirstName = updated.FirstName
	account.MiddleName = updated.MiddleName
	account.LastName = updated.LastName
	account.Address = updated.Address
	account.MobileNumber = updated.MobileNumber

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.recorder.Record(ctx, domainaudit.ActionUpdate,
		fmt.Sprintf("Updated account %s", account.AccountNumber), actor)
	return account, nil
}

// Delete soft-deletes an account together with its meters
func (s *AccountService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil || account.Deleted {
		return shared.ErrNotFound
	}

	meters, err := s.meterRepo.FindByAccount(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("failed to load meters: %w", err)
	}
	for i := range meters {
		meters[i].MarkDeleted()
		if err := s.meterRepo.Save(ctx, &meters[i]); err != nil {
			return fmt.Errorf("failed to save meter: %w", err)
		}
	}

	account.MarkDeleted()
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	s.recorder.Record(ctx, domainaudit.ActionDelete,
		fmt.Sprintf("Deleted account %s", account.AccountNumber), actor)
	return nil
}

// Get returns an account by ID
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*metering.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil || account.Deleted {
		return nil, shared.ErrNotFound
	}
	return account, nil
}

// List returns non-deleted accounts with filtering
func (s *AccountService) List(ctx context.Context, filter shared.Filter) ([]metering.Account, int64, error) {
	return s.accountRepo.FindAll(ctx, filter)
}
