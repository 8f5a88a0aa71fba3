package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/waterworks/backend/internal/application/audit"
	"github.com/waterworks/backend/internal/application/notification"
	domainaudit "github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/shared"
)

// BillingService handles the billing lifecycle after generation:
// confirmation, voiding, and queries
type BillingService struct {
	scope    TransactionScope
	notifier *notification.Notifier
	recorder *audit.Recorder
}

// NewBillingService creates a new BillingService
func NewBillingService(scope TransactionScope, notifier *notification.Notifier, recorder *audit.Recorder) *BillingService {
	return &BillingService{
		scope:    scope,
		notifier: notifier,
		recorder: recorder,
	}
}

// Get returns a billing by ID
func (s *BillingService) Get(ctx context.Context, id uuid.UUID) (*billing.Billing, error) {
	var found *billing.Billing
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.BillingRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}
		found = b
		return nil
	})
	return found, err
}

// List returns billings with filtering
func (s *BillingService) List(ctx context.Context, filter shared.Filter) ([]billing.Billing, int64, error) {
	var (
		items []billing.Billing
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, total, err = repos.BillingRepo().FindAll(ctx, filter)
		return err
	})
	return items, total, err
}

// Confirm transitions a pending billing to unpaid and flags its reading
// as billed. The accountholder is alerted after commit.
func (s *BillingService) Confirm(ctx context.Context, id uuid.UUID, actor string) (*billing.Billing, error) {
	var (
		confirmed *billing.Billing
		account   *metering.Account
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.BillingRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}
		if err := b.Confirm(); err != nil {
			return err
		}

		reading, err := repos.ReadingRepo().FindByID(ctx, b.ReadingID)
		if err != nil {
			return fmt.Errorf("failed to load reading: %w", err)
		}
		if reading == nil {
			return shared.ErrNotFound
		}
		reading.MarkBilled()

		if err := repos.ReadingRepo().Save(ctx, reading); err != nil {
			return fmt.Errorf("failed to save reading: %w", err)
		}
		if err := repos.BillingRepo().Save(ctx, b); err != nil {
			return fmt.Errorf("failed to save billing: %w", err)
		}

		confirmed = b
		account, err = accountForBilling(ctx, repos, b)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, domainaudit.ActionConfirm,
		fmt.Sprintf("Confirmed billing %s", confirmed.BillingNumber), actor)
	if account != nil {
		s.notifier.BillingConfirmed(ctx, account, confirmed)
	}
	return confirmed, nil
}

// Void cancels a pending billing and deactivates its reading so the
// period can be re-encoded
func (s *BillingService) Void(ctx context.Context, id uuid.UUID, actor string) (*billing.Billing, error) {
	var voided *billing.Billing
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.BillingRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}
		if err := b.Void(); err != nil {
			return err
		}

		reading, err := repos.ReadingRepo().FindByID(ctx, b.ReadingID)
		if err != nil {
			return fmt.Errorf("failed to load reading: %w", err)
		}
		if reading != nil {
			reading.Void()
			if err := repos.ReadingRepo().Save(ctx, reading); err != nil {
				return fmt.Errorf("failed to save reading: %w", err)
			}
		}

		if err := repos.BillingRepo().Save(ctx, b); err != nil {
			return fmt.Errorf("failed to save billing: %w", err)
		}
		voided = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, domainaudit.ActionVoid,
		fmt.Sprintf("Voided billing %s", voided.BillingNumber), actor)
	return voided, nil
}

// accountForBilling resolves the accountholder behind a billing's meter
func accountForBilling(ctx context.Context, repos TransactionalRepositories, b *billing.Billing) (*metering.Account, error) {
	meter, err := repos.MeterRepo().FindByID(ctx, b.MeterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meter: %w", err)
	}
	if meter == nil {
		return nil, nil
	}
	account, err := repos.AccountRepo().FindByID(ctx, meter.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}
