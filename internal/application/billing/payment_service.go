package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/waterworks/backend/internal/application/audit"
	"github.com/waterworks/backend/internal/application/notification"
	domainaudit "github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/shared"
)

// PaymentService handles taking, confirming, and cancelling payments and
// resettling their billings
type PaymentService struct {
	scope    TransactionScope
	notifier *notification.Notifier
	recorder *audit.Recorder
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, notifier *notification.Notifier, recorder *audit.Recorder) *PaymentService {
	return &PaymentService{
		scope:    scope,
		notifier: notifier,
		recorder: recorder,
	}
}

// SubmitPaymentRequest carries a new payment
type SubmitPaymentRequest struct {
	BillingID   uuid.UUID
	Amount      decimal.Decimal
	Mode        billing.PaymentMode
	PaymentDate time.Time
}

// PaymentResult reports a payment operation together with the billing
// status it left behind
type PaymentResult struct {
	Payment       *billing.Payment      `json:"payment"`
	BillingStatus billing.BillingStatus `json:"billing_status"`
	TotalPosted   decimal.Decimal       `json:"total_posted"`
	AmountDue     decimal.Decimal       `json:"amount_due"`
}

// Submit takes a payment against a collectible billing. Cash and online
// payments post and resettle the billing immediately; checks wait for
// confirmation. The target amount is the billing's own snapshotted due
// amount, or its overdue amount once past the due date.
func (s *PaymentService) Submit(ctx context.Context, req SubmitPaymentRequest, actor string) (*PaymentResult, error) {
	var (
		result  *PaymentResult
		account *metering.Account
		settled *billing.Billing
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.BillingRepo().FindByID(ctx, req.BillingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}
		if !b.Status.IsCollectible() {
			return shared.NewDomainError("INVALID_STATUS", "Billing is not collectible")
		}

		p, err := billing.NewPayment(b.ID, req.Amount, req.Mode, actor, req.PaymentDate)
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, p); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		result = &PaymentResult{Payment: p}
		if p.Status == billing.PaymentStatusPosted {
			if err := s.resettle(ctx, repos, b, result); err != nil {
				return err
			}
		} else {
			result.BillingStatus = b.Status
			result.AmountDue = b.AmountDue(time.Now())
		}

		settled = b
		account, err = accountForBilling(ctx, repos, b)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, domainaudit.ActionPayment,
		fmt.Sprintf("Received %s payment %s of %s for billing %s",
			result.Payment.Mode, result.Payment.PaymentNumber,
			result.Payment.Amount.StringFixed(2), settled.BillingNumber),
		actor)
	if account != nil && result.Payment.Status == billing.PaymentStatusPosted {
		s.notifier.PaymentReceived(ctx, account, result.Payment, settled)
	}
	return result, nil
}

// Confirm posts a check payment and resettles its billing
func (s *PaymentService) Confirm(ctx context.Context, paymentID uuid.UUID, actor string) (*PaymentResult, error) {
	var (
		result  *PaymentResult
		account *metering.Account
		settled *billing.Billing
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return shared.ErrNotFound
		}
		if err := p.Post(); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, p); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		b, err := repos.BillingRepo().FindByID(ctx, p.BillingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}

		result = &PaymentResult{Payment: p}
		if err := s.resettle(ctx, repos, b, result); err != nil {
			return err
		}

		settled = b
		account, err = accountForBilling(ctx, repos, b)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, domainaudit.ActionPayment,
		fmt.Sprintf("Confirmed check payment %s for billing %s",
			result.Payment.PaymentNumber, settled.BillingNumber),
		actor)
	if account != nil {
		s.notifier.PaymentReceived(ctx, account, result.Payment, settled)
	}
	return result, nil
}

// Cancel voids an unposted check payment
func (s *PaymentService) Cancel(ctx context.Context, paymentID uuid.UUID, actor string) (*billing.Payment, error) {
	var cancelled *billing.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return shared.ErrNotFound
		}
		if err := p.Cancel(); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, p); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		cancelled = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, domainaudit.ActionVoid,
		fmt.Sprintf("Cancelled payment %s", cancelled.PaymentNumber), actor)
	return cancelled, nil
}

// Get returns a payment by ID
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var found *billing.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PaymentRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return shared.ErrNotFound
		}
		found = p
		return nil
	})
	return found, err
}

// List returns payments with filtering
func (s *PaymentService) List(ctx context.Context, filter shared.Filter) ([]billing.Payment, int64, error) {
	var (
		items []billing.Payment
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, total, err = repos.PaymentRepo().FindAll(ctx, filter)
		return err
	})
	return items, total, err
}

// resettle recomputes the billing status from the cumulative posted amount
func (s *PaymentService) resettle(ctx context.Context, repos TransactionalRepositories, b *billing.Billing, result *PaymentResult) error {
	total, err := repos.PaymentRepo().SumPostedByBilling(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("failed to sum posted payments: %w", err)
	}

	now := time.Now()
	b.Settle(total, now)
	if err := repos.BillingRepo().Save(ctx, b); err != nil {
		return fmt.Errorf("failed to save billing: %w", err)
	}

	result.BillingStatus = b.Status
	result.TotalPosted = total
	result.AmountDue = b.AmountDue(now)
	return nil
}
