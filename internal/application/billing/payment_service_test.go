package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/domain/shared"
)

func newPaymentService(repos *testRepos) *PaymentService {
	return NewPaymentService(repos.scope(), newTestNotifier(), newTestRecorder())
}

// collectibleBilling builds a confirmed billing with a known due amount
func collectibleBilling(t *testing.T, meter *metering.Meter) *billing.Billing {
	t.Helper()
	config := testConfiguration(t)
	reading := testReading(t, meter, 110, 3, 2026)
	b, err := billing.NewBilling(reading.ID, meter.ID, decimal.NewFromInt(10), config, decimal.Zero, time.Now())
	require.NoError(t, err)
	require.NoError(t, b.Confirm())
	b.BillingNumber = "B0326-00001"
	return b
}

func expectAccountLookup(ctx context.Context, repos *testRepos, meter *metering.Meter) {
	account, _ := metering.NewAccount("Juan", "", "Dela Cruz", "", "")
	repos.meterRepo.On("FindByID", ctx, meter.ID).Return(meter, nil)
	repos.accountRepo.On("FindByID", ctx, meter.AccountID).Return(account, nil)
}

func TestPaymentService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("cash payment posts and settles the billing", func(t *testing.T) {
		repos := newTestRepos()
		meter := testMeter(t, 100)
		b := collectibleBilling(t, meter)
		due := b.DueAmount()

		repos.billingRepo.On("FindByID", ctx, b.ID).Return(b, nil)
		repos.paymentRepo.On("Save", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
		repos.paymentRepo.On("SumPostedByBilling", ctx, b.ID).Return(due, nil)
		repos.billingRepo.On("Save", ctx, b).Return(nil)
		expectAccountLookup(ctx, repos, meter)

		result, err := newPaymentService(repos).Submit(ctx, SubmitPaymentRequest{
			BillingID:   b.ID,
			Amount:      due,
			Mode:        billing.PaymentModeCash,
			PaymentDate: time.Now(),
		}, "teller1")

		require.NoError(t, err)
		assert.Equal(t, billing.PaymentStatusPosted, result.Payment.Status)
		assert.Equal(t, billing.BillingStatusPaid, result.BillingStatus)
		assert.True(t, result.TotalPosted.Equal(due))
	})

	t.Run("check payment stays unposted and leaves the billing unpaid", func(t *testing.T) {
		repos := newTestRepos()
		meter := testMeter(t, 100)
		b := collectibleBilling(t, meter)

		repos.billingRepo.On("FindByID", ctx, b.ID).Return(b, nil)
		repos.paymentRepo.On("Save", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
		expectAccountLookup(ctx, repos, meter)

		result, err := newPaymentService(repos).Submit(ctx, SubmitPaymentRequest{
			BillingID:   b.ID,
			Amount:      b.DueAmount(),
			Mode:        billing.PaymentModeCheck,
			PaymentDate: time.Now(),
		}, "teller1")

		require.NoError(t, err)
		assert.Equal(t, billing.PaymentStatusUnposted, result.Payment.Status)
		assert.Equal(t, billing.BillingStatusUnpaid, result.BillingStatus)
		repos.paymentRepo.AssertNotCalled(t, "SumPostedByBilling", mock.Anything, mock.Anything)
	})

	t.Run("rejects a payment against a pending billing", func(t *testing.T) {
		repos := newTestRepos()
		meter := testMeter(t, 100)
		config := testConfiguration(t)
		reading := testReading(t, meter, 110, 3, 2026)
		pending, err := billing.NewBilling(reading.ID, meter.ID, decimal.NewFromInt(10), config, decimal.Zero, time.Now())
		require.NoError(t, err)

		repos.billingRepo.On("FindByID", ctx, pending.ID).Return(pending, nil)

		_, err = newPaymentService(repos).Submit(ctx, SubmitPaymentRequest{
			BillingID:   pending.ID,
			Amount:      decimal.NewFromInt(100),
			Mode:        billing.PaymentModeCash,
			PaymentDate: time.Now(),
		}, "teller1")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATUS", domainErr.Code)
		repos.paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		repos := newTestRepos()
		meter := testMeter(t, 100)
		b := collectibleBilling(t, meter)
		repos.billingRepo.On("FindByID", ctx, b.ID).Return(b, nil)

		_, err := newPaymentService(repos).Submit(ctx, SubmitPaymentRequest{
			BillingID:   b.ID,
			Amount:      decimal.Zero,
			Mode:        billing.PaymentModeCash,
			PaymentDate: time.Now(),
		}, "teller1")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})

	t.Run("unknown billing returns not found", func(t *testing.T) {
		repos := newTestRepos()
		meter := testMeter(t, 100)
		b := collectibleBilling(t, meter)
		repos.billingRepo.On("FindByID", ctx, b.ID).Return(nil, nil)

		_, err := newPaymentService(repos).Submit(ctx, SubmitPaymentRequest{
			BillingID:   b.ID,
			Amount:      decimal.NewFromInt(100),
			Mode:        billing.PaymentModeCash,
			PaymentDate: time.Now(),
		}, "teller1")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPaymentService_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("posts a check and resettles the billing", func(t *testing.T) {
		repos := newTestRepos()
		meter := testMeter(t, 100)
		b := collectibleBilling(t, meter)

		check, err := billing.NewPayment(b.ID, b.DueAmount(), billing.PaymentModeCheck, "teller1", time.Now())
		require.NoError(t, err)
		check.PaymentNumber = "P0326-00001"

		repos.paymentRepo.On("FindByID", ctx, check.ID).Return(check, nil)
		repos.paymentRepo.On("Save", ctx, check).Return(nil)
		repos.billingRepo.On("FindByID", ctx, b.ID).Return(b, nil)
		repos.paymentRepo.On("SumPostedByBilling", ctx, b.ID).Return(b.DueAmount(), nil)
		repos.billingRepo.On("Save", ctx, b).Return(nil)
		expectAccountLookup(ctx, repos, meter)

		result, err := newPaymentService(repos).Confirm(ctx, check.ID, "teller1")

		require.NoError(t, err)
		assert.Equal(t, billing.PaymentStatusPosted, result.Payment.Status)
		assert.Equal(t, billing.BillingStatusPaid, result.BillingStatus)
	})

	t.Run("cannot confirm an already posted payment", func(t *testing.T) {
		repos := newTestRepos()
		meter := testMeter(t, 100)
		b := collectibleBilling(t, meter)

		cash, err := billing.NewPayment(b.ID, b.DueAmount(), billing.PaymentModeCash, "teller1", time.Now())
		require.NoError(t, err)
		repos.paymentRepo.On("FindByID", ctx, cash.ID).Return(cash, nil)

		_, err = newPaymentService(repos).Confirm(ctx, cash.ID, "teller1")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATUS", domainErr.Code)
	})
}

func TestPaymentService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels an unposted check", func(t *testing.T) {
		repos := newTestRepos()
		meter := testMeter(t, 100)
		b := collectibleBilling(t, meter)

		check, err := billing.NewPayment(b.ID, b.DueAmount(), billing.PaymentModeCheck, "teller1", time.Now())
		require.NoError(t, err)
		check.PaymentNumber = "P0326-00002"

		repos.paymentRepo.On("FindByID", ctx, check.ID).Return(check, nil)
		repos.paymentRepo.On("Save", ctx, check).Return(nil)

		cancelled, err := newPaymentService(repos).Cancel(ctx, check.ID, "teller1")

		require.NoError(t, err)
		assert.Equal(t, billing.PaymentStatusCancelled, cancelled.Status)
	})

	t.Run("cannot cancel a posted payment", func(t *testing.T) {
		repos := newTestRepos()
		meter := testMeter(t, 100)
		b := collectibleBilling(t, meter)

		cash, err := billing.NewPayment(b.ID, b.DueAmount(), billing.PaymentModeCash, "teller1", time.Now())
		require.NoError(t, err)
		repos.paymentRepo.On("FindByID", ctx, cash.ID).Return(cash, nil)

		_, err = newPaymentService(repos).Cancel(ctx, cash.ID, "teller1")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATUS", domainErr.Code)
		repos.paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
