package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterworks/backend/internal/domain/tariff"
)

func testConfig(t *testing.T) *tariff.Configuration {
	t.Helper()
	cfg, err := tariff.NewConfiguration(
		decimal.NewFromInt(20),
		10,
		decimal.NewFromInt(100),
		decimal.NewFromFloat(0.12),
		decimal.NewFromFloat(0.05),
	)
	require.NoError(t, err)
	return cfg
}

func newTestBilling(t *testing.T, consumption int64, arrears decimal.Decimal) *Billing {
	t.Helper()
	b, err := NewBilling(uuid.New(), uuid.New(), decimal.NewFromInt(consumption), testConfig(t), arrears, time.Now())
	require.NoError(t, err)
	return b
}

func TestBilling_Amounts(t *testing.T) {
	t.Run("volumetric charge above minimum consumption", func(t *testing.T) {
		b := newTestBilling(t, 50, decimal.Zero)

		assert.True(t, b.BaseAmount().Equal(decimal.NewFromInt(1000)), "base = %s", b.BaseAmount())
		assert.True(t, b.VATAmount().Equal(decimal.NewFromInt(120)), "vat = %s", b.VATAmount())
		assert.True(t, b.DueAmount().Equal(decimal.NewFromInt(1120)), "due = %s", b.DueAmount())
		assert.True(t, b.PenaltyAmount().Equal(decimal.NewFromInt(56)), "penalty = %s", b.PenaltyAmount())
		assert.True(t, b.OverdueAmount().Equal(decimal.NewFromInt(1176)), "overdue = %s", b.OverdueAmount())
	})

	t.Run("minimum charge at or below minimum consumption", func(t *testing.T) {
		b := newTestBilling(t, 8, decimal.Zero)
		assert.True(t, b.BaseAmount().Equal(decimal.NewFromInt(100)))

		b = newTestBilling(t, 10, decimal.Zero)
		assert.True(t, b.BaseAmount().Equal(decimal.NewFromInt(100)), "boundary consumption bills the minimum charge")
	})

	t.Run("arrears fold into due amount before penalty", func(t *testing.T) {
		b := newTestBilling(t, 50, decimal.NewFromInt(200))

		assert.True(t, b.DueAmount().Equal(decimal.NewFromInt(1320)))
		assert.True(t, b.OverdueAmount().Equal(decimal.NewFromInt(1386)))
	})

	t.Run("amount due switches to overdue past due date", func(t *testing.T) {
		b := newTestBilling(t, 50, decimal.Zero)

		assert.True(t, b.AmountDue(b.DueDate).Equal(b.DueAmount()))
		assert.True(t, b.AmountDue(b.DueDate.Add(time.Hour)).Equal(b.OverdueAmount()))
	})
}

func TestBilling_Dates(t *testing.T) {
	billingDate := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b, err := NewBilling(uuid.New(), uuid.New(), decimal.NewFromInt(12), testConfig(t), decimal.Zero, billingDate)
	require.NoError(t, err)

	assert.Equal(t, billingDate.AddDate(0, 0, 7), b.DueDate)
	assert.Equal(t, billingDate.AddDate(0, 0, 15), b.DisconnectionDate)
}

func TestBilling_Transitions(t *testing.T) {
	t.Run("confirm pending", func(t *testing.T) {
		b := newTestBilling(t, 50, decimal.Zero)
		require.NoError(t, b.Confirm())
		assert.Equal(t, BillingStatusUnpaid, b.Status)

		assert.Error(t, b.Confirm(), "double confirm is rejected")
	})

	t.Run("void pending only", func(t *testing.T) {
		b := newTestBilling(t, 50, decimal.Zero)
		require.NoError(t, b.Void())
		assert.Equal(t, BillingStatusVoided, b.Status)

		b = newTestBilling(t, 50, decimal.Zero)
		require.NoError(t, b.Confirm())
		assert.Error(t, b.Void())
	})

	t.Run("mark overdue requires unpaid", func(t *testing.T) {
		b := newTestBilling(t, 50, decimal.Zero)
		assert.Error(t, b.MarkOverdue())

		require.NoError(t, b.Confirm())
		require.NoError(t, b.MarkOverdue())
		assert.Equal(t, BillingStatusOverdue, b.Status)
	})
}

func TestBilling_Settle(t *testing.T) {
	t.Run("exact due amount settles", func(t *testing.T) {
		b := newTestBilling(t, 50, decimal.Zero)
		require.NoError(t, b.Confirm())

		b.Settle(decimal.NewFromInt(1120), b.DueDate)
		assert.Equal(t, BillingStatusPaid, b.Status)
	})

	t.Run("short payment stays unpaid", func(t *testing.T) {
		b := newTestBilling(t, 50, decimal.Zero)
		require.NoError(t, b.Confirm())

		b.Settle(decimal.NewFromInt(1119), b.DueDate)
		assert.Equal(t, BillingStatusUnpaid, b.Status)
	})

	t.Run("overdue stays overdue on a short payment", func(t *testing.T) {
		b := newTestBilling(t, 50, decimal.Zero)
		require.NoError(t, b.Confirm())
		require.NoError(t, b.MarkOverdue())

		late := b.DueDate.Add(24 * time.Hour)
		b.Settle(decimal.NewFromInt(100), late)
		assert.Equal(t, BillingStatusOverdue, b.Status, "a partial payment must not demote an overdue billing")

		b.Settle(decimal.NewFromInt(1176), late)
		assert.Equal(t, BillingStatusPaid, b.Status)
	})

	t.Run("past due date the penalty raises the target", func(t *testing.T) {
		b := newTestBilling(t, 50, decimal.Zero)
		require.NoError(t, b.Confirm())

		late := b.DueDate.Add(24 * time.Hour)
		b.Settle(decimal.NewFromInt(1120), late)
		assert.Equal(t, BillingStatusUnpaid, b.Status)

		b.Settle(decimal.NewFromInt(1176), late)
		assert.Equal(t, BillingStatusPaid, b.Status)
	})
}

func TestBilling_Refresh(t *testing.T) {
	b := newTestBilling(t, 50, decimal.Zero)

	newCfg, err := tariff.NewConfiguration(
		decimal.NewFromInt(25),
		10,
		decimal.NewFromInt(120),
		decimal.NewFromFloat(0.12),
		decimal.NewFromFloat(0.05),
	)
	require.NoError(t, err)

	newDate := time.Now().Add(48 * time.Hour)
	require.NoError(t, b.Refresh(decimal.NewFromInt(40), newCfg, decimal.NewFromInt(500), newDate))

	assert.Equal(t, BillingStatusPending, b.Status)
	assert.True(t, b.BaseAmount().Equal(decimal.NewFromInt(1000)), "40 x 25")
	assert.True(t, b.Arrears.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, newDate.AddDate(0, 0, 7), b.DueDate)

	require.NoError(t, b.Confirm())
	b.Status = BillingStatusPaid
	assert.Error(t, b.Refresh(decimal.NewFromInt(40), newCfg, decimal.Zero, newDate), "settled billings are immutable")
}
