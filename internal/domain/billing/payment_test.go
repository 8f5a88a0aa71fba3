package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	t.Run("cash posts immediately", func(t *testing.T) {
		p, err := NewPayment(uuid.New(), decimal.NewFromInt(500), PaymentModeCash, "teller1", time.Now())
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPosted, p.Status)
	})

	t.Run("online posts immediately", func(t *testing.T) {
		p, err := NewPayment(uuid.New(), decimal.NewFromInt(500), PaymentModeOnline, "teller1", time.Now())
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPosted, p.Status)
	})

	t.Run("check starts unposted", func(t *testing.T) {
		p, err := NewPayment(uuid.New(), decimal.NewFromInt(500), PaymentModeCheck, "teller1", time.Now())
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusUnposted, p.Status)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), decimal.Zero, PaymentModeCash, "teller1", time.Now())
		assert.Error(t, err)

		_, err = NewPayment(uuid.New(), decimal.NewFromInt(-5), PaymentModeCash, "teller1", time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), decimal.NewFromInt(10), PaymentMode("WIRE"), "teller1", time.Now())
		assert.Error(t, err)
	})
}

func TestPayment_Post(t *testing.T) {
	p, err := NewPayment(uuid.New(), decimal.NewFromInt(500), PaymentModeCheck, "teller1", time.Now())
	require.NoError(t, err)

	require.NoError(t, p.Post())
	assert.Equal(t, PaymentStatusPosted, p.Status)
	assert.Error(t, p.Post(), "double post is rejected")
}

func TestPayment_Cancel(t *testing.T) {
	t.Run("unposted check can be cancelled", func(t *testing.T) {
		p, err := NewPayment(uuid.New(), decimal.NewFromInt(500), PaymentModeCheck, "teller1", time.Now())
		require.NoError(t, err)

		require.NoError(t, p.Cancel())
		assert.Equal(t, PaymentStatusCancelled, p.Status)
	})

	t.Run("posted payment cannot be cancelled", func(t *testing.T) {
		p, err := NewPayment(uuid.New(), decimal.NewFromInt(500), PaymentModeCash, "teller1", time.Now())
		require.NoError(t, err)
		assert.Error(t, p.Cancel())
	})
}
