package ledger

import (
	"testing"

	"github.com/repairflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inr(amount int64) valueobject.Money {
	return valueobject.NewMoneyINR(decimal.NewFromInt(amount))
}

func TestNewObligation(t *testing.T) {
	t.Run("creates pending obligation with normalized party", func(t *testing.T) {
		o, err := NewObligation("PATEL ", inr(500), ObligationSourceTransaction, "", "Brake pads")
		require.NoError(t, err)

		assert.Equal(t, "Patel", o.Party)
		assert.Equal(t, CategoryParts, o.Category)
		assert.Equal(t, ObligationSourceTransaction, o.Source)
		assert.Equal(t, ObligationStatusPending, o.Status)
		assert.True(t, o.Amount.Equal(decimal.NewFromInt(500)))
		assert.True(t, o.PaidAmount.IsZero())
		assert.True(t, o.RemainingAmount.Equal(decimal.NewFromInt(500)))
		assert.Nil(t, o.SettledAt)
		assert.NoError(t, o.CheckInvariant())

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "ObligationCreated", events[0].EventType())
	})

	t.Run("rejects empty party", func(t *testing.T) {
		_, err := NewObligation("   ", inr(100), ObligationSourceManual, "", "")
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewObligation("Patel", inr(0), ObligationSourceTransaction, "", "")
		assert.Error(t, err)

		_, err = NewObligation("Patel", inr(-10), ObligationSourceTransaction, "", "")
		assert.Error(t, err)
	})

	t.Run("rejects invalid source", func(t *testing.T) {
		_, err := NewObligation("Patel", inr(100), ObligationSource("BOGUS"), "", "")
		assert.Error(t, err)
	})
}

func TestObligation_ApplyPayment(t *testing.T) {
	t.Run("partial payment", func(t *testing.T) {
		o, err := NewObligation("Patel", inr(500), ObligationSourceTransaction, "", "")
		require.NoError(t, err)
		versionBefore := o.Version

		require.NoError(t, o.ApplyPayment(inr(200)))

		assert.Equal(t, ObligationStatusPartial, o.Status)
		assert.True(t, o.PaidAmount.Equal(decimal.NewFromInt(200)))
		assert.True(t, o.RemainingAmount.Equal(decimal.NewFromInt(300)))
		assert.Nil(t, o.SettledAt)
		assert.Equal(t, versionBefore+1, o.Version)
		assert.NoError(t, o.CheckInvariant())
	})

	t.Run("full payment settles", func(t *testing.T) {
		o, err := NewObligation("Patel", inr(500), ObligationSourceTransaction, "", "")
		require.NoError(t, err)

		require.NoError(t, o.ApplyPayment(inr(500)))

		assert.Equal(t, ObligationStatusSettled, o.Status)
		assert.True(t, o.RemainingAmount.IsZero())
		assert.True(t, o.IsSettled())
		assert.False(t, o.IsOutstanding())
		require.NotNil(t, o.SettledAt)
		assert.NoError(t, o.CheckInvariant())
	})

	t.Run("two partials then settle", func(t *testing.T) {
		o, err := NewObligation("Patel", inr(500), ObligationSourceTransaction, "", "")
		require.NoError(t, err)

		require.NoError(t, o.ApplyPayment(inr(200)))
		require.NoError(t, o.ApplyPayment(inr(300)))

		assert.Equal(t, ObligationStatusSettled, o.Status)
		assert.True(t, o.PaidAmount.Equal(decimal.NewFromInt(500)))
		assert.NoError(t, o.CheckInvariant())
	})

	t.Run("rejects payment exceeding remaining", func(t *testing.T) {
		o, err := NewObligation("Patel", inr(100), ObligationSourceTransaction, "", "")
		require.NoError(t, err)

		err = o.ApplyPayment(inr(150))
		assert.Error(t, err)
		assert.True(t, o.RemainingAmount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, ObligationStatusPending, o.Status)
	})

	t.Run("rejects non-positive payment", func(t *testing.T) {
		o, err := NewObligation("Patel", inr(100), ObligationSourceTransaction, "", "")
		require.NoError(t, err)

		assert.Error(t, o.ApplyPayment(inr(0)))
		assert.Error(t, o.ApplyPayment(inr(-5)))
	})
}

func TestNewPayment(t *testing.T) {
	t.Run("creates payment with normalized party", func(t *testing.T) {
		p, err := NewPayment("  patel", inr(300), PaymentMethodUPI, "Weekly settlement")
		require.NoError(t, err)

		assert.Equal(t, "Patel", p.Party)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, PaymentMethodUPI, p.Method)
	})

	t.Run("defaults empty method to other", func(t *testing.T) {
		p, err := NewPayment("Patel", inr(300), "", "")
		require.NoError(t, err)
		assert.Equal(t, PaymentMethodOther, p.Method)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := NewPayment("Patel", inr(300), PaymentMethod("BARTER"), "")
		assert.Error(t, err)
	})

	t.Run("rejects empty party and non-positive amount", func(t *testing.T) {
		_, err := NewPayment("", inr(300), PaymentMethodCash, "")
		assert.Error(t, err)

		_, err = NewPayment("Patel", inr(0), PaymentMethodCash, "")
		assert.Error(t, err)
	})
}
