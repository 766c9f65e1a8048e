package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSummary(t *testing.T) {
	t.Run("aggregates per party", func(t *testing.T) {
		a1 := outstandingObligation(t, "Patel", 500, 3*time.Hour)
		require.NoError(t, a1.ApplyPayment(inr(200)))
		a2 := outstandingObligation(t, "Patel", 300, 2*time.Hour)
		b1 := outstandingObligation(t, "Sharma", 100, time.Hour)

		p1, err := NewPayment("Patel", inr(200), PaymentMethodCash, "")
		require.NoError(t, err)
		p1.CreatedAt = time.Now().Add(-30 * time.Minute)
		p2, err := NewPayment("Patel", inr(50), PaymentMethodUPI, "")
		require.NoError(t, err)
		p2.CreatedAt = time.Now().Add(-5 * time.Minute)

		summaries := ComputeSummary(
			[]Obligation{*a1, *a2, *b1},
			[]Payment{*p1, *p2},
		)

		require.Len(t, summaries, 2)
		patel := summaries[0]
		sharma := summaries[1]

		assert.Equal(t, "Patel", patel.Party)
		assert.True(t, patel.TotalObligated.Equal(decimal.NewFromInt(800)))
		assert.True(t, patel.TotalPaid.Equal(decimal.NewFromInt(200)))
		assert.True(t, patel.TotalRemaining.Equal(decimal.NewFromInt(600)))
		assert.Equal(t, 2, patel.ObligationCount)
		require.NotNil(t, patel.LastPaymentAt)
		assert.True(t, patel.LastPaymentAt.Equal(p2.CreatedAt))

		assert.Equal(t, "Sharma", sharma.Party)
		assert.True(t, sharma.TotalRemaining.Equal(decimal.NewFromInt(100)))
		assert.Nil(t, sharma.LastPaymentAt)
	})

	t.Run("empty inputs yield empty summary", func(t *testing.T) {
		assert.Empty(t, ComputeSummary(nil, nil))
	})

	t.Run("payment-only party still appears", func(t *testing.T) {
		p, err := NewPayment("Orphan", inr(40), PaymentMethodCash, "")
		require.NoError(t, err)

		summaries := ComputeSummary(nil, []Payment{*p})
		require.Len(t, summaries, 1)
		assert.Equal(t, "Orphan", summaries[0].Party)
		assert.True(t, summaries[0].TotalObligated.IsZero())
		assert.NotNil(t, summaries[0].LastPaymentAt)
	})
}
