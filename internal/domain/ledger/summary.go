package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PartySummary is the per-party view reporting consumes: how much was ever
// owed, how much has been paid, and what is still due. It is a pure
// projection of the obligation store and payment history; no mutable
// summary state exists anywhere that could drift from the obligations.
type PartySummary struct {
	Party           string          `json:"party"`
	TotalObligated  decimal.Decimal `json:"total_obligated"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	TotalRemaining  decimal.Decimal `json:"total_remaining"`
	ObligationCount int             `json:"obligation_count"`
	LastPaymentAt   *time.Time      `json:"last_payment_at,omitempty"`
}

// ComputeSummary derives per-party summaries by scanning obligations and
// payments. Parties are returned in lexicographic order so the output is
// deterministic.
func ComputeSummary(obligations []Obligation, payments []Payment) []PartySummary {
	byParty := make(map[string]*PartySummary)

	for i := range obligations {
		o := &obligations[i]
		s, ok := byParty[o.Party]
		if !ok {
			s = &PartySummary{
				Party:          o.Party,
				TotalObligated: decimal.Zero,
				TotalPaid:      decimal.Zero,
				TotalRemaining: decimal.Zero,
			}
			byParty[o.Party] = s
		}
		s.TotalObligated = s.TotalObligated.Add(o.Amount)
		s.TotalPaid = s.TotalPaid.Add(o.PaidAmount)
		s.TotalRemaining = s.TotalRemaining.Add(o.RemainingAmount)
		s.ObligationCount++
	}

	for i := range payments {
		p := &payments[i]
		s, ok := byParty[p.Party]
		if !ok {
			// A payment with no obligations should not normally exist
			// (settlement synthesizes one), but the projection stays total.
			s = &PartySummary{
				Party:          p.Party,
				TotalObligated: decimal.Zero,
				TotalPaid:      decimal.Zero,
				TotalRemaining: decimal.Zero,
			}
			byParty[p.Party] = s
		}
		if s.LastPaymentAt == nil || p.CreatedAt.After(*s.LastPaymentAt) {
			t := p.CreatedAt
			s.LastPaymentAt = &t
		}
	}

	summaries := make([]PartySummary, 0, len(byParty))
	for _, s := range byParty {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Party < summaries[j].Party
	})
	return summaries
}
