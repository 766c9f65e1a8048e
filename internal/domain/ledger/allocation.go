package ledger

import (
	"sort"

	"github.com/google/uuid"
	"github.com/repairflow/backend/internal/domain/shared"
	"github.com/repairflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Allocation records how much of a payment a single obligation absorbed
type Allocation struct {
	ObligationID   uuid.UUID       `json:"obligation_id"`
	Applied        decimal.Decimal `json:"applied"`
	RemainingAfter decimal.Decimal `json:"remaining_after"`
}

// AllocationResult is the outcome of allocating one payment across a party's
// outstanding obligations
type AllocationResult struct {
	TotalAllocated       decimal.Decimal `json:"total_allocated"`
	RemainingUnallocated decimal.Decimal `json:"remaining_unallocated"`
	Allocations          []Allocation    `json:"allocations"`
}

// AllocatePayment applies a payment amount against the given obligations,
// oldest debt first. Obligations are mutated in place via ApplyPayment, so
// the paid/remaining invariant holds after every step. Obligations with no
// remaining balance are skipped. Any amount beyond the total outstanding
// debt is returned as RemainingUnallocated; no obligation ever goes
// negative and no excess is silently dropped.
//
// The oldest-first (created-at ascending) order is a contract of the
// settlement engine, not an accident: the walk re-sorts its input so the
// result is deterministic regardless of how the store returned the rows.
func AllocatePayment(obligations []*Obligation, amount valueobject.Money) (*AllocationResult, error) {
	if !amount.Amount().IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	ordered := make([]*Obligation, len(obligations))
	copy(ordered, obligations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	result := &AllocationResult{
		TotalAllocated:       decimal.Zero,
		RemainingUnallocated: amount.Amount(),
		Allocations:          make([]Allocation, 0, len(ordered)),
	}

	left := amount.Amount()
	for _, o := range ordered {
		if left.IsZero() {
			break
		}
		if !o.IsOutstanding() {
			continue
		}

		toApply := decimal.Min(o.RemainingAmount, left)
		if err := o.ApplyPayment(valueobject.NewMoneyINR(toApply)); err != nil {
			return nil, err
		}

		left = left.Sub(toApply)
		result.TotalAllocated = result.TotalAllocated.Add(toApply)
		result.Allocations = append(result.Allocations, Allocation{
			ObligationID:   o.ID,
			Applied:        toApply,
			RemainingAfter: o.RemainingAmount,
		})
	}

	result.RemainingUnallocated = left
	return result, nil
}
