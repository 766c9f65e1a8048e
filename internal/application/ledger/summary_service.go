package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/repairflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SummaryService builds the per-party ledger view consumed by reporting.
// It is strictly read-only: every figure is derived from the obligation
// store and payment history on each call, so nothing can drift out of sync
// with settlements.
type SummaryService struct {
	obligationRepo ledger.ObligationRepository
	paymentRepo    ledger.PaymentRepository
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(obligationRepo ledger.ObligationRepository, paymentRepo ledger.PaymentRepository) *SummaryService {
	return &SummaryService{
		obligationRepo: obligationRepo,
		paymentRepo:    paymentRepo,
	}
}

// GetSummary returns one summary row per party, sorted by party name
func (s *SummaryService) GetSummary(ctx context.Context) ([]ledger.PartySummary, error) {
	totals, err := s.obligationRepo.TotalsByParty(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate obligations: %w", err)
	}
	lastPayments, err := s.paymentRepo.LastPaymentTimes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment times: %w", err)
	}

	summaries := make([]ledger.PartySummary, 0, len(totals))
	for _, t := range totals {
		summary := ledger.PartySummary{
			Party:           t.Party,
			TotalObligated:  t.TotalObligated,
			TotalPaid:       t.TotalPaid,
			TotalRemaining:  t.TotalRemaining,
			ObligationCount: t.ObligationCount,
		}
		if at, ok := lastPayments[t.Party]; ok {
			paidAt := at
			summary.LastPaymentAt = &paidAt
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Party < summaries[j].Party
	})
	return summaries, nil
}

// GetPartyDue returns the outstanding total for a single party. This is the
// "due" figure shown next to a supplier in the UI and always equals the
// TotalRemaining the full summary would report for that party.
func (s *SummaryService) GetPartyDue(ctx context.Context, party string) (decimal.Decimal, error) {
	canonical := ledger.NormalizeParty(party)
	if canonical == "" {
		return decimal.Zero, shared.NewDomainError("INVALID_PARTY", "Party name cannot be empty")
	}
	due, err := s.obligationRepo.SumRemainingByParty(ctx, canonical)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum remaining obligations: %w", err)
	}
	return due, nil
}
