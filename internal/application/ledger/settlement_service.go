package ledger

import (
	"context"
	"fmt"

	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/repairflow/backend/internal/domain/shared"
	"github.com/repairflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettlementPolicy tunes settlement behavior that product may want to
// revisit without touching the allocation loop
type SettlementPolicy struct {
	// SynthesizeUnmatchedPayments controls what happens when a payment
	// arrives for a party with no outstanding debt: when true, an ad-hoc
	// obligation for the full amount is created so the payment is tracked
	// against the party instead of rejected.
	SynthesizeUnmatchedPayments bool

	// Idempotency controls request-ID replay protection
	Idempotency shared.IdempotencyConfig
}

// DefaultSettlementPolicy returns the default settlement policy
func DefaultSettlementPolicy() SettlementPolicy {
	return SettlementPolicy{
		SynthesizeUnmatchedPayments: true,
		Idempotency:                 shared.DefaultIdempotencyConfig(),
	}
}

// SettlementService settles supplier payments against outstanding
// obligations. All mutation of obligation balances in the payment flow
// goes through here.
type SettlementService struct {
	obligationRepo ledger.ObligationRepository
	paymentRepo    ledger.PaymentRepository
	idempotency    shared.IdempotencyStore
	policy         SettlementPolicy
	locks          *partyLocks
	logger         *zap.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	obligationRepo ledger.ObligationRepository,
	paymentRepo ledger.PaymentRepository,
	idempotency shared.IdempotencyStore,
	policy SettlementPolicy,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		obligationRepo: obligationRepo,
		paymentRepo:    paymentRepo,
		idempotency:    idempotency,
		policy:         policy,
		locks:          newPartyLocks(),
		logger:         logger,
	}
}

// SettlePaymentRequest represents a request to record a supplier payment
type SettlePaymentRequest struct {
	// RequestID is a client-generated idempotency key. Optional; when set,
	// a retried request with the same ID is rejected instead of settling
	// twice.
	RequestID   string
	Party       string
	Amount      valueobject.Money
	Method      ledger.PaymentMethod
	Description string
}

// SettlementResult reports how a payment was absorbed by the ledger
type SettlementResult struct {
	Payment              *ledger.Payment     `json:"payment"`
	TotalAllocated       decimal.Decimal     `json:"total_allocated"`
	RemainingUnallocated decimal.Decimal     `json:"remaining_unallocated"`
	Allocations          []ledger.Allocation `json:"allocations"`
	Synthesized          bool                `json:"synthesized"`
}

// RecordPayment records money handed to a party and allocates it against
// that party's outstanding obligations, oldest first. If the party has no
// debt, policy decides whether an ad-hoc obligation is synthesized for the
// full amount. The payment record always carries the full received amount.
//
// Settlements for the same party are serialized in-process; each touched
// obligation is saved with an optimistic version check as the cross-process
// backstop.
func (s *SettlementService) RecordPayment(ctx context.Context, req SettlePaymentRequest) (*SettlementResult, error) {
	canonical := ledger.NormalizeParty(req.Party)
	if canonical == "" {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party name cannot be empty")
	}
	if !req.Amount.Amount().IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	if req.RequestID != "" && s.policy.Idempotency.Enabled && s.idempotency != nil {
		fresh, err := s.idempotency.MarkProcessed(ctx, req.RequestID, s.policy.Idempotency.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check request idempotency: %w", err)
		}
		if !fresh {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "Payment request was already processed")
		}
	}

	unlock := s.locks.acquire(canonical)
	defer unlock()

	outstanding, err := s.obligationRepo.FindOutstandingByParty(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to load outstanding obligations: %w", err)
	}

	obligations := make([]*ledger.Obligation, len(outstanding))
	for i := range outstanding {
		obligations[i] = &outstanding[i]
	}

	synthesized := false
	if len(obligations) == 0 {
		if !s.policy.SynthesizeUnmatchedPayments {
			return nil, shared.NewDomainError("NO_OUTSTANDING_DEBT", "Party has no outstanding obligations")
		}
		adhoc, err := ledger.NewObligation(
			canonical,
			req.Amount,
			ledger.ObligationSourceManual,
			ledger.CategoryParts,
			fmt.Sprintf("Ad-hoc obligation for payment to %s", canonical),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize obligation: %w", err)
		}
		if err := s.obligationRepo.Save(ctx, adhoc); err != nil {
			return nil, fmt.Errorf("failed to save synthesized obligation: %w", err)
		}
		obligations = []*ledger.Obligation{adhoc}
		synthesized = true

		s.logger.Info("synthesized ad-hoc obligation for unmatched payment",
			zap.String("party", canonical),
			zap.String("amount", req.Amount.Amount().StringFixed(2)))
	}

	allocation, err := ledger.AllocatePayment(obligations, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate payment: %w", err)
	}

	for _, a := range allocation.Allocations {
		for _, o := range obligations {
			if o.ID != a.ObligationID {
				continue
			}
			if err := s.obligationRepo.SaveWithLock(ctx, o); err != nil {
				return nil, fmt.Errorf("failed to save obligation %s: %w", o.ID, err)
			}
			break
		}
	}

	payment, err := ledger.NewPayment(canonical, req.Amount, req.Method, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Info("payment settled",
		zap.String("party", canonical),
		zap.String("amount", req.Amount.Amount().StringFixed(2)),
		zap.String("allocated", allocation.TotalAllocated.StringFixed(2)),
		zap.String("unallocated", allocation.RemainingUnallocated.StringFixed(2)),
		zap.Bool("synthesized", synthesized))

	return &SettlementResult{
		Payment:              payment,
		TotalAllocated:       allocation.TotalAllocated,
		RemainingUnallocated: allocation.RemainingUnallocated,
		Allocations:          allocation.Allocations,
		Synthesized:          synthesized,
	}, nil
}

// ListPayments returns payment history, optionally scoped to one party
func (s *SettlementService) ListPayments(
	ctx context.Context,
	party string,
	filter ledger.PaymentFilter,
) ([]ledger.Payment, error) {
	canonical := ledger.NormalizeParty(party)
	if canonical != "" {
		return s.paymentRepo.FindByParty(ctx, canonical, filter)
	}
	return s.paymentRepo.FindAll(ctx, filter)
}
