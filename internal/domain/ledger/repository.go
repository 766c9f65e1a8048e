package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ObligationFilter defines filtering options for obligation queries
type ObligationFilter struct {
	shared.Filter
	Party    *string           // Filter by canonical party name
	Status   *ObligationStatus // Filter by status
	Source   *ObligationSource // Filter by source
	FromDate *time.Time        // Filter by creation date range start
	ToDate   *time.Time        // Filter by creation date range end
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	Party    *string        // Filter by canonical party name
	Method   *PaymentMethod // Filter by payment method
	FromDate *time.Time     // Filter by creation date range start
	ToDate   *time.Time     // Filter by creation date range end
}

// PartyTotals carries the aggregated obligation figures for one party,
// as produced by the store (SQL GROUP BY or in-memory scan)
type PartyTotals struct {
	Party           string
	TotalObligated  decimal.Decimal
	TotalPaid       decimal.Decimal
	TotalRemaining  decimal.Decimal
	ObligationCount int
}

// ObligationRepository defines the interface for obligation persistence.
// The settlement engine depends only on this interface, never on a
// concrete store.
type ObligationRepository interface {
	// FindByID finds an obligation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Obligation, error)

	// FindOutstandingByParty finds all obligations for a party with a
	// positive remaining amount, ordered by creation time ascending.
	// The ordering is a settlement contract (oldest debt first).
	FindOutstandingByParty(ctx context.Context, party string) ([]Obligation, error)

	// FindByParty finds all obligations for a party with filtering
	FindByParty(ctx context.Context, party string, filter ObligationFilter) ([]Obligation, error)

	// FindAll finds all obligations with filtering
	FindAll(ctx context.Context, filter ObligationFilter) ([]Obligation, error)

	// Save creates or updates an obligation
	Save(ctx context.Context, obligation *Obligation) error

	// SaveWithLock saves with optimistic locking (version check);
	// returns shared.ErrConcurrencyConflict-coded error on a stale write
	SaveWithLock(ctx context.Context, obligation *Obligation) error

	// Delete removes an obligation. This is an administrative action;
	// settlement never deletes.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts obligations matching the filter
	Count(ctx context.Context, filter ObligationFilter) (int64, error)

	// SumRemainingByParty calculates the total due for one party
	SumRemainingByParty(ctx context.Context, party string) (decimal.Decimal, error)

	// TotalsByParty aggregates obligated/paid/remaining per party
	TotalsByParty(ctx context.Context) ([]PartyTotals, error)
}

// PaymentRepository defines the interface for payment history persistence
type PaymentRepository interface {
	// Create inserts a new payment record. Payments are immutable; there
	// is deliberately no update operation.
	Create(ctx context.Context, payment *Payment) error

	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByParty finds payments for a party with filtering
	FindByParty(ctx context.Context, party string, filter PaymentFilter) ([]Payment, error)

	// FindAll finds all payments with filtering
	FindAll(ctx context.Context, filter PaymentFilter) ([]Payment, error)

	// Count counts payments matching the filter
	Count(ctx context.Context, filter PaymentFilter) (int64, error)

	// LastPaymentTimes returns the most recent payment time per party
	LastPaymentTimes(ctx context.Context) (map[string]time.Time, error)
}
