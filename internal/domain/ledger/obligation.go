package ledger

import (
	"fmt"
	"time"

	"github.com/repairflow/backend/internal/domain/shared"
	"github.com/repairflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ObligationStatus represents the settlement status of an obligation
type ObligationStatus string

const (
	ObligationStatusPending ObligationStatus = "PENDING" // Unpaid, remaining = amount
	ObligationStatusPartial ObligationStatus = "PARTIAL" // Partially paid, 0 < remaining < amount
	ObligationStatusSettled ObligationStatus = "SETTLED" // Fully paid, remaining = 0
)

// IsValid checks if the status is a valid ObligationStatus
func (s ObligationStatus) IsValid() bool {
	switch s {
	case ObligationStatusPending, ObligationStatusPartial, ObligationStatusSettled:
		return true
	}
	return false
}

// String returns the string representation of ObligationStatus
func (s ObligationStatus) String() string {
	return string(s)
}

// ObligationSource represents how an obligation came into existence
type ObligationSource string

const (
	ObligationSourceTransaction ObligationSource = "TRANSACTION" // Derived from a repair transaction's part lines
	ObligationSourceManual      ObligationSource = "MANUAL"      // Synthesized or entered by hand
)

// IsValid checks if the source is valid
func (s ObligationSource) IsValid() bool {
	return s == ObligationSourceTransaction || s == ObligationSourceManual
}

// CategoryParts is the default classification for part-purchase obligations
const CategoryParts = "Parts"

// Obligation is an aggregate root tracking a single amount owed to an
// external party (typically a parts supplier). The original Amount is fixed
// at creation; only PaidAmount and RemainingAmount change, and only through
// ApplyPayment, which preserves PaidAmount + RemainingAmount == Amount with
// both sides non-negative.
type Obligation struct {
	shared.BaseAggregateRoot
	Party           string           `json:"party"` // Canonical (normalized) payee name
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	Source          ObligationSource `json:"source"`
	Amount          decimal.Decimal  `json:"amount"`
	PaidAmount      decimal.Decimal  `json:"paid_amount"`
	RemainingAmount decimal.Decimal  `json:"remaining_amount"`
	Status          ObligationStatus `json:"status"`
	SettledAt       *time.Time       `json:"settled_at"` // When fully paid
}

// NewObligation creates a new unpaid obligation for a party. The party name
// is normalized here so every stored obligation carries the canonical key.
func NewObligation(party string, amount valueobject.Money, source ObligationSource, category, description string) (*Obligation, error) {
	canonical := NormalizeParty(party)
	if canonical == "" {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party name cannot be empty")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Obligation source is not valid")
	}
	if !amount.Amount().IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Obligation amount must be positive")
	}
	if category == "" {
		category = CategoryParts
	}

	o := &Obligation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Party:             canonical,
		Description:       description,
		Category:          category,
		Source:            source,
		Amount:            amount.Amount(),
		PaidAmount:        decimal.Zero,
		RemainingAmount:   amount.Amount(),
		Status:            ObligationStatusPending,
	}

	o.AddDomainEvent(NewObligationCreatedEvent(o))

	return o, nil
}

// ApplyPayment applies part of a payment to the obligation. The amount must
// be positive and must not exceed the remaining balance; allocation across
// multiple obligations is the settlement engine's job, not the aggregate's.
func (o *Obligation) ApplyPayment(amount valueobject.Money) error {
	if !amount.Amount().IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(o.RemainingAmount) {
		return shared.NewDomainError("EXCEEDS_REMAINING", fmt.Sprintf(
			"Payment amount %s exceeds remaining amount %s",
			amount.Amount().StringFixed(2), o.RemainingAmount.StringFixed(2)))
	}

	o.PaidAmount = o.PaidAmount.Add(amount.Amount())
	o.RemainingAmount = o.Amount.Sub(o.PaidAmount)

	if o.RemainingAmount.IsZero() {
		now := time.Now()
		o.Status = ObligationStatusSettled
		o.SettledAt = &now
		o.AddDomainEvent(NewObligationSettledEvent(o))
	} else {
		o.Status = ObligationStatusPartial
		o.AddDomainEvent(NewObligationPaymentAppliedEvent(o, amount))
	}

	o.Touch()
	o.IncrementVersion()

	return nil
}

// IsOutstanding returns true while the obligation still carries unpaid debt
func (o *Obligation) IsOutstanding() bool {
	return o.RemainingAmount.IsPositive()
}

// IsSettled returns true if the obligation is fully paid
func (o *Obligation) IsSettled() bool {
	return o.Status == ObligationStatusSettled
}

// RemainingMoney returns the remaining amount as Money
func (o *Obligation) RemainingMoney() valueobject.Money {
	return valueobject.NewMoneyINR(o.RemainingAmount)
}

// CheckInvariant verifies the balance equation the aggregate maintains.
// It exists for tests and storage-layer assertions; a non-nil error here
// means a bug, not a caller mistake.
func (o *Obligation) CheckInvariant() error {
	if o.PaidAmount.IsNegative() || o.RemainingAmount.IsNegative() {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Obligation amounts cannot be negative")
	}
	if !o.PaidAmount.Add(o.RemainingAmount).Equal(o.Amount) {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Paid plus remaining must equal the original amount")
	}
	return nil
}
