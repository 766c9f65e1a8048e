package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairflow/backend/internal/domain/shared"
	"github.com/repairflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ObligationCreatedEvent is raised when a new obligation is created
type ObligationCreatedEvent struct {
	shared.BaseDomainEvent
	ObligationID uuid.UUID        `json:"obligation_id"`
	Party        string           `json:"party"`
	Source       ObligationSource `json:"source"`
	Category     string           `json:"category"`
	Amount       decimal.Decimal  `json:"amount"`
}

// EventType returns the event type name
func (e *ObligationCreatedEvent) EventType() string {
	return "ObligationCreated"
}

// NewObligationCreatedEvent creates a new ObligationCreatedEvent
func NewObligationCreatedEvent(o *Obligation) *ObligationCreatedEvent {
	return &ObligationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ObligationCreated", "Obligation", o.ID),
		ObligationID:    o.ID,
		Party:           o.Party,
		Source:          o.Source,
		Category:        o.Category,
		Amount:          o.Amount,
	}
}

// ObligationPaymentAppliedEvent is raised when a payment is partially applied
type ObligationPaymentAppliedEvent struct {
	shared.BaseDomainEvent
	ObligationID    uuid.UUID       `json:"obligation_id"`
	Party           string          `json:"party"`
	AppliedAmount   decimal.Decimal `json:"applied_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// EventType returns the event type name
func (e *ObligationPaymentAppliedEvent) EventType() string {
	return "ObligationPaymentApplied"
}

// NewObligationPaymentAppliedEvent creates a new ObligationPaymentAppliedEvent
func NewObligationPaymentAppliedEvent(o *Obligation, applied valueobject.Money) *ObligationPaymentAppliedEvent {
	return &ObligationPaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ObligationPaymentApplied", "Obligation", o.ID),
		ObligationID:    o.ID,
		Party:           o.Party,
		AppliedAmount:   applied.Amount(),
		PaidAmount:      o.PaidAmount,
		RemainingAmount: o.RemainingAmount,
	}
}

// ObligationSettledEvent is raised when an obligation is fully paid
type ObligationSettledEvent struct {
	shared.BaseDomainEvent
	ObligationID uuid.UUID       `json:"obligation_id"`
	Party        string          `json:"party"`
	Amount       decimal.Decimal `json:"amount"`
	SettledAt    time.Time       `json:"settled_at"`
}

// EventType returns the event type name
func (e *ObligationSettledEvent) EventType() string {
	return "ObligationSettled"
}

// NewObligationSettledEvent creates a new ObligationSettledEvent
func NewObligationSettledEvent(o *Obligation) *ObligationSettledEvent {
	settledAt := time.Now()
	if o.SettledAt != nil {
		settledAt = *o.SettledAt
	}
	return &ObligationSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ObligationSettled", "Obligation", o.ID),
		ObligationID:    o.ID,
		Party:           o.Party,
		Amount:          o.Amount,
		SettledAt:       settledAt,
	}
}
