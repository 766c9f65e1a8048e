package ledger

import (
	"github.com/repairflow/backend/internal/domain/shared"
	"github.com/repairflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod classifies how a supplier payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodBankTransfer,
		PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is an immutable record of money handed to an external party.
// It always carries the full received amount, independent of how much of it
// the settlement engine managed to allocate against obligations.
type Payment struct {
	shared.BaseEntity
	Party       string          `json:"party"` // Canonical (normalized) payee name
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	Description string          `json:"description"`
}

// NewPayment creates a new payment record for a party
func NewPayment(party string, amount valueobject.Money, method PaymentMethod, description string) (*Payment, error) {
	canonical := NormalizeParty(party)
	if canonical == "" {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party name cannot be empty")
	}
	if !amount.Amount().IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if method == "" {
		method = PaymentMethodOther
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}

	return &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		Party:       canonical,
		Amount:      amount.Amount(),
		Method:      method,
		Description: description,
	}, nil
}

// AmountMoney returns the payment amount as Money
func (p *Payment) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.Amount)
}
