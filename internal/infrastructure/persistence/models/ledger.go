package models

import (
	"time"

	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/repairflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ObligationModel is the persistence model for the Obligation aggregate root.
type ObligationModel struct {
	AggregateModel
	Party           string                  `gorm:"type:varchar(200);not null;index"`
	Description     string                  `gorm:"type:text"`
	Category        string                  `gorm:"type:varchar(50);not null"`
	Source          ledger.ObligationSource `gorm:"type:varchar(20);not null;index"`
	Amount          decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	PaidAmount      decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	RemainingAmount decimal.Decimal         `gorm:"type:decimal(18,4);not null;index"`
	Status          ledger.ObligationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	SettledAt       *time.Time
}

// TableName returns the table name for GORM
func (ObligationModel) TableName() string {
	return "ledger_obligations"
}

// ToDomain converts the persistence model to a domain Obligation entity.
func (m *ObligationModel) ToDomain() *ledger.Obligation {
	return &ledger.Obligation{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Party:           m.Party,
		Description:     m.Description,
		Category:        m.Category,
		Source:          m.Source,
		Amount:          m.Amount,
		PaidAmount:      m.PaidAmount,
		RemainingAmount: m.RemainingAmount,
		Status:          m.Status,
		SettledAt:       m.SettledAt,
	}
}

// FromDomain populates the persistence model from a domain Obligation entity.
func (m *ObligationModel) FromDomain(o *ledger.Obligation) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Party = o.Party
	m.Description = o.Description
	m.Category = o.Category
	m.Source = o.Source
	m.Amount = o.Amount
	m.PaidAmount = o.PaidAmount
	m.RemainingAmount = o.RemainingAmount
	m.Status = o.Status
	m.SettledAt = o.SettledAt
}

// ObligationModelFromDomain creates a new persistence model from a domain Obligation.
func ObligationModelFromDomain(o *ledger.Obligation) *ObligationModel {
	m := &ObligationModel{}
	m.FromDomain(o)
	return m
}

// PaymentModel is the persistence model for the Payment record.
type PaymentModel struct {
	BaseModel
	Party       string               `gorm:"type:varchar(200);not null;index"`
	Amount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Method      ledger.PaymentMethod `gorm:"type:varchar(20);not null"`
	Description string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "ledger_payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *ledger.Payment {
	return &ledger.Payment{
		BaseEntity:  m.BaseModel.ToDomain(),
		Party:       m.Party,
		Amount:      m.Amount,
		Method:      m.Method,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *ledger.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Party = p.Party
	m.Amount = p.Amount
	m.Method = p.Method
	m.Description = p.Description
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
