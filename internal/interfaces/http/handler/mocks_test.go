package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockObligationRepository implements ledger.ObligationRepository for testing
type MockObligationRepository struct {
	mock.Mock
}

func (m *MockObligationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindOutstandingByParty(ctx context.Context, party string) ([]ledger.Obligation, error) {
	args := m.Called(ctx, party)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindByParty(ctx context.Context, party string, filter ledger.ObligationFilter) ([]ledger.Obligation, error) {
	args := m.Called(ctx, party, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindAll(ctx context.Context, filter ledger.ObligationFilter) ([]ledger.Obligation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Obligation), args.Error(1)
}

func (m *MockObligationRepository) Save(ctx context.Context, obligation *ledger.Obligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) SaveWithLock(ctx context.Context, obligation *ledger.Obligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockObligationRepository) Count(ctx context.Context, filter ledger.ObligationFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockObligationRepository) SumRemainingByParty(ctx context.Context, party string) (decimal.Decimal, error) {
	args := m.Called(ctx, party)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockObligationRepository) TotalsByParty(ctx context.Context) ([]ledger.PartyTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.PartyTotals), args.Error(1)
}

// MockPaymentRepository implements ledger.PaymentRepository for testing
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *ledger.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByParty(ctx context.Context, party string, filter ledger.PaymentFilter) ([]ledger.Payment, error) {
	args := m.Called(ctx, party, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter ledger.PaymentFilter) ([]ledger.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Count(ctx context.Context, filter ledger.PaymentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) LastPaymentTimes(ctx context.Context) (map[string]time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]time.Time), args.Error(1)
}
