package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/repairflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func inr(amount int64) valueobject.Money {
	return valueobject.NewMoneyINR(decimal.NewFromInt(amount))
}

func newTestSettlementService(
	obligationRepo *MockObligationRepository,
	paymentRepo *MockPaymentRepository,
	idempotency *MockIdempotencyStore,
) *SettlementService {
	if idempotency == nil {
		return NewSettlementService(obligationRepo, paymentRepo, nil, DefaultSettlementPolicy(), zap.NewNop())
	}
	return NewSettlementService(obligationRepo, paymentRepo, idempotency, DefaultSettlementPolicy(), zap.NewNop())
}

func testObligation(t *testing.T, party string, amount int64, age time.Duration) ledger.Obligation {
	t.Helper()
	o, err := ledger.NewObligation(party, inr(amount), ledger.ObligationSourceTransaction, "", "")
	require.NoError(t, err)
	o.CreatedAt = time.Now().Add(-age)
	return *o
}

func TestSettlementService_RecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("allocates oldest first across obligations", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)
		paymentRepo := new(MockPaymentRepository)
		service := newTestSettlementService(obligationRepo, paymentRepo, nil)

		outstanding := []ledger.Obligation{
			testObligation(t, "Patel", 100, 2*time.Hour),
			testObligation(t, "Patel", 50, time.Hour),
		}
		obligationRepo.On("FindOutstandingByParty", ctx, "Patel").Return(outstanding, nil)
		obligationRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*ledger.Obligation")).Return(nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*ledger.Payment")).Return(nil)

		result, err := service.RecordPayment(ctx, SettlePaymentRequest{
			Party:  "PATEL ",
			Amount: inr(120),
			Method: ledger.PaymentMethodCash,
		})
		require.NoError(t, err)

		assert.True(t, result.TotalAllocated.Equal(decimal.NewFromInt(120)))
		assert.True(t, result.RemainingUnallocated.IsZero())
		assert.False(t, result.Synthesized)
		require.Len(t, result.Allocations, 2)
		assert.True(t, result.Allocations[0].Applied.Equal(decimal.NewFromInt(100)))
		assert.True(t, result.Allocations[1].Applied.Equal(decimal.NewFromInt(20)))

		assert.Equal(t, "Patel", result.Payment.Party)
		assert.True(t, result.Payment.Amount.Equal(decimal.NewFromInt(120)))

		obligationRepo.AssertNumberOfCalls(t, "SaveWithLock", 2)
		paymentRepo.AssertExpectations(t)
	})

	t.Run("overpayment reports remaining unallocated", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)
		paymentRepo := new(MockPaymentRepository)
		service := newTestSettlementService(obligationRepo, paymentRepo, nil)

		outstanding := []ledger.Obligation{testObligation(t, "Patel", 100, time.Hour)}
		obligationRepo.On("FindOutstandingByParty", ctx, "Patel").Return(outstanding, nil)
		obligationRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*ledger.Obligation")).Return(nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*ledger.Payment")).Return(nil)

		result, err := service.RecordPayment(ctx, SettlePaymentRequest{
			Party:  "Patel",
			Amount: inr(500),
			Method: ledger.PaymentMethodUPI,
		})
		require.NoError(t, err)

		assert.True(t, result.TotalAllocated.Equal(decimal.NewFromInt(100)))
		assert.True(t, result.RemainingUnallocated.Equal(decimal.NewFromInt(400)))
		// Payment still records the full received amount
		assert.True(t, result.Payment.Amount.Equal(decimal.NewFromInt(500)))
	})

	t.Run("synthesizes obligation when party has no debt", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)
		paymentRepo := new(MockPaymentRepository)
		service := newTestSettlementService(obligationRepo, paymentRepo, nil)

		obligationRepo.On("FindOutstandingByParty", ctx, "Patel").Return([]ledger.Obligation{}, nil)
		obligationRepo.On("Save", ctx, mock.AnythingOfType("*ledger.Obligation")).Return(nil)
		obligationRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*ledger.Obligation")).Return(nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*ledger.Payment")).Return(nil)

		result, err := service.RecordPayment(ctx, SettlePaymentRequest{
			Party:  "Patel",
			Amount: inr(250),
			Method: ledger.PaymentMethodCash,
		})
		require.NoError(t, err)

		assert.True(t, result.Synthesized)
		assert.True(t, result.TotalAllocated.Equal(decimal.NewFromInt(250)))
		assert.True(t, result.RemainingUnallocated.IsZero())
		require.Len(t, result.Allocations, 1)

		saved := obligationRepo.Calls[1].Arguments.Get(1).(*ledger.Obligation)
		assert.Equal(t, ledger.ObligationSourceManual, saved.Source)
		assert.True(t, saved.IsSettled())
	})

	t.Run("rejects unmatched payment when synthesis is disabled", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)
		paymentRepo := new(MockPaymentRepository)
		policy := DefaultSettlementPolicy()
		policy.SynthesizeUnmatchedPayments = false
		service := NewSettlementService(obligationRepo, paymentRepo, nil, policy, zap.NewNop())

		obligationRepo.On("FindOutstandingByParty", ctx, "Patel").Return([]ledger.Obligation{}, nil)

		_, err := service.RecordPayment(ctx, SettlePaymentRequest{
			Party:  "Patel",
			Amount: inr(250),
			Method: ledger.PaymentMethodCash,
		})
		assert.Error(t, err)
		paymentRepo.AssertNotCalled(t, "Create")
	})

	t.Run("duplicate request id is rejected", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)
		paymentRepo := new(MockPaymentRepository)
		idempotency := new(MockIdempotencyStore)
		service := newTestSettlementService(obligationRepo, paymentRepo, idempotency)

		idempotency.On("MarkProcessed", ctx, "req-1", mock.AnythingOfType("time.Duration")).Return(false, nil)

		_, err := service.RecordPayment(ctx, SettlePaymentRequest{
			RequestID: "req-1",
			Party:     "Patel",
			Amount:    inr(100),
			Method:    ledger.PaymentMethodCash,
		})
		assert.Error(t, err)
		obligationRepo.AssertNotCalled(t, "FindOutstandingByParty")
		paymentRepo.AssertNotCalled(t, "Create")
	})

	t.Run("fresh request id settles normally", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)
		paymentRepo := new(MockPaymentRepository)
		idempotency := new(MockIdempotencyStore)
		service := newTestSettlementService(obligationRepo, paymentRepo, idempotency)

		idempotency.On("MarkProcessed", ctx, "req-2", mock.AnythingOfType("time.Duration")).Return(true, nil)
		obligationRepo.On("FindOutstandingByParty", ctx, "Patel").Return(
			[]ledger.Obligation{testObligation(t, "Patel", 100, time.Hour)}, nil)
		obligationRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*ledger.Obligation")).Return(nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*ledger.Payment")).Return(nil)

		result, err := service.RecordPayment(ctx, SettlePaymentRequest{
			RequestID: "req-2",
			Party:     "Patel",
			Amount:    inr(60),
			Method:    ledger.PaymentMethodCash,
		})
		require.NoError(t, err)
		assert.True(t, result.TotalAllocated.Equal(decimal.NewFromInt(60)))
	})

	t.Run("rejects empty party and non-positive amount", func(t *testing.T) {
		service := newTestSettlementService(new(MockObligationRepository), new(MockPaymentRepository), nil)

		_, err := service.RecordPayment(ctx, SettlePaymentRequest{Party: "  ", Amount: inr(10)})
		assert.Error(t, err)

		_, err = service.RecordPayment(ctx, SettlePaymentRequest{Party: "Patel", Amount: inr(0)})
		assert.Error(t, err)
	})
}

func TestSettlementService_SamePartySerialized(t *testing.T) {
	ctx := context.Background()
	obligationRepo := new(MockObligationRepository)
	paymentRepo := new(MockPaymentRepository)
	service := newTestSettlementService(obligationRepo, paymentRepo, nil)

	var active, maxActive int
	var gate sync.Mutex

	obligationRepo.On("FindOutstandingByParty", ctx, "Patel").
		Run(func(args mock.Arguments) {
			gate.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			gate.Unlock()
			time.Sleep(5 * time.Millisecond)
			gate.Lock()
			active--
			gate.Unlock()
		}).
		Return([]ledger.Obligation{}, nil)
	obligationRepo.On("Save", ctx, mock.AnythingOfType("*ledger.Obligation")).Return(nil)
	obligationRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*ledger.Obligation")).Return(nil)
	paymentRepo.On("Create", ctx, mock.AnythingOfType("*ledger.Payment")).Return(nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.RecordPayment(ctx, SettlePaymentRequest{
				Party:  "Patel",
				Amount: inr(10),
				Method: ledger.PaymentMethodCash,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive, "settlements for one party must not run concurrently")
}
