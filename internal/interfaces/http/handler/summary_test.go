package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	ledgerapp "github.com/repairflow/backend/internal/application/ledger"
	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSummaryRouter(obligationRepo *MockObligationRepository, paymentRepo *MockPaymentRepository) *gin.Engine {
	service := ledgerapp.NewSummaryService(obligationRepo, paymentRepo)
	h := NewSummaryHandler(service)

	r := gin.New()
	r.GET("/api/v1/ledger/summary", h.GetSummary)
	r.GET("/api/v1/ledger/due", h.GetPartyDue)
	return r
}

func TestSummaryHandler_GetSummary(t *testing.T) {
	obligationRepo := new(MockObligationRepository)
	paymentRepo := new(MockPaymentRepository)

	lastPaid := time.Now().Add(-time.Hour)
	obligationRepo.On("TotalsByParty", mock.Anything).Return([]ledger.PartyTotals{
		{Party: "Patel", TotalObligated: decimal.NewFromInt(800), TotalPaid: decimal.NewFromInt(200), TotalRemaining: decimal.NewFromInt(600), ObligationCount: 2},
		{Party: "Sharma", TotalObligated: decimal.NewFromInt(100), TotalRemaining: decimal.NewFromInt(100), ObligationCount: 1},
	}, nil)
	paymentRepo.On("LastPaymentTimes", mock.Anything).Return(map[string]time.Time{"Patel": lastPaid}, nil)

	r := newSummaryRouter(obligationRepo, paymentRepo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/ledger/summary", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []PartySummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)

	patel := resp.Data[0]
	assert.Equal(t, "Patel", patel.Party)
	assert.InDelta(t, 600.0, patel.TotalRemaining, 0.001)
	assert.NotNil(t, patel.LastPaymentAt)

	sharma := resp.Data[1]
	assert.Equal(t, "Sharma", sharma.Party)
	assert.Nil(t, sharma.LastPaymentAt)
}

func TestSummaryHandler_GetPartyDue(t *testing.T) {
	t.Run("returns the outstanding total", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)
		obligationRepo.On("SumRemainingByParty", mock.Anything, "Patel").
			Return(decimal.NewFromInt(600), nil)

		r := newSummaryRouter(obligationRepo, new(MockPaymentRepository))
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/ledger/due?party=patel", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data DueData `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Patel", resp.Data.Party)
		assert.InDelta(t, 600.0, resp.Data.Due, 0.001)
	})

	t.Run("rejects missing party", func(t *testing.T) {
		r := newSummaryRouter(new(MockObligationRepository), new(MockPaymentRepository))
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/ledger/due", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
