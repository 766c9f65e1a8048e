package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/repairflow/backend/internal/application/ledger"
	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/repairflow/backend/internal/domain/shared"
	"github.com/repairflow/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newObligationRouter(obligationRepo *MockObligationRepository) *gin.Engine {
	service := ledgerapp.NewObligationService(obligationRepo, zap.NewNop())
	h := NewObligationHandler(service)

	r := gin.New()
	r.POST("/api/v1/ledger/transactions/:id/obligations", h.RecordFromTransaction)
	r.POST("/api/v1/ledger/obligations", h.CreateManual)
	r.GET("/api/v1/ledger/obligations", h.List)
	r.GET("/api/v1/ledger/obligations/outstanding", h.GetOutstanding)
	r.GET("/api/v1/ledger/obligations/:id", h.GetByID)
	return r
}

func TestObligationHandler_RecordFromTransaction(t *testing.T) {
	t.Run("creates obligations from valid line items", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)
		obligationRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Twice()

		r := newObligationRouter(obligationRepo)
		w := postJSON(t, r, "/api/v1/ledger/transactions/"+uuid.NewString()+"/obligations",
			TransactionObligationsRequest{
				Customer: "Ravi Kumar",
				Device:   "Redmi Note 12",
				LineItems: `[
					{"store":"patel","item":"Display","cost":1200},
					{"customStore":"bosch direct","item":"Battery","cost":800},
					{"item":"Labour","cost":300}
				]`,
			})

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data struct {
				Obligations  []ObligationResponse `json:"obligations"`
				SkippedLines int                  `json:"skipped_lines"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Obligations, 2)
		assert.Equal(t, "Patel", resp.Data.Obligations[0].Party)
		assert.Equal(t, "Bosch Direct", resp.Data.Obligations[1].Party)
		assert.Equal(t, 1, resp.Data.SkippedLines)

		obligationRepo.AssertExpectations(t)
	})

	t.Run("degrades to zero obligations on unparseable line items", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)

		r := newObligationRouter(obligationRepo)
		w := postJSON(t, r, "/api/v1/ledger/transactions/"+uuid.NewString()+"/obligations",
			TransactionObligationsRequest{LineItems: "not json at all"})

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data struct {
				Obligations []ObligationResponse `json:"obligations"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Data.Obligations)
		obligationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed transaction id", func(t *testing.T) {
		r := newObligationRouter(new(MockObligationRepository))
		w := postJSON(t, r, "/api/v1/ledger/transactions/not-a-uuid/obligations",
			TransactionObligationsRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestObligationHandler_CreateManual(t *testing.T) {
	t.Run("records a manual obligation", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)
		obligationRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		r := newObligationRouter(obligationRepo)
		w := postJSON(t, r, "/api/v1/ledger/obligations", ManualObligationRequest{
			Party:       "patel electronics",
			Amount:      1200,
			Description: "Display panel on credit",
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data ObligationResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Patel Electronics", resp.Data.Party)
		assert.Equal(t, "MANUAL", resp.Data.Source)
		assert.Equal(t, "PENDING", resp.Data.Status)
		assert.InDelta(t, 1200.0, resp.Data.RemainingAmount, 0.001)
	})

	t.Run("rejects missing amount", func(t *testing.T) {
		r := newObligationRouter(new(MockObligationRepository))
		w := postJSON(t, r, "/api/v1/ledger/obligations", ManualObligationRequest{Party: "Patel"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestObligationHandler_GetByID(t *testing.T) {
	t.Run("returns 404 for unknown obligation", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)
		obligationRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		r := newObligationRouter(obligationRepo)
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/ledger/obligations/"+uuid.NewString(), nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		r := newObligationRouter(new(MockObligationRepository))
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/ledger/obligations/not-a-uuid", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestObligationHandler_GetOutstanding(t *testing.T) {
	t.Run("rejects missing party", func(t *testing.T) {
		r := newObligationRouter(new(MockObligationRepository))
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/ledger/obligations/outstanding", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	})

	t.Run("normalizes the party before lookup", func(t *testing.T) {
		obligationRepo := new(MockObligationRepository)
		obligationRepo.On("FindOutstandingByParty", mock.Anything, "Patel").
			Return([]ledger.Obligation{}, nil)

		r := newObligationRouter(obligationRepo)
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/ledger/obligations/outstanding?party=%20patel%20", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		obligationRepo.AssertExpectations(t)
	})
}
