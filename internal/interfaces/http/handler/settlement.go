package handler

import (
	"github.com/gin-gonic/gin"
	ledgerapp "github.com/repairflow/backend/internal/application/ledger"
	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/repairflow/backend/internal/domain/shared/valueobject"
)

// SettlementHandler handles supplier payment API endpoints
type SettlementHandler struct {
	BaseHandler
	settlementService *ledgerapp.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService *ledgerapp.SettlementService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
	}
}

// RecordPaymentRequest represents a request to record a supplier payment
type RecordPaymentRequest struct {
	// RequestID is a client-generated idempotency key. The X-Request-ID
	// header takes precedence when both are present.
	RequestID   string  `json:"request_id" binding:"max=100" example:"pay-20260124-001"`
	Party       string  `json:"party" binding:"required,max=200" example:"Patel Electronics"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"500.00"`
	Method      string  `json:"method" binding:"omitempty,oneof=CASH UPI BANK_TRANSFER CHEQUE OTHER" example:"UPI"`
	Description string  `json:"description" binding:"max=500" example:"Weekly settlement"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	Party    string `form:"party" example:"Patel Electronics"`
	Method   string `form:"method" binding:"omitempty,oneof=CASH UPI BANK_TRANSFER CHEQUE OTHER" example:"CASH"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Party       string  `json:"party" example:"Patel Electronics"`
	Amount      float64 `json:"amount" example:"500.00"`
	Method      string  `json:"method" example:"UPI"`
	Description string  `json:"description" example:"Weekly settlement"`
	CreatedAt   string  `json:"created_at" example:"2026-01-24T10:00:00Z"`
}

// AllocationResponse represents one obligation's share of a payment
type AllocationResponse struct {
	ObligationID   string  `json:"obligation_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Applied        float64 `json:"applied" example:"300.00"`
	RemainingAfter float64 `json:"remaining_after" example:"0.00"`
}

// SettlementResponse represents the outcome of recording a payment
type SettlementResponse struct {
	Payment              PaymentResponse      `json:"payment"`
	TotalAllocated       float64              `json:"total_allocated" example:"500.00"`
	RemainingUnallocated float64              `json:"remaining_unallocated" example:"0.00"`
	Allocations          []AllocationResponse `json:"allocations"`
	Synthesized          bool                 `json:"synthesized" example:"false"`
}

// toPaymentResponse converts a domain payment to its API shape
func toPaymentResponse(p *ledger.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID.String(),
		Party:       p.Party,
		Amount:      p.Amount.InexactFloat64(),
		Method:      string(p.Method),
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format(timeFormat),
	}
}

// RecordPayment records money handed to a party and allocates it against the
// party's outstanding obligations, oldest first
func (h *SettlementHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = req.RequestID
	}

	result, err := h.settlementService.RecordPayment(c.Request.Context(), ledgerapp.SettlePaymentRequest{
		RequestID:   requestID,
		Party:       req.Party,
		Amount:      valueobject.NewMoneyINR(toDecimal(req.Amount)),
		Method:      ledger.PaymentMethod(req.Method),
		Description: req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	allocations := make([]AllocationResponse, len(result.Allocations))
	for i, a := range result.Allocations {
		allocations[i] = AllocationResponse{
			ObligationID:   a.ObligationID.String(),
			Applied:        a.Applied.InexactFloat64(),
			RemainingAfter: a.RemainingAfter.InexactFloat64(),
		}
	}

	h.Created(c, SettlementResponse{
		Payment:              toPaymentResponse(result.Payment),
		TotalAllocated:       result.TotalAllocated.InexactFloat64(),
		RemainingUnallocated: result.RemainingUnallocated.InexactFloat64(),
		Allocations:          allocations,
		Synthesized:          result.Synthesized,
	})
}

// List returns payment history, optionally scoped to one party
func (h *SettlementHandler) List(c *gin.Context) {
	var filter PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	appFilter := ledger.PaymentFilter{}
	appFilter.Page = filter.Page
	appFilter.PageSize = filter.PageSize
	if filter.Method != "" {
		method := ledger.PaymentMethod(filter.Method)
		appFilter.Method = &method
	}

	payments, err := h.settlementService.ListPayments(c.Request.Context(), filter.Party, appFilter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = toPaymentResponse(&payments[i])
	}

	h.Success(c, responses)
}
