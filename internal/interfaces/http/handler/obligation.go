package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/repairflow/backend/internal/application/ledger"
	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/repairflow/backend/internal/domain/shared/valueobject"
)

// ObligationHandler handles supplier obligation API endpoints
type ObligationHandler struct {
	BaseHandler
	obligationService *ledgerapp.ObligationService
}

// NewObligationHandler creates a new ObligationHandler
func NewObligationHandler(obligationService *ledgerapp.ObligationService) *ObligationHandler {
	return &ObligationHandler{
		obligationService: obligationService,
	}
}

// TransactionObligationsRequest represents a request to derive obligations
// from a repair transaction's parts list
type TransactionObligationsRequest struct {
	Customer  string `json:"customer" binding:"max=200" example:"Ravi Kumar"`
	Device    string `json:"device" binding:"max=200" example:"Redmi Note 12"`
	LineItems string `json:"line_items" example:"[{\"store\":\"patel\",\"item\":\"Display\",\"cost\":1200}]"`
}

// ManualObligationRequest represents a request to record an obligation by hand
type ManualObligationRequest struct {
	Party       string  `json:"party" binding:"required,max=200" example:"Patel Electronics"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"1200.00"`
	Description string  `json:"description" binding:"max=500" example:"Display panel on credit"`
}

// ObligationListFilter represents filter options for the obligation list
type ObligationListFilter struct {
	Party    string `form:"party" example:"Patel Electronics"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING PARTIAL SETTLED" example:"PENDING"`
	Source   string `form:"source" binding:"omitempty,oneof=TRANSACTION MANUAL" example:"TRANSACTION"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// ObligationResponse represents an obligation in API responses
type ObligationResponse struct {
	ID              string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Party           string  `json:"party" example:"Patel Electronics"`
	Description     string  `json:"description" example:"Display for Ravi Kumar (Redmi Note 12)"`
	Category        string  `json:"category" example:"Parts"`
	Source          string  `json:"source" example:"TRANSACTION"`
	Amount          float64 `json:"amount" example:"1200.00"`
	PaidAmount      float64 `json:"paid_amount" example:"200.00"`
	RemainingAmount float64 `json:"remaining_amount" example:"1000.00"`
	Status          string  `json:"status" example:"PARTIAL"`
	SettledAt       *string `json:"settled_at,omitempty" example:"2026-01-24T10:00:00Z"`
	CreatedAt       string  `json:"created_at" example:"2026-01-20T10:00:00Z"`
}

// toObligationResponse converts a domain obligation to its API shape
func toObligationResponse(o *ledger.Obligation) ObligationResponse {
	resp := ObligationResponse{
		ID:              o.ID.String(),
		Party:           o.Party,
		Description:     o.Description,
		Category:        o.Category,
		Source:          string(o.Source),
		Amount:          o.Amount.InexactFloat64(),
		PaidAmount:      o.PaidAmount.InexactFloat64(),
		RemainingAmount: o.RemainingAmount.InexactFloat64(),
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt.Format(timeFormat),
	}
	if o.SettledAt != nil {
		settled := o.SettledAt.Format(timeFormat)
		resp.SettledAt = &settled
	}
	return resp
}

func toObligationResponses(obligations []ledger.Obligation) []ObligationResponse {
	responses := make([]ObligationResponse, len(obligations))
	for i := range obligations {
		responses[i] = toObligationResponse(&obligations[i])
	}
	return responses
}

// RecordFromTransaction derives obligations from a transaction's parts list.
// Lines without a resolvable party or a positive cost are skipped, and an
// unparseable parts list yields zero obligations rather than an error.
func (h *ObligationHandler) RecordFromTransaction(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	var req TransactionObligationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.obligationService.RecordObligationsFromTransaction(
		c.Request.Context(),
		ledgerapp.TransactionObligationsRequest{
			TransactionID: transactionID,
			Customer:      req.Customer,
			Device:        req.Device,
			RawLineItems:  req.LineItems,
		},
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	obligations := make([]ObligationResponse, len(result.Obligations))
	for i, o := range result.Obligations {
		obligations[i] = toObligationResponse(o)
	}

	h.Created(c, gin.H{
		"obligations":   obligations,
		"skipped_lines": result.SkippedLines,
	})
}

// CreateManual records a hand-entered obligation outside the transaction flow
func (h *ObligationHandler) CreateManual(c *gin.Context) {
	var req ManualObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	obligation, err := h.obligationService.CreateManualObligation(
		c.Request.Context(),
		req.Party,
		valueobject.NewMoneyINR(toDecimal(req.Amount)),
		req.Description,
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toObligationResponse(obligation))
}

// List returns obligations, optionally scoped to one party
func (h *ObligationHandler) List(c *gin.Context) {
	var filter ObligationListFilter
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

	appFilter := ledger.ObligationFilter{}
	appFilter.Page = filter.Page
	appFilter.PageSize = filter.PageSize
	if filter.Status != "" {
		status := ledger.ObligationStatus(filter.Status)
		appFilter.Status = &status
	}
	if filter.Source != "" {
		source := ledger.ObligationSource(filter.Source)
		appFilter.Source = &source
	}

	obligations, err := h.obligationService.ListObligations(c.Request.Context(), filter.Party, appFilter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toObligationResponses(obligations))
}

// GetByID returns a single obligation
func (h *ObligationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid obligation ID format")
		return
	}

	obligation, err := h.obligationService.GetObligation(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toObligationResponse(obligation))
}

// GetOutstanding returns a party's unpaid obligations, oldest first
func (h *ObligationHandler) GetOutstanding(c *gin.Context) {
	party := c.Query("party")

	obligations, err := h.obligationService.GetOutstanding(c.Request.Context(), party)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toObligationResponses(obligations))
}
