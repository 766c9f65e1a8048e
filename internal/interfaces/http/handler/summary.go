package handler

import (
	"github.com/gin-gonic/gin"
	ledgerapp "github.com/repairflow/backend/internal/application/ledger"
	"github.com/repairflow/backend/internal/domain/ledger"
)

// SummaryHandler handles ledger summary API endpoints
type SummaryHandler struct {
	BaseHandler
	summaryService *ledgerapp.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService *ledgerapp.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// PartySummaryResponse represents one party's ledger position
type PartySummaryResponse struct {
	Party           string  `json:"party" example:"Patel Electronics"`
	TotalObligated  float64 `json:"total_obligated" example:"5000.00"`
	TotalPaid       float64 `json:"total_paid" example:"3500.00"`
	TotalRemaining  float64 `json:"total_remaining" example:"1500.00"`
	ObligationCount int     `json:"obligation_count" example:"4"`
	LastPaymentAt   *string `json:"last_payment_at,omitempty" example:"2026-01-24T10:00:00Z"`
}

// toPartySummaryResponse converts a domain summary to its API shape
func toPartySummaryResponse(s *ledger.PartySummary) PartySummaryResponse {
	resp := PartySummaryResponse{
		Party:           s.Party,
		TotalObligated:  s.TotalObligated.InexactFloat64(),
		TotalPaid:       s.TotalPaid.InexactFloat64(),
		TotalRemaining:  s.TotalRemaining.InexactFloat64(),
		ObligationCount: s.ObligationCount,
	}
	if s.LastPaymentAt != nil {
		last := s.LastPaymentAt.Format(timeFormat)
		resp.LastPaymentAt = &last
	}
	return resp
}

// GetSummary returns per-party ledger totals
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	summaries, err := h.summaryService.GetSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]PartySummaryResponse, len(summaries))
	for i := range summaries {
		responses[i] = toPartySummaryResponse(&summaries[i])
	}

	h.Success(c, responses)
}

// GetPartyDue returns the outstanding total for one party
func (h *SummaryHandler) GetPartyDue(c *gin.Context) {
	party := c.Query("party")

	due, err := h.summaryService.GetPartyDue(c.Request.Context(), party)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, DueData{
		Party: ledger.NormalizeParty(party),
		Due:   due.InexactFloat64(),
	})
}
