package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/repairflow/backend/internal/domain/shared"
	"github.com/repairflow/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ObligationService derives and queries supplier obligations
type ObligationService struct {
	obligationRepo ledger.ObligationRepository
	logger         *zap.Logger
}

// NewObligationService creates a new ObligationService
func NewObligationService(obligationRepo ledger.ObligationRepository, logger *zap.Logger) *ObligationService {
	return &ObligationService{
		obligationRepo: obligationRepo,
		logger:         logger,
	}
}

// TransactionObligationsRequest carries the transaction context the factory
// derives obligations from. RawLineItems is the serialized parts list as
// stored on the transaction.
type TransactionObligationsRequest struct {
	TransactionID uuid.UUID
	Customer      string
	Device        string
	RawLineItems  string
}

// TransactionObligationsResult reports what the derivation produced
type TransactionObligationsResult struct {
	Obligations  []*ledger.Obligation `json:"obligations"`
	SkippedLines int                  `json:"skipped_lines"`
}

// RecordObligationsFromTransaction parses the transaction's parts list and
// creates one obligation per line that names a resolvable party with a
// positive cost. Lines that fail either test are skipped, and a parts list
// that does not parse at all yields zero obligations; transaction creation
// is never aborted from here.
func (s *ObligationService) RecordObligationsFromTransaction(
	ctx context.Context,
	req TransactionObligationsRequest,
) (*TransactionObligationsResult, error) {
	items, err := ParseLineItems(req.RawLineItems)
	if err != nil {
		s.logger.Warn("unparseable transaction line items, deriving no obligations",
			zap.String("transaction_id", req.TransactionID.String()),
			zap.Error(err))
		return &TransactionObligationsResult{Obligations: nil}, nil
	}

	result := &TransactionObligationsResult{}
	for _, item := range items {
		party := item.Party()
		if !ledger.HasParty(party) || !item.Cost.IsPositive() {
			result.SkippedLines++
			continue
		}

		amount, err := valueobject.NewMoney(item.Cost, valueobject.INR)
		if err != nil {
			result.SkippedLines++
			continue
		}

		obligation, err := ledger.NewObligation(
			party,
			amount,
			ledger.ObligationSourceTransaction,
			ledger.CategoryParts,
			buildLineDescription(req, item),
		)
		if err != nil {
			s.logger.Warn("skipping line item that failed obligation creation",
				zap.String("transaction_id", req.TransactionID.String()),
				zap.String("party", party),
				zap.Error(err))
			result.SkippedLines++
			continue
		}

		if err := s.obligationRepo.Save(ctx, obligation); err != nil {
			return nil, fmt.Errorf("failed to save obligation: %w", err)
		}
		result.Obligations = append(result.Obligations, obligation)
	}

	s.logger.Info("derived obligations from transaction",
		zap.String("transaction_id", req.TransactionID.String()),
		zap.Int("created", len(result.Obligations)),
		zap.Int("skipped", result.SkippedLines))

	return result, nil
}

// CreateManualObligation records a hand-entered obligation outside the
// transaction flow
func (s *ObligationService) CreateManualObligation(
	ctx context.Context,
	party string,
	amount valueobject.Money,
	description string,
) (*ledger.Obligation, error) {
	obligation, err := ledger.NewObligation(party, amount, ledger.ObligationSourceManual, ledger.CategoryParts, description)
	if err != nil {
		return nil, err
	}
	if err := s.obligationRepo.Save(ctx, obligation); err != nil {
		return nil, fmt.Errorf("failed to save obligation: %w", err)
	}
	return obligation, nil
}

// GetObligation returns a single obligation by ID
func (s *ObligationService) GetObligation(ctx context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	obligation, err := s.obligationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get obligation: %w", err)
	}
	if obligation == nil {
		return nil, shared.NewDomainError("OBLIGATION_NOT_FOUND", "Obligation not found")
	}
	return obligation, nil
}

// ListObligations returns obligations, optionally scoped to one party.
// The party argument is normalized here so callers can pass raw input.
func (s *ObligationService) ListObligations(
	ctx context.Context,
	party string,
	filter ledger.ObligationFilter,
) ([]ledger.Obligation, error) {
	canonical := ledger.NormalizeParty(party)
	if canonical != "" {
		return s.obligationRepo.FindByParty(ctx, canonical, filter)
	}
	return s.obligationRepo.FindAll(ctx, filter)
}

// GetOutstanding returns the party's unpaid obligations, oldest first
func (s *ObligationService) GetOutstanding(ctx context.Context, party string) ([]ledger.Obligation, error) {
	canonical := ledger.NormalizeParty(party)
	if canonical == "" {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party name cannot be empty")
	}
	return s.obligationRepo.FindOutstandingByParty(ctx, canonical)
}

func buildLineDescription(req TransactionObligationsRequest, item LineItem) string {
	parts := make([]string, 0, 3)
	if item.Item != "" {
		parts = append(parts, item.Item)
	}
	if req.Customer != "" {
		parts = append(parts, "for "+req.Customer)
	}
	if req.Device != "" {
		parts = append(parts, "("+req.Device+")")
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Parts purchase, transaction %s", req.TransactionID)
	}
	return strings.Join(parts, " ")
}
