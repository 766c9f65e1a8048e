package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/repairflow/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// LineItem is one externally-sourced cost line inside a repair transaction.
// Store is the regular supplier pick; CustomStore is a free-text override
// entered at the counter and takes precedence when both are present.
type LineItem struct {
	Store       string          `json:"store"`
	CustomStore string          `json:"customStore"`
	Item        string          `json:"item"`
	Cost        decimal.Decimal `json:"cost"`
}

// Party resolves which supplier name the line points at, custom entry first
func (l LineItem) Party() string {
	if ledger.HasParty(l.CustomStore) {
		return l.CustomStore
	}
	return l.Store
}

// ParseLineItems decodes the serialized line-item field of a transaction.
// Malformed input is not an error here: transaction creation must never
// fail because of a bad parts list, so the caller gets an empty slice and
// the decode error to log.
func ParseLineItems(raw string) ([]LineItem, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to parse line items: %w", err)
	}
	return items, nil
}
