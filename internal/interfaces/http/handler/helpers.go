package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// timeFormat is the timestamp layout used in API responses
const timeFormat = time.RFC3339

// toDecimalPtr converts a float64 to a *decimal.Decimal
func toDecimalPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

// toDecimal converts a float64 to a decimal.Decimal
func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
