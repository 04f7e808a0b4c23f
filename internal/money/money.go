package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

// maxAmount bounds a single transaction; anything larger is a client bug.
var maxAmount = decimal.New(1, 12) // 10^12

// ParseAmount parses a user-entered decimal amount. Amounts must be
// strictly positive with at most two fractional digits.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, apperr.Validationf("amount is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", raw, apperr.ErrValidation)
	}
	if !d.IsPositive() {
		return decimal.Zero, apperr.Validationf("amount must be greater than zero")
	}
	if d.GreaterThan(maxAmount) {
		return decimal.Zero, apperr.Validationf("amount too large")
	}
	if d.Exponent() < -2 {
		return decimal.Zero, apperr.Validationf("amount has more than two decimal places")
	}
	return d, nil
}

// FloorPoints converts a monetary amount into whole pet points, discarding
// the fractional part. A deposit of 42.70 is worth 42 points.
func FloorPoints(d decimal.Decimal) int64 {
	return d.Floor().IntPart()
}
