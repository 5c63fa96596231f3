package finance

import (
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	half    = decimal.NewFromFloat(0.5)
	hundred = decimal.NewFromInt(100)
)

// roundHalfUp rounds to the nearest integer, halves toward positive infinity
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}

// percentOf returns round(part / whole * 100), or 0 when whole is zero
func percentOf(part, whole decimal.Decimal) int64 {
	if whole.IsZero() {
		return 0
	}
	return roundHalfUp(part.Div(whole).Mul(hundred))
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
