package entity

import "github.com/shopspring/decimal"

// BudgetInfo represents a budget with actual and forecasted spend.
type BudgetInfo struct {
	Name     string          `json:"name"`
	Limit    decimal.Decimal `json:"limit"`
	Actual   decimal.Decimal `json:"actual"`
	Forecast decimal.Decimal `json:"forecast,omitempty"`
}

// UsedPercent returns the actual spend as a percentage of the limit, or zero when no limit is set.
func (b BudgetInfo) UsedPercent() float64 {
	if b.Limit.IsZero() {
		return 0
	}
	return b.Actual.Div(b.Limit).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
}

// OverLimit reports whether actual spend has passed the budget limit.
func (b BudgetInfo) OverLimit() bool {
	return !b.Limit.IsZero() && b.Actual.GreaterThan(b.Limit)
}
