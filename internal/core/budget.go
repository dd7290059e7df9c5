package core

import "github.com/shopspring/decimal"

const (
	TierNormal  BudgetTier = "normal"
	TierWarning BudgetTier = "warning"
	TierOver    BudgetTier = "over"
)

// WarningThreshold is the percent of budget at which a category turns to the
// warning tier.
const WarningThreshold = 70

type (
	BudgetTier string

	// BudgetStatus describes how much of a category budget has been used.
	// When Tracked is false the category has no budget and no progress bar
	// should be rendered; Percent and Tier carry no meaning in that case.
	BudgetStatus struct {
		Tracked bool       `json:"tracked"`
		Percent float64    `json:"percent"`
		Tier    BudgetTier `json:"tier,omitempty"`
	}
)

// EvaluateBudget computes the clamped progress percentage and tier for a
// category. Negative spend counts as zero.
func EvaluateBudget(budget, spent decimal.Decimal) BudgetStatus {
	if !budget.IsPositive() {
		return BudgetStatus{}
	}
	if spent.IsNegative() {
		spent = decimal.Zero
	}

	raw := hundred.Mul(spent).Div(budget).InexactFloat64()

	status := BudgetStatus{Tracked: true, Percent: clamp(raw, 0, 100)}
	switch {
	case raw >= 100:
		status.Tier = TierOver
	case raw >= WarningThreshold:
		status.Tier = TierWarning
	default:
		status.Tier = TierNormal
	}
	return status
}

// Alerting reports whether the status should raise a budget alert.
func (s BudgetStatus) Alerting() bool {
	return s.Tracked && (s.Tier == TierWarning || s.Tier == TierOver)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
