package core

import "github.com/shopspring/decimal"

// NoTopCategory is reported when the breakdown has no slices.
const NoTopCategory = "N/A"

var hundred = decimal.NewFromInt(100)

type (
	// CategorySlice is the amount spent in one category.
	CategorySlice struct {
		Name  string          `json:"name"`
		Value decimal.Decimal `json:"value"`
	}

	// AnalyticsSummary holds the scalar metrics shown next to the charts.
	// Nil percentages mean the value could not be computed (no data or a
	// zero denominator) and must not be shown as 0%.
	AnalyticsSummary struct {
		AverageDailySpending decimal.Decimal `json:"average_daily_spending"`
		TopCategory          string          `json:"top_category"`
		TopCategoryPercent   *float64        `json:"top_category_percent"`
		SavingsRate          *float64        `json:"savings_rate"`
	}
)

// ComputeSummary derives the analytics metrics from a category breakdown and
// the period's income and expense totals. averageDaily is passed through as
// supplied upstream; nil means the payload did not carry it.
func ComputeSummary(categories []CategorySlice, incomeTotal, expenseTotal decimal.Decimal, averageDaily *decimal.Decimal) AnalyticsSummary {
	summary := AnalyticsSummary{
		TopCategory: NoTopCategory,
		SavingsRate: SavingsRate(incomeTotal, expenseTotal),
	}
	if averageDaily != nil {
		summary.AverageDailySpending = *averageDaily
	}

	top, ok := TopCategory(categories)
	if !ok {
		return summary
	}
	summary.TopCategory = top.Name

	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.Value)
	}
	summary.TopCategoryPercent = percentOf(top.Value, total)

	return summary
}

// TopCategory returns the slice with the largest value. Ties go to the
// earliest slice. ok is false for an empty breakdown.
func TopCategory(categories []CategorySlice) (top CategorySlice, ok bool) {
	for i, c := range categories {
		if i == 0 || c.Value.GreaterThan(top.Value) {
			top = c
		}
	}
	return top, len(categories) > 0
}

// SavingsRate is the share of income not consumed by expenses, in percent.
// It is nil when income is zero.
func SavingsRate(incomeTotal, expenseTotal decimal.Decimal) *float64 {
	return percentOf(incomeTotal.Sub(expenseTotal), incomeTotal)
}

func percentOf(part, whole decimal.Decimal) *float64 {
	if whole.IsZero() {
		return nil
	}
	v := hundred.Mul(part).Div(whole).InexactFloat64()
	return &v
}
