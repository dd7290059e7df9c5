package upstream

import (
	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// AnalyticsOverview is the payload of analytics/overview/. The derived
// fields are kept so callers can fall back to them, but the view is always
// recomputed locally from the breakdown and trend.
type AnalyticsOverview struct {
	CategoryData         []core.CategorySlice `json:"category_data"`
	TrendData            []core.TrendPoint    `json:"trend_data"`
	AverageDailySpending *decimal.Decimal     `json:"average_daily_spending"`
	TopCategory          *string              `json:"top_category"`
	TopCategoryPercent   *float64             `json:"top_category_percent"`
	SavingsRate          *float64             `json:"savings_rate"`
}

// DashboardSummary holds the period totals shown in the summary cards.
type DashboardSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`
}

// DashboardResponse is the payload of dashboard/summary/.
type DashboardResponse struct {
	Summary            DashboardSummary   `json:"summary"`
	Chart              []core.ChartPoint  `json:"chart"`
	RecentTransactions []core.Transaction `json:"recent_transactions"`
}

// ProfileResponse is the payload of settings/profile/.
type ProfileResponse struct {
	User    core.User    `json:"user"`
	Profile core.Profile `json:"profile"`
}

// TransactionQuery carries the server-side filters of transactions/.
type TransactionQuery struct {
	Type       string
	CategoryID *int64
	Search     string
}
