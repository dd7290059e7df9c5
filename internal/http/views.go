// This file turns service results into response bodies. Raw values are kept
// next to their display strings; rounding happens only in the latter.

package http

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/services"
)

// NoCategoryData replaces the top category when the breakdown is empty.
const NoCategoryData = "No category data yet"

type (
	moneyView struct {
		Value   decimal.Decimal `json:"value"`
		Display string          `json:"display"`
	}

	percentView struct {
		Value   *float64 `json:"value"`
		Display string   `json:"display"`
	}

	transactionView struct {
		core.Transaction
		AmountDisplay string `json:"amount_display"`
		DateDisplay   string `json:"date_display"`
	}

	dashboardResponse struct {
		Summary struct {
			TotalIncome   moneyView   `json:"total_income"`
			TotalExpenses moneyView   `json:"total_expenses"`
			Balance       moneyView   `json:"balance"`
			SavingsRate   percentView `json:"savings_rate"`
		} `json:"summary"`
		Chart              []core.ChartPoint `json:"chart"`
		RecentTransactions []transactionView `json:"recent_transactions"`
	}

	analyticsResponse struct {
		CategoryData []core.CategorySlice `json:"category_data"`
		TrendData    []core.TrendPoint    `json:"trend_data"`
		Summary      struct {
			AverageDailySpending moneyView   `json:"average_daily_spending"`
			TopCategory          string      `json:"top_category"`
			TopCategoryDisplay   string      `json:"top_category_display"`
			TopCategoryPercent   percentView `json:"top_category_percent"`
			SavingsRate          percentView `json:"savings_rate"`
		} `json:"summary"`
	}

	budgetView struct {
		Percent        float64         `json:"percent"`
		PercentDisplay string          `json:"percent_display"`
		Tier           core.BudgetTier `json:"tier"`
		Label          string          `json:"label,omitempty"`
		Progress       string          `json:"progress"`
	}

	categoryView struct {
		core.Category
		IconInfo      core.Icon   `json:"icon_info"`
		BudgetDisplay string      `json:"budget_display"`
		SpentDisplay  string      `json:"spent_display"`
		BudgetStatus  *budgetView `json:"budget_status"`
	}

	templateView struct {
		core.TransactionTemplate
		AmountDisplay string `json:"amount_display"`
	}

	draftResponse struct {
		Transaction     core.TransactionInput `json:"transaction"`
		AmountDisplay   string                `json:"amount_display"`
		DateDisplay     string                `json:"date_display"`
		CategoryName    string                `json:"category_name"`
		CategoryMatched bool                  `json:"category_matched"`
	}

	iconView struct {
		Name  string `json:"name"`
		Label string `json:"label"`
	}
)

// presenter formats values for one currency and date format.
type presenter struct {
	currency   core.Currency
	dateFormat core.DateFormat
}

func (p presenter) money(v decimal.Decimal) moneyView {
	return moneyView{Value: v, Display: core.FormatMoney(p.currency, v)}
}

func percent(v *float64) percentView {
	return percentView{Value: v, Display: core.FormatPercent(v)}
}

func (p presenter) transactions(txs []core.Transaction) []transactionView {
	out := make([]transactionView, len(txs))
	for i, tx := range txs {
		out[i] = transactionView{
			Transaction:   tx,
			AmountDisplay: core.FormatMoney(p.currency, tx.Amount),
			DateDisplay:   core.FormatDate(p.dateFormat, tx.Date),
		}
	}
	return out
}

func (p presenter) dashboard(v *services.DashboardView) dashboardResponse {
	var resp dashboardResponse
	resp.Summary.TotalIncome = p.money(v.Summary.TotalIncome)
	resp.Summary.TotalExpenses = p.money(v.Summary.TotalExpenses)
	resp.Summary.Balance = p.money(v.Summary.Balance)
	resp.Summary.SavingsRate = percent(v.SavingsRate)
	resp.Chart = nonNil(v.Chart)
	resp.RecentTransactions = p.transactions(v.RecentTransactions)
	return resp
}

func (p presenter) analytics(v *services.AnalyticsView) analyticsResponse {
	var resp analyticsResponse
	resp.CategoryData = nonNil(v.CategoryData)
	resp.TrendData = nonNil(v.TrendData)

	s := v.Summary
	resp.Summary.AverageDailySpending = p.money(s.AverageDailySpending)
	resp.Summary.TopCategory = s.TopCategory
	resp.Summary.TopCategoryDisplay = s.TopCategory
	if s.TopCategory == core.NoTopCategory {
		resp.Summary.TopCategoryDisplay = NoCategoryData
	}
	resp.Summary.TopCategoryPercent = percent(s.TopCategoryPercent)
	resp.Summary.SavingsRate = percent(s.SavingsRate)
	return resp
}

func (p presenter) category(v services.CategoryView) categoryView {
	out := categoryView{
		Category:      v.Category,
		IconInfo:      v.IconKind,
		BudgetDisplay: core.FormatMoney(p.currency, v.Budget),
		SpentDisplay:  core.FormatMoney(p.currency, v.Spent),
	}
	if !v.Status.Tracked {
		return out
	}

	pct := v.Status.Percent
	out.BudgetStatus = &budgetView{
		Percent:        pct,
		PercentDisplay: core.FormatPercent(&pct),
		Tier:           v.Status.Tier,
		Label:          budgetLabel(v.Status),
		Progress:       out.SpentDisplay + " / " + out.BudgetDisplay,
	}
	return out
}

// budgetLabel is the hint shown under a progress bar.
func budgetLabel(s core.BudgetStatus) string {
	switch s.Tier {
	case core.TierOver:
		return "Over budget!"
	case core.TierWarning:
		return fmt.Sprintf("%d%% remaining", int(math.Round(100-s.Percent)))
	default:
		return ""
	}
}

func (p presenter) categories(views []services.CategoryView) []categoryView {
	out := make([]categoryView, len(views))
	for i, v := range views {
		out[i] = p.category(v)
	}
	return out
}

func (p presenter) template(t core.TransactionTemplate) templateView {
	return templateView{TransactionTemplate: t, AmountDisplay: core.FormatMoney(p.currency, t.Amount)}
}

func (p presenter) templates(ts []core.TransactionTemplate) []templateView {
	out := make([]templateView, len(ts))
	for i, t := range ts {
		out[i] = p.template(t)
	}
	return out
}

func (p presenter) draft(d *services.TemplateDraft) draftResponse {
	return draftResponse{
		Transaction:     d.Input,
		AmountDisplay:   core.FormatMoney(p.currency, d.Input.Amount),
		DateDisplay:     core.FormatDate(p.dateFormat, d.Input.Date),
		CategoryName:    d.CategoryName,
		CategoryMatched: d.Matched,
	}
}

func icons() []iconView {
	all := core.Icons()
	out := make([]iconView, len(all))
	for i, ic := range all {
		out[i] = iconView{Name: ic.String(), Label: ic.Label()}
	}
	return out
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
