package sheets

import (
	"context"
	"time"

	"finboard/internal/core"
)

// AlertExporter is the outbound port for publishing recorded budget alerts
// to a spreadsheet.
type AlertExporter interface {
	// ExportAlert appends one row for the alert and returns a reference to it.
	ExportAlert(ctx context.Context, a core.BudgetAlert) (rowRef string, err error)
}

// AlertHeader names the columns written by AlertRow.
var AlertHeader = []any{"Period", "Category", "Tier", "Percent", "Budget", "Spent", "Recorded At"}

// AlertRow renders an alert as a spreadsheet row. Money keeps two decimals
// and the percent one, matching what the dashboard shows.
func AlertRow(a core.BudgetAlert) []any {
	return []any{
		a.Period,
		a.Category,
		string(a.Tier),
		core.FormatPercent(&a.Percent),
		a.Budget.StringFixed(2),
		a.Spent.StringFixed(2),
		a.RaisedAt.UTC().Format(time.RFC3339),
	}
}
