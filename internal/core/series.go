package core

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Dated is implemented by every chart row carrying a month label.
	Dated interface {
		MonthLabel() string
	}

	// TrendPoint is one row of the analytics spending trend.
	TrendPoint struct {
		Month  string          `json:"month"`
		Amount decimal.Decimal `json:"amount"`
	}

	// ChartPoint is one row of the dashboard income/expense chart.
	ChartPoint struct {
		Month    string          `json:"month"`
		Income   decimal.Decimal `json:"income"`
		Expenses decimal.Decimal `json:"expenses"`
	}
)

func (p TrendPoint) MonthLabel() string { return p.Month }

func (p ChartPoint) MonthLabel() string { return p.Month }

// SortByMonth returns a chronologically ordered copy of series.
func SortByMonth[T Dated](series []T) []T {
	return SortByMonthAt(series, time.Now())
}

// SortByMonthAt orders series by (year, month) with labels lacking a year
// resolved against now. The sort is stable and the input is left untouched.
func SortByMonthAt[T Dated](series []T, now time.Time) []T {
	type keyed struct {
		key  MonthKey
		item T
	}

	rows := make([]keyed, len(series))
	for i, item := range series {
		rows[i] = keyed{key: ParseMonthKeyAt(item.MonthLabel(), now), item: item}
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		return a.key.Compare(b.key)
	})

	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.item
	}
	return out
}
