package core

import (
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodLayout formats the calendar month an alert belongs to.
const PeriodLayout = "2006-01"

var ErrNotAlerting = errors.New("budget status does not raise an alert")

// BudgetAlert records that a category crossed the warning or over tier in a
// given month. (CategoryID, Tier, Period) identifies an alert.
type BudgetAlert struct {
	CategoryID int64           `json:"category_id"`
	Category   string          `json:"category"`
	Tier       BudgetTier      `json:"tier"`
	Percent    float64         `json:"percent"`
	Budget     decimal.Decimal `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Period     string          `json:"period"`
	RaisedAt   time.Time       `json:"raised_at"`
}

// NewBudgetAlert builds the alert for a category whose status is alerting.
func NewBudgetAlert(cat Category, status BudgetStatus, now time.Time) (BudgetAlert, error) {
	if !status.Alerting() {
		return BudgetAlert{}, ErrNotAlerting
	}
	return BudgetAlert{
		CategoryID: cat.ID,
		Category:   cat.Name,
		Tier:       status.Tier,
		Percent:    status.Percent,
		Budget:     cat.Budget,
		Spent:      cat.Spent,
		Period:     now.Format(PeriodLayout),
		RaisedAt:   now.UTC(),
	}, nil
}

// Key returns the identity used to deduplicate alerts.
func (a BudgetAlert) Key() string {
	return a.Period + "/" + string(a.Tier) + "/" + strconv.FormatInt(a.CategoryID, 10)
}
