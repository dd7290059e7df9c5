package services

import (
	"context"
	"errors"

	"finboard/internal/core"
	"finboard/internal/upstream"
)

// Upstream is the subset of the REST client the services depend on.
type Upstream interface {
	AnalyticsOverview(ctx context.Context, auth string) (*upstream.AnalyticsOverview, error)
	Dashboard(ctx context.Context, auth string) (*upstream.DashboardResponse, error)
	Categories(ctx context.Context, auth string) ([]core.Category, error)
	CreateCategory(ctx context.Context, auth string, in core.CategoryInput) (*core.Category, error)
	UpdateCategory(ctx context.Context, auth string, id int64, in core.CategoryInput) (*core.Category, error)
	DeleteCategory(ctx context.Context, auth string, id int64) error
	Transactions(ctx context.Context, auth string, q upstream.TransactionQuery) ([]core.Transaction, error)
	CreateTransaction(ctx context.Context, auth string, in core.TransactionInput) (*core.Transaction, error)
	UpdateTransaction(ctx context.Context, auth string, id int64, in core.TransactionInput) (*core.Transaction, error)
	DeleteTransaction(ctx context.Context, auth string, id int64) error
	Profile(ctx context.Context, auth string) (*upstream.ProfileResponse, error)
	UpdateProfile(ctx context.Context, auth string, in core.ProfileUpdate) (*upstream.ProfileResponse, error)
}

// AlertPublisher hands budget alerts to the background worker.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, alert core.BudgetAlert) error
}

// ValidationError marks input rejected before reaching the upstream.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}

// ErrInvalidFilter is returned for an unknown category or transaction type filter.
var ErrInvalidFilter = errors.New("type filter must be all, income or expense")

func validTypeFilter(typ string) bool {
	switch typ {
	case "", core.All, string(core.Income), string(core.Expense):
		return true
	}
	return false
}
