package services

import (
	"context"
	"sync"

	"finboard/internal/core"
	"finboard/internal/upstream"
)

type fakeUpstream struct {
	mu sync.Mutex

	overview     *upstream.AnalyticsOverview
	overviewErr  error
	dashboard    *upstream.DashboardResponse
	dashboardErr error
	categories   []core.Category
	transactions []core.Transaction
	profile      *upstream.ProfileResponse
	profileErr   error
	mutationErr  error

	calls      map[string]int
	lastQuery  upstream.TransactionQuery
	lastAuth   string
	lastCatIn  core.CategoryInput
	lastTxIn   core.TransactionInput
	lastProfIn core.ProfileUpdate
	deletedIDs []int64
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{calls: make(map[string]int)}
}

func (f *fakeUpstream) record(name, auth string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	f.lastAuth = auth
}

func (f *fakeUpstream) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeUpstream) AnalyticsOverview(_ context.Context, auth string) (*upstream.AnalyticsOverview, error) {
	f.record("analytics", auth)
	return f.overview, f.overviewErr
}

func (f *fakeUpstream) Dashboard(_ context.Context, auth string) (*upstream.DashboardResponse, error) {
	f.record("dashboard", auth)
	return f.dashboard, f.dashboardErr
}

func (f *fakeUpstream) Categories(_ context.Context, auth string) ([]core.Category, error) {
	f.record("categories", auth)
	return f.categories, nil
}

func (f *fakeUpstream) CreateCategory(_ context.Context, auth string, in core.CategoryInput) (*core.Category, error) {
	f.record("create_category", auth)
	f.lastCatIn = in
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	return &core.Category{ID: 99, Name: in.Name, Type: in.Type, Budget: in.Budget}, nil
}

func (f *fakeUpstream) UpdateCategory(_ context.Context, auth string, id int64, in core.CategoryInput) (*core.Category, error) {
	f.record("update_category", auth)
	f.lastCatIn = in
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	return &core.Category{ID: id, Name: in.Name, Type: in.Type, Budget: in.Budget}, nil
}

func (f *fakeUpstream) DeleteCategory(_ context.Context, auth string, id int64) error {
	f.record("delete_category", auth)
	f.deletedIDs = append(f.deletedIDs, id)
	return f.mutationErr
}

func (f *fakeUpstream) Transactions(_ context.Context, auth string, q upstream.TransactionQuery) ([]core.Transaction, error) {
	f.record("transactions", auth)
	f.lastQuery = q
	return f.transactions, nil
}

func (f *fakeUpstream) CreateTransaction(_ context.Context, auth string, in core.TransactionInput) (*core.Transaction, error) {
	f.record("create_transaction", auth)
	f.lastTxIn = in
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	return &core.Transaction{ID: 7, Description: in.Description, Amount: in.Amount, Type: in.Type, Date: in.Date, Category: in.Category}, nil
}

func (f *fakeUpstream) UpdateTransaction(_ context.Context, auth string, id int64, in core.TransactionInput) (*core.Transaction, error) {
	f.record("update_transaction", auth)
	f.lastTxIn = in
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	return &core.Transaction{ID: id, Description: in.Description, Amount: in.Amount, Type: in.Type, Date: in.Date, Category: in.Category}, nil
}

func (f *fakeUpstream) Profile(_ context.Context, auth string) (*upstream.ProfileResponse, error) {
	f.record("profile", auth)
	return f.profile, f.profileErr
}

func (f *fakeUpstream) UpdateProfile(_ context.Context, auth string, in core.ProfileUpdate) (*upstream.ProfileResponse, error) {
	f.record("update_profile", auth)
	f.lastProfIn = in
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	resp := upstream.ProfileResponse{Profile: core.Profile{Currency: in.Currency, DateFormat: in.DateFormat}}
	return &resp, nil
}

func (f *fakeUpstream) DeleteTransaction(_ context.Context, auth string, id int64) error {
	f.record("delete_transaction", auth)
	f.deletedIDs = append(f.deletedIDs, id)
	return f.mutationErr
}

type fakePublisher struct {
	mu     sync.Mutex
	alerts []core.BudgetAlert
	err    error
}

func (p *fakePublisher) PublishBudgetAlert(_ context.Context, a core.BudgetAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.alerts = append(p.alerts, a)
	return nil
}

func (p *fakePublisher) published() []core.BudgetAlert {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.BudgetAlert(nil), p.alerts...)
}
