package services

import (
	"context"
	"fmt"

	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/upstream"
)

// DashboardView is the dashboard page payload.
type DashboardView struct {
	Summary            upstream.DashboardSummary
	SavingsRate        *float64
	Chart              []core.ChartPoint
	RecentTransactions []core.Transaction
}

type DashboardService struct {
	upstream Upstream
	cache    *PayloadCache
	logger   *log.Logger
}

func NewDashboardService(up Upstream, c *PayloadCache, logger *log.Logger) *DashboardService {
	if logger == nil {
		logger = log.Discard()
	}
	return &DashboardService{
		upstream: up,
		cache:    c,
		logger:   logger.WithComponent(log.ComponentDashboard),
	}
}

// Overview returns the summary cards, the chronologically ordered chart and
// the recent transactions.
func (s *DashboardService) Overview(ctx context.Context, auth string) (*DashboardView, error) {
	resp, err := fetchDashboard(ctx, s.upstream, s.cache, auth)
	if err != nil {
		return nil, fmt.Errorf("fetch dashboard: %w", err)
	}

	view := &DashboardView{
		Summary:            resp.Summary,
		SavingsRate:        core.SavingsRate(resp.Summary.TotalIncome, resp.Summary.TotalExpenses),
		Chart:              core.SortByMonth(resp.Chart),
		RecentTransactions: resp.RecentTransactions,
	}
	s.logger.DebugContext(ctx, "Dashboard assembled", log.FieldCount, len(view.Chart))
	return view, nil
}

func fetchDashboard(ctx context.Context, up Upstream, c *PayloadCache, auth string) (*upstream.DashboardResponse, error) {
	return fetchCached(ctx, c, auth, "dashboard/summary/", func(ctx context.Context) (*upstream.DashboardResponse, error) {
		return up.Dashboard(ctx, auth)
	})
}
