package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/upstream"
)

// AnalyticsView is the analytics page payload.
type AnalyticsView struct {
	CategoryData []core.CategorySlice
	TrendData    []core.TrendPoint
	Summary      core.AnalyticsSummary
}

type AnalyticsService struct {
	upstream Upstream
	cache    *PayloadCache
	logger   *log.Logger
}

func NewAnalyticsService(up Upstream, c *PayloadCache, logger *log.Logger) *AnalyticsService {
	if logger == nil {
		logger = log.Discard()
	}
	return &AnalyticsService{
		upstream: up,
		cache:    c,
		logger:   logger.WithComponent(log.ComponentAnalytics),
	}
}

// Overview fetches the analytics payload and the dashboard totals in
// parallel. Only the analytics fetch is required; without the totals the
// savings rate falls back to the value reported upstream.
func (s *AnalyticsService) Overview(ctx context.Context, auth string) (*AnalyticsView, error) {
	var (
		overview  *upstream.AnalyticsOverview
		dashboard *upstream.DashboardResponse
		dashErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview, err = fetchCached(gctx, s.cache, auth, "analytics/overview/", func(ctx context.Context) (*upstream.AnalyticsOverview, error) {
			return s.upstream.AnalyticsOverview(ctx, auth)
		})
		return err
	})
	g.Go(func() error {
		dashboard, dashErr = fetchDashboard(gctx, s.upstream, s.cache, auth)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch analytics: %w", err)
	}

	view := &AnalyticsView{
		CategoryData: overview.CategoryData,
		TrendData:    core.SortByMonth(overview.TrendData),
	}

	if dashErr == nil {
		totals := dashboard.Summary
		view.Summary = core.ComputeSummary(overview.CategoryData, totals.TotalIncome, totals.TotalExpenses, overview.AverageDailySpending)
	} else {
		s.logger.WarnContext(ctx, "Dashboard totals unavailable, using upstream savings rate",
			log.FieldError, dashErr.Error())
		view.Summary = core.ComputeSummary(overview.CategoryData, decimal.Zero, decimal.Zero, overview.AverageDailySpending)
		view.Summary.SavingsRate = overview.SavingsRate
	}
	return view, nil
}
