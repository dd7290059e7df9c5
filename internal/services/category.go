package services

import (
	"context"
	"fmt"
	"time"

	"finboard/internal/cache"
	"finboard/internal/core"
	"finboard/internal/log"
)

// CategoryView is a category with its resolved icon and budget progress.
type CategoryView struct {
	core.Category
	IconKind core.Icon
	Status   core.BudgetStatus
}

type CategoryService struct {
	upstream  Upstream
	cache     *PayloadCache
	publisher AlertPublisher
	published *cache.LRUCache[bool]
	logger    *log.Logger
	now       func() time.Time
}

// NewCategoryService wires the category page. publisher may be nil, in which
// case no budget alerts are raised.
func NewCategoryService(up Upstream, c *PayloadCache, publisher AlertPublisher, logger *log.Logger) *CategoryService {
	if logger == nil {
		logger = log.Discard()
	}
	return &CategoryService{
		upstream:  up,
		cache:     c,
		publisher: publisher,
		published: cache.NewLRUCache[bool](1024, 24*time.Hour),
		logger:    logger.WithComponent(log.ComponentBudget),
		now:       time.Now,
	}
}

// CleanExpired sweeps the published-alert memory.
func (s *CategoryService) CleanExpired() int {
	return s.published.CleanExpired()
}

// List returns the categories of the given type ("all", "income",
// "expense" or empty) with their budget status.
func (s *CategoryService) List(ctx context.Context, auth, typ string) ([]CategoryView, error) {
	if !validTypeFilter(typ) {
		return nil, invalid(ErrInvalidFilter)
	}

	cats, err := fetchCached(ctx, s.cache, auth, "categories/", func(ctx context.Context) ([]core.Category, error) {
		return s.upstream.Categories(ctx, auth)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	filtered := core.FilterCategories(cats, typ)
	views := make([]CategoryView, len(filtered))
	for i, c := range filtered {
		views[i] = CategoryView{
			Category: c,
			IconKind: core.ParseIcon(c.Icon),
			Status:   core.EvaluateBudget(c.Budget, c.Spent),
		}
	}

	s.raiseAlerts(ctx, views)
	return views, nil
}

func (s *CategoryService) raiseAlerts(ctx context.Context, views []CategoryView) {
	if s.publisher == nil {
		return
	}
	now := s.now()
	for _, v := range views {
		if !v.Status.Alerting() {
			continue
		}
		alert, err := core.NewBudgetAlert(v.Category, v.Status, now)
		if err != nil {
			continue
		}
		key := alert.Key()
		if _, seen := s.published.Get(key); seen {
			continue
		}
		if err := s.publisher.PublishBudgetAlert(ctx, alert); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish budget alert",
				log.NewFields().
					WithBudget(alert.CategoryID, alert.Category, string(alert.Tier), alert.Percent).
					WithError(err).
					WithOperation(log.OpPublish).
					ToSlice()...)
			continue
		}
		s.published.Set(key, true)
		s.logger.InfoContext(ctx, "Budget alert published",
			log.NewFields().WithBudget(alert.CategoryID, alert.Category, string(alert.Tier), alert.Percent).ToSlice()...)
	}
}

func (s *CategoryService) Create(ctx context.Context, auth string, in core.CategoryInput) (*core.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	created, err := s.upstream.CreateCategory(ctx, auth, in)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.cache.Invalidate(ctx, auth)
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, auth string, id int64, in core.CategoryInput) (*core.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	updated, err := s.upstream.UpdateCategory(ctx, auth, id, in)
	if err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	s.cache.Invalidate(ctx, auth)
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, auth string, id int64) error {
	if err := s.upstream.DeleteCategory(ctx, auth, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	s.cache.Invalidate(ctx, auth)
	return nil
}
