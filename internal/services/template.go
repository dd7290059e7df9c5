package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/storage"
)

// maxCategoryDistance is the largest edit distance at which a template's
// category name still resolves to an upstream category.
const maxCategoryDistance = 2

// TemplateDraft is a transaction prefilled from a template. CategoryName
// keeps the template's wording when no upstream category matched.
type TemplateDraft struct {
	Input        core.TransactionInput
	CategoryName string
	Matched      bool
}

type TemplateService struct {
	store    storage.TemplateStore
	upstream Upstream
	cache    *PayloadCache
	logger   *log.Logger
	now      func() time.Time
}

func NewTemplateService(store storage.TemplateStore, up Upstream, c *PayloadCache, logger *log.Logger) *TemplateService {
	if logger == nil {
		logger = log.Discard()
	}
	return &TemplateService{
		store:    store,
		upstream: up,
		cache:    c,
		logger:   logger.WithComponent(log.ComponentTemplates),
		now:      time.Now,
	}
}

// List returns the stored templates, seeding the defaults on first use.
// Defaults deleted later are not seeded again.
func (s *TemplateService) List(ctx context.Context) ([]core.TransactionTemplate, error) {
	defaults := core.DefaultTemplates()
	for i := range defaults {
		defaults[i].ID = uuid.NewString()
	}
	seeded, err := s.store.SeedTemplates(ctx, defaults)
	if err != nil {
		return nil, fmt.Errorf("seed templates: %w", err)
	}
	if seeded {
		s.logger.InfoContext(ctx, "Seeded default templates", log.FieldCount, len(defaults))
	}

	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (s *TemplateService) Get(ctx context.Context, id string) (core.TransactionTemplate, error) {
	t, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return core.TransactionTemplate{}, fmt.Errorf("get template %s: %w", id, err)
	}
	return t, nil
}

func (s *TemplateService) Create(ctx context.Context, t core.TransactionTemplate) (core.TransactionTemplate, error) {
	if err := t.Validate(); err != nil {
		return core.TransactionTemplate{}, invalid(err)
	}
	t = t.Normalize()
	t.ID = uuid.NewString()
	if err := s.store.CreateTemplate(ctx, t); err != nil {
		return core.TransactionTemplate{}, fmt.Errorf("create template: %w", err)
	}
	s.logger.InfoContext(ctx, "Template created", log.FieldTemplateID, t.ID)
	return t, nil
}

func (s *TemplateService) Update(ctx context.Context, id string, t core.TransactionTemplate) (core.TransactionTemplate, error) {
	if err := t.Validate(); err != nil {
		return core.TransactionTemplate{}, invalid(err)
	}
	t = t.Normalize()
	t.ID = id
	if err := s.store.UpdateTemplate(ctx, t); err != nil {
		return core.TransactionTemplate{}, fmt.Errorf("update template %s: %w", id, err)
	}
	return t, nil
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTemplate(ctx, id); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Template deleted", log.FieldTemplateID, id)
	return nil
}

// Apply turns a template into a transaction draft dated date (today when
// empty), resolving its category name against the caller's categories.
func (s *TemplateService) Apply(ctx context.Context, auth, id, date string) (*TemplateDraft, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = s.now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, invalid(core.ErrInvalidDate)
	}

	cats, err := fetchCached(ctx, s.cache, auth, "categories/", func(ctx context.Context) ([]core.Category, error) {
		return s.upstream.Categories(ctx, auth)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	draft := &TemplateDraft{
		Input: core.TransactionInput{
			Description: t.Description,
			Amount:      t.Amount,
			Type:        t.Type,
			Date:        date,
		},
		CategoryName: t.Category,
	}
	if cat, ok := ResolveCategory(cats, t.Category, t.Type); ok {
		draft.Input.Category = &cat.ID
		draft.CategoryName = cat.Name
		draft.Matched = true
	} else {
		s.logger.DebugContext(ctx, "Template category not found upstream",
			log.FieldTemplateID, id, log.FieldCategory, t.Category)
	}
	return draft, nil
}

// ResolveCategory finds the category named name: an exact case-insensitive
// match wins, otherwise the closest name within maxCategoryDistance edits.
// Among equals, categories of typ are preferred, then the earliest.
func ResolveCategory(cats []core.Category, name string, typ core.TransactionType) (core.Category, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return core.Category{}, false
	}

	best, bestScore := -1, 0
	for i, c := range cats {
		dist := levenshtein.ComputeDistance(want, strings.ToLower(strings.TrimSpace(c.Name)))
		if dist > maxCategoryDistance {
			continue
		}
		score := dist * 2
		if c.Type != typ {
			score++
		}
		if best < 0 || score < bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return core.Category{}, false
	}
	return cats[best], true
}

// IsNotFound reports whether err means the template does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
