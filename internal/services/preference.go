package services

import (
	"context"
	"errors"
	"fmt"

	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/storage"
)

// PreferenceService owns the theme and sidebar state shared by every page.
type PreferenceService struct {
	store  storage.PreferenceStore
	logger *log.Logger
}

func NewPreferenceService(store storage.PreferenceStore, logger *log.Logger) *PreferenceService {
	if logger == nil {
		logger = log.Discard()
	}
	return &PreferenceService{store: store, logger: logger.WithComponent(log.ComponentPrefs)}
}

// Get returns the saved preferences, or the defaults before the first save.
func (s *PreferenceService) Get(ctx context.Context) (core.Preferences, error) {
	p, err := s.store.GetPreferences(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return core.DefaultPreferences(), nil
	}
	if err != nil {
		return core.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return p, nil
}

func (s *PreferenceService) Update(ctx context.Context, p core.Preferences) (core.Preferences, error) {
	if err := p.Validate(); err != nil {
		return core.Preferences{}, invalid(err)
	}
	if err := s.store.SavePreferences(ctx, p); err != nil {
		return core.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	s.logger.InfoContext(ctx, "Preferences saved", "theme", string(p.Theme), "sidebar_collapsed", p.SidebarCollapsed)
	return p, nil
}
