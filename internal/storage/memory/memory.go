package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"finboard/internal/core"
	"finboard/internal/storage"
)

// Store keeps templates, preferences and alerts in process memory.
type Store struct {
	mu       sync.Mutex
	tmpls    []core.TransactionTemplate
	prefs    *core.Preferences
	seeded   bool
	alerts   []storage.AlertRecord
	alertIdx map[string]int
	now      func() time.Time
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{alertIdx: map[string]int{}, now: time.Now}
}

func (s *Store) Close() error { return nil }

func (s *Store) ListTemplates(_ context.Context) ([]core.TransactionTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.TransactionTemplate{}, s.tmpls...), nil
}

func (s *Store) GetTemplate(_ context.Context, id string) (core.TransactionTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tmpls[i], nil
	}
	return core.TransactionTemplate{}, fmt.Errorf("template %s: %w", id, storage.ErrNotFound)
}

func (s *Store) CreateTemplate(_ context.Context, t core.TransactionTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(t.ID) >= 0 {
		return fmt.Errorf("template %s already exists", t.ID)
	}
	s.tmpls = append(s.tmpls, t)
	return nil
}

func (s *Store) UpdateTemplate(_ context.Context, t core.TransactionTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(t.ID)
	if i < 0 {
		return fmt.Errorf("template %s: %w", t.ID, storage.ErrNotFound)
	}
	s.tmpls[i] = t
	return nil
}

func (s *Store) DeleteTemplate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("template %s: %w", id, storage.ErrNotFound)
	}
	s.tmpls = slices.Delete(s.tmpls, i, i+1)
	return nil
}

func (s *Store) SeedTemplates(_ context.Context, defaults []core.TransactionTemplate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded {
		return false, nil
	}
	s.seeded = true
	s.tmpls = append(s.tmpls, defaults...)
	return true, nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tmpls, func(t core.TransactionTemplate) bool { return t.ID == id })
}

func (s *Store) GetPreferences(_ context.Context) (core.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prefs == nil {
		return core.Preferences{}, fmt.Errorf("preferences: %w", storage.ErrNotFound)
	}
	return *s.prefs, nil
}

func (s *Store) SavePreferences(_ context.Context, p core.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = &p
	return nil
}

func (s *Store) RecordAlert(_ context.Context, a core.BudgetAlert) (storage.AlertRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.alertIdx[a.Key()]; ok {
		return s.alerts[i], false, nil
	}
	rec := storage.AlertRecord{ID: int64(len(s.alerts) + 1), Alert: a}
	s.alertIdx[a.Key()] = len(s.alerts)
	s.alerts = append(s.alerts, rec)
	return rec, true, nil
}

func (s *Store) PendingAlerts(_ context.Context, limit int) ([]storage.AlertRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.AlertRecord
	for _, rec := range s.alerts {
		if len(out) >= limit {
			break
		}
		if !rec.Exported {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *Store) MarkAlertExported(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || int(id) > len(s.alerts) {
		return fmt.Errorf("alert %d: %w", id, storage.ErrNotFound)
	}
	ts := s.now().UTC()
	s.alerts[id-1].Exported = true
	s.alerts[id-1].ExportedAt = &ts
	return nil
}
