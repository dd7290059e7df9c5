package storage

import (
	"context"
	"errors"
	"time"

	"finboard/internal/core"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// TemplateStore persists transaction templates in creation order.
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]core.TransactionTemplate, error)
	GetTemplate(ctx context.Context, id string) (core.TransactionTemplate, error)
	CreateTemplate(ctx context.Context, t core.TransactionTemplate) error
	UpdateTemplate(ctx context.Context, t core.TransactionTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
	// SeedTemplates inserts defaults the first time it is called on a store
	// and reports whether it did. Later calls are no-ops even when every
	// template has since been deleted.
	SeedTemplates(ctx context.Context, defaults []core.TransactionTemplate) (bool, error)
}

// PreferenceStore persists the single preferences row.
type PreferenceStore interface {
	// GetPreferences returns ErrNotFound until preferences are first saved.
	GetPreferences(ctx context.Context) (core.Preferences, error)
	SavePreferences(ctx context.Context, p core.Preferences) error
}

// AlertRecord is a stored budget alert.
type AlertRecord struct {
	ID         int64
	Alert      core.BudgetAlert
	Exported   bool
	ExportedAt *time.Time
}

// AlertStore records budget alerts and tracks their export state.
type AlertStore interface {
	// RecordAlert stores an alert unless one with the same key exists.
	// created is false for duplicates, in which case the existing record is
	// returned.
	RecordAlert(ctx context.Context, a core.BudgetAlert) (rec AlertRecord, created bool, err error)
	PendingAlerts(ctx context.Context, limit int) ([]AlertRecord, error)
	MarkAlertExported(ctx context.Context, id int64) error
}

// Store is everything the application persists locally.
type Store interface {
	TemplateStore
	PreferenceStore
	AlertStore
	Close() error
}
