package backend

import (
	"context"

	"finboard/internal/amqp"
	"finboard/internal/services"
	"finboard/internal/sheets"
	"finboard/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the local store, the optional alert broker client
// and a cleanup function releasing both
type BackendResult struct {
	Store   storage.Store
	AMQP    *amqp.Client
	Cleanup CleanupFunc
}

// Publisher returns the broker client as an AlertPublisher, or nil when
// AMQP is not configured.
func (r *BackendResult) Publisher() services.AlertPublisher {
	if r.AMQP == nil {
		return nil
	}
	return r.AMQP
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend opens the local store and, when configured, the broker.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	// CreateExporter builds the alert exporter used by the worker.
	CreateExporter(ctx context.Context, config Config) (sheets.AlertExporter, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// AMQP (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	// AMQPRequired makes a failed broker connection fatal instead of
	// degrading to no alerts.
	AMQPRequired bool

	// Google Sheets alert export (optional)
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
