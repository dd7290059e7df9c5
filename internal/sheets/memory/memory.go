package memory

import (
	"context"
	"fmt"
	"sync"

	"finboard/internal/core"
	"finboard/internal/sheets"
)

// Exporter records exported rows in memory. Used by the memory backend and
// tests.
type Exporter struct {
	mu   sync.Mutex
	rows [][]any
	// FailWith makes every export fail with the given error when set.
	FailWith error
}

var _ sheets.AlertExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ExportAlert(_ context.Context, a core.BudgetAlert) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailWith != nil {
		return "", e.FailWith
	}
	e.rows = append(e.rows, sheets.AlertRow(a))
	return fmt.Sprintf("mem:%d", len(e.rows)), nil
}

// Rows returns a copy of every exported row.
func (e *Exporter) Rows() [][]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]any(nil), e.rows...)
}
