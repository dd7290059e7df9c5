package worker

import (
	"context"
	"fmt"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/sheets"
	"finboard/internal/storage"
)

// AlertWorker records budget alerts locally and exports them to the
// spreadsheet exactly once per (category, tier, period).
type AlertWorker struct {
	store     storage.AlertStore
	exporter  sheets.AlertExporter
	batchSize int
	logger    *log.Logger
}

func NewAlertWorker(store storage.AlertStore, exporter sheets.AlertExporter, batchSize int, logger *log.Logger) *AlertWorker {
	if batchSize < 1 {
		batchSize = 20
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &AlertWorker{
		store:     store,
		exporter:  exporter,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleAlertMessage adapts HandleAlert to the AMQP consumer signature.
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	return w.HandleAlert(ctx, msg.Alert)
}

// HandleAlert stores the alert and exports it unless an earlier delivery
// already did. A returned error means the message should be redelivered.
func (w *AlertWorker) HandleAlert(ctx context.Context, alert core.BudgetAlert) error {
	rec, created, err := w.store.RecordAlert(ctx, alert)
	if err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	if !created && rec.Exported {
		w.logger.DebugContext(ctx, "Duplicate budget alert ignored",
			log.FieldCategoryID, alert.CategoryID,
			log.FieldTier, string(alert.Tier),
			log.FieldPeriod, alert.Period)
		return nil
	}
	return w.export(ctx, rec)
}

// ProcessPending exports alerts that were recorded but never exported.
// This is the backup path for exports that failed after recording.
func (w *AlertWorker) ProcessPending(ctx context.Context) error {
	_, _, err := w.processBatch(ctx, w.batchSize)
	return err
}

// StartupCheck drains a larger batch of pending alerts when the worker starts.
func (w *AlertWorker) StartupCheck(ctx context.Context) error {
	exported, failed, err := w.processBatch(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup check: %w", err)
	}
	w.logger.InfoContext(ctx, "Startup alert export completed", "exported", exported, "errors", failed)
	return nil
}

// RunPeriodic calls ProcessPending every interval until ctx is done.
func (w *AlertWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Failed to process pending alerts", log.FieldError, err.Error())
			}
		}
	}
}

func (w *AlertWorker) processBatch(ctx context.Context, limit int) (exported, failed int, err error) {
	pending, err := w.store.PendingAlerts(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("get pending alerts: %w", err)
	}
	if len(pending) == 0 {
		return 0, 0, nil
	}

	w.logger.InfoContext(ctx, "Processing pending alerts", log.FieldCount, len(pending))
	for _, rec := range pending {
		if err := w.export(ctx, rec); err != nil {
			w.logger.ErrorContext(ctx, "Failed to export pending alert", "id", rec.ID, log.FieldError, err.Error())
			failed++
			continue
		}
		exported++
	}
	return exported, failed, nil
}

func (w *AlertWorker) export(ctx context.Context, rec storage.AlertRecord) error {
	ref, err := w.exporter.ExportAlert(ctx, rec.Alert)
	if err != nil {
		return fmt.Errorf("export alert %d: %w", rec.ID, err)
	}

	if err := w.store.MarkAlertExported(ctx, rec.ID); err != nil {
		// The row is in the sheet already; retrying would duplicate it.
		w.logger.ErrorContext(ctx, "Failed to mark alert exported", "id", rec.ID, log.FieldError, err.Error())
		return nil
	}

	w.logger.InfoContext(ctx, "Budget alert exported",
		log.NewFields().
			WithBudget(rec.Alert.CategoryID, rec.Alert.Category, string(rec.Alert.Tier), rec.Alert.Percent).
			ToSlice()...)
	w.logger.DebugContext(ctx, "Alert row reference", "id", rec.ID, "ref", ref)
	return nil
}
