package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/log"

	_ "modernc.org/sqlite"
)

const templatesSeededKey = "templates_seeded"

// SQLiteRepository implements Store on a local SQLite file.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
}

var _ Store = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// migrates it to the latest schema.
func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer avoids SQLITE_BUSY between the API and the alert worker
	// goroutines sharing this handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("SQLite database ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db, logger: logger, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}

func (r *SQLiteRepository) ListTemplates(ctx context.Context) ([]core.TransactionTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, amount, category, type FROM templates ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	templates := []core.TransactionTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return templates, nil
}

func (r *SQLiteRepository) GetTemplate(ctx context.Context, id string) (core.TransactionTemplate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, amount, category, type FROM templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.TransactionTemplate{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteRepository) CreateTemplate(ctx context.Context, t core.TransactionTemplate) error {
	return insertTemplate(ctx, r.db, t, r.timestamp())
}

func (r *SQLiteRepository) UpdateTemplate(ctx context.Context, t core.TransactionTemplate) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE templates SET name = ?, description = ?, amount = ?, category = ?, type = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Description, t.Amount.String(), t.Category, string(t.Type), r.timestamp(), t.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return expectOneRow(res, "template "+t.ID)
}

func (r *SQLiteRepository) DeleteTemplate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return expectOneRow(res, "template "+id)
}

func (r *SQLiteRepository) SeedTemplates(ctx context.Context, defaults []core.TransactionTemplate) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO store_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`,
		templatesSeededKey, r.timestamp())
	if err != nil {
		return false, fmt.Errorf("mark templates seeded: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	ts := r.timestamp()
	for _, t := range defaults {
		if err := insertTemplate(ctx, tx, t, ts); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}

	r.logger.InfoContext(ctx, "Seeded default templates", log.FieldCount, len(defaults))
	return true, nil
}

func (r *SQLiteRepository) GetPreferences(ctx context.Context) (core.Preferences, error) {
	var (
		p         core.Preferences
		theme     string
		collapsed bool
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT theme, sidebar_collapsed FROM preferences WHERE id = 1`).Scan(&theme, &collapsed)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("preferences: %w", ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("get preferences: %w", err)
	}
	p.Theme = core.Theme(theme)
	p.SidebarCollapsed = collapsed
	return p, nil
}

func (r *SQLiteRepository) SavePreferences(ctx context.Context, p core.Preferences) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (id, theme, sidebar_collapsed, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			theme = excluded.theme,
			sidebar_collapsed = excluded.sidebar_collapsed,
			updated_at = excluded.updated_at`,
		string(p.Theme), p.SidebarCollapsed, r.timestamp())
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RecordAlert(ctx context.Context, a core.BudgetAlert) (AlertRecord, bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO budget_alerts (category_id, category, tier, percent, budget, spent, period, raised_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(category_id, tier, period) DO NOTHING`,
		a.CategoryID, a.Category, string(a.Tier), a.Percent, a.Budget.String(), a.Spent.String(),
		a.Period, a.RaisedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return AlertRecord{}, false, fmt.Errorf("record alert: %w", err)
	}
	created := false
	if n, _ := res.RowsAffected(); n > 0 {
		created = true
	}

	row := r.db.QueryRowContext(ctx, alertSelect+` WHERE category_id = ? AND tier = ? AND period = ?`,
		a.CategoryID, string(a.Tier), a.Period)
	rec, err := scanAlert(row)
	if err != nil {
		return AlertRecord{}, false, err
	}
	if created {
		r.logger.InfoContext(ctx, "Budget alert recorded",
			log.NewFields().WithBudget(a.CategoryID, a.Category, string(a.Tier), a.Percent).ToSlice()...)
	}
	return rec, created, nil
}

func (r *SQLiteRepository) PendingAlerts(ctx context.Context, limit int) ([]AlertRecord, error) {
	rows, err := r.db.QueryContext(ctx, alertSelect+` WHERE exported = 0 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("pending alerts: %w", err)
	}
	defer rows.Close()

	var out []AlertRecord
	for rows.Next() {
		rec, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) MarkAlertExported(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budget_alerts SET exported = 1, exported_at = ? WHERE id = ?`, r.timestamp(), id)
	if err != nil {
		return fmt.Errorf("mark alert exported: %w", err)
	}
	return expectOneRow(res, fmt.Sprintf("alert %d", id))
}

const alertSelect = `SELECT id, category_id, category, tier, percent, budget, spent, period, raised_at, exported, exported_at FROM budget_alerts`

type scanner interface {
	Scan(dest ...any) error
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTemplate(ctx context.Context, db execer, t core.TransactionTemplate, ts string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO templates (id, name, description, amount, category, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, t.Amount.String(), t.Category, string(t.Type), ts, ts)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func scanTemplate(s scanner) (core.TransactionTemplate, error) {
	var (
		t      core.TransactionTemplate
		amount string
		typ    string
	)
	if err := s.Scan(&t.ID, &t.Name, &t.Description, &amount, &t.Category, &typ); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scan template: %w", err)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return t, fmt.Errorf("template %s amount %q: %w", t.ID, amount, err)
	}
	t.Amount = d
	t.Type = core.TransactionType(typ)
	return t, nil
}

func scanAlert(s scanner) (AlertRecord, error) {
	var (
		rec                 AlertRecord
		tier, budget, spent string
		raisedAt            string
		exportedAt          sql.NullString
	)
	err := s.Scan(&rec.ID, &rec.Alert.CategoryID, &rec.Alert.Category, &tier, &rec.Alert.Percent,
		&budget, &spent, &rec.Alert.Period, &raisedAt, &rec.Exported, &exportedAt)
	if err != nil {
		return rec, fmt.Errorf("scan alert: %w", err)
	}
	rec.Alert.Tier = core.BudgetTier(tier)
	if rec.Alert.Budget, err = decimal.NewFromString(budget); err != nil {
		return rec, fmt.Errorf("alert %d budget: %w", rec.ID, err)
	}
	if rec.Alert.Spent, err = decimal.NewFromString(spent); err != nil {
		return rec, fmt.Errorf("alert %d spent: %w", rec.ID, err)
	}
	if rec.Alert.RaisedAt, err = time.Parse(time.RFC3339Nano, raisedAt); err != nil {
		return rec, fmt.Errorf("alert %d raised_at: %w", rec.ID, err)
	}
	if exportedAt.Valid {
		ts, err := time.Parse(time.RFC3339Nano, exportedAt.String)
		if err != nil {
			return rec, fmt.Errorf("alert %d exported_at: %w", rec.ID, err)
		}
		rec.ExportedAt = &ts
	}
	return rec, nil
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
