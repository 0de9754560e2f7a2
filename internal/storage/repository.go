// Package storage provides the SQLite-backed ledger repository. Besides
// the plain persistence port it tracks which rows the mirror worker has
// exported, so a downed worker can catch up later.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

// Mirror states for a transaction row.
const (
	MirrorPending = 0
	MirrorDone    = 1
	MirrorError   = 2
)

var ErrNotFound = errors.New("transaction not found")

type SQLiteRepository struct {
	db *sql.DB
}

// PendingMirror identifies a row awaiting export.
type PendingMirror struct {
	ID        int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements ledger.Repository, returning rows in insertion (ID)
// order.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, date, category FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			dateStr string
		)
		if err := rows.Scan(&t.ID, &t.Description, &t.Amount.Cents, &dateStr, &t.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		date, err := core.ParseDate(dateStr)
		if err != nil {
			slog.WarnContext(ctx, "Skipping row with unparsable date", "id", t.ID, "date", dateStr)
			continue
		}
		t.Date = date
		t.Category = core.NormalizeCategory(t.Category)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Insert implements ledger.Repository.
func (r *SQLiteRepository) Insert(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, description, amount_cents, date, category) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Description, t.Amount.Cents, t.Date.String(), t.Category)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String(),
		"category", t.Category)
	return nil
}

// Remove implements ledger.Repository. Removing an absent id is a no-op.
func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// Budget implements ledger.Repository.
func (r *SQLiteRepository) Budget(ctx context.Context) (core.Money, bool, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `SELECT amount_cents FROM budget WHERE id = 1`).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, false, nil
	}
	if err != nil {
		return core.Money{}, false, fmt.Errorf("query budget: %w", err)
	}
	return core.Money{Cents: cents}, true, nil
}

// SetBudget implements ledger.Repository.
func (r *SQLiteRepository) SetBudget(ctx context.Context, m core.Money) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget (id, amount_cents, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (id) DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = CURRENT_TIMESTAMP`,
		m.Cents)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// GetTransaction returns a single transaction by ID for the mirror worker.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var (
		t       core.Transaction
		dateStr string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, description, amount_cents, date, category FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &t.Description, &t.Amount.Cents, &dateStr, &t.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date for %d: %w", id, err)
	}
	t.Date = date
	return t, nil
}

// GetPendingMirror returns up to limit rows not yet exported, oldest
// first. Rows previously marked as errored are retried.
func (r *SQLiteRepository) GetPendingMirror(ctx context.Context, limit int) ([]PendingMirror, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM transactions WHERE mirror_state != ? ORDER BY id LIMIT ?`,
		MirrorDone, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending mirror rows: %w", err)
	}
	defer rows.Close()

	var out []PendingMirror
	for rows.Next() {
		var p PendingMirror
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending mirror row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending mirror rows: %w", err)
	}
	return out, nil
}

// MarkMirrored records a successful export.
func (r *SQLiteRepository) MarkMirrored(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET mirror_state = ?, mirrored_at = CURRENT_TIMESTAMP WHERE id = ?`,
		MirrorDone, id)
	if err != nil {
		return fmt.Errorf("mark mirrored: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as mirrored", "id", id)
	return nil
}

// MarkMirrorError flags a failed export so the reconcile pass retries it.
func (r *SQLiteRepository) MarkMirrorError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET mirror_state = ? WHERE id = ?`, MirrorError, id)
	if err != nil {
		return fmt.Errorf("mark mirror error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with mirror error", "id", id)
	return nil
}
