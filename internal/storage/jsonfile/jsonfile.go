// Package jsonfile persists the ledger as two files under one directory:
// transactions.json holds the JSON array of transaction objects, and
// monthly_budget holds a string-encoded decimal, absent until a budget is
// set. Every mutation rewrites the affected file atomically.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tracker/internal/core"
)

const (
	transactionsFile = "transactions.json"
	budgetFile       = "monthly_budget"
)

type Repository struct {
	dir string
}

// New creates the data directory if needed and returns a repository
// rooted there.
func New(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Repository{dir: dir}, nil
}

// Load reads and parses the persisted transaction list. A missing file
// yields an empty list; a corrupt blob is logged and also yields an empty
// list, never an error.
func (r *Repository) Load(ctx context.Context) ([]core.Transaction, error) {
	path := filepath.Join(r.dir, transactionsFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed reading transactions file, treating as empty", "path", path, "error", err)
		return nil, nil
	}
	var list []core.Transaction
	if err := json.Unmarshal(data, &list); err != nil {
		slog.WarnContext(ctx, "Corrupt transactions file, treating as empty", "path", path, "error", err)
		return nil, nil
	}
	return list, nil
}

func (r *Repository) Insert(ctx context.Context, t core.Transaction) error {
	list, _ := r.Load(ctx)
	list = append(list, t)
	return r.writeList(list)
}

func (r *Repository) Remove(ctx context.Context, id int64) error {
	list, _ := r.Load(ctx)
	next := list[:0]
	for _, t := range list {
		if t.ID != id {
			next = append(next, t)
		}
	}
	return r.writeList(next)
}

func (r *Repository) Budget(ctx context.Context) (core.Money, bool, error) {
	path := filepath.Join(r.dir, budgetFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Money{}, false, nil
	}
	if err != nil {
		return core.Money{}, false, fmt.Errorf("read budget file: %w", err)
	}
	cents, err := core.ParseBudgetCents(strings.TrimSpace(string(data)))
	if err != nil {
		slog.WarnContext(ctx, "Corrupt budget file, treating as unset", "path", path, "error", err)
		return core.Money{}, false, nil
	}
	return core.Money{Cents: cents}, true, nil
}

func (r *Repository) SetBudget(_ context.Context, m core.Money) error {
	return r.writeAtomic(budgetFile, []byte(m.DecimalString()+"\n"))
}

func (r *Repository) Close() error { return nil }

func (r *Repository) writeList(list []core.Transaction) error {
	if list == nil {
		list = []core.Transaction{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}
	return r.writeAtomic(transactionsFile, append(data, '\n'))
}

// writeAtomic writes via a temp file and rename so a crash mid-write
// never leaves a half-written blob behind.
func (r *Repository) writeAtomic(name string, data []byte) error {
	path := filepath.Join(r.dir, name)
	tmp, err := os.CreateTemp(r.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
