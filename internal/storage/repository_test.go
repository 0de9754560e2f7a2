package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tracker/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedTxn(t *testing.T, repo *SQLiteRepository, id int64, desc string, cents int64) core.Transaction {
	t.Helper()
	tx := core.Transaction{
		ID:          id,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Date:        core.NewDate(2025, 6, 15),
		Category:    core.CategoryFood,
	}
	if err := repo.Insert(context.Background(), tx); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return tx
}

func TestInsertLoadRemove(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := seedTxn(t, repo, 1, "coffee", 350)
	b := seedTxn(t, repo, 2, "bus", 200)

	list, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(list) != 2 || list[0] != a || list[1] != b {
		t.Fatalf("expected [a b] in ID order, got %+v", list)
	}

	if err := repo.Remove(ctx, a.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	list, _ = repo.Load(ctx)
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("expected only b after remove, got %+v", list)
	}

	// removing an absent id is a no-op
	if err := repo.Remove(ctx, 9999); err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
}

func TestGetTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	want := seedTxn(t, repo, 7, "lunch", 1200)

	got, err := repo.GetTransaction(ctx, 7)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if _, err := repo.GetTransaction(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBudgetUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, ok, err := repo.Budget(ctx); err != nil || ok {
		t.Fatalf("fresh db should have no budget (ok=%v err=%v)", ok, err)
	}
	if err := repo.SetBudget(ctx, core.Money{Cents: 100000}); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	if err := repo.SetBudget(ctx, core.Money{Cents: 200000}); err != nil {
		t.Fatalf("SetBudget update: %v", err)
	}
	m, ok, err := repo.Budget(ctx)
	if err != nil || !ok || m.Cents != 200000 {
		t.Fatalf("expected upserted 200000, got %v/%v (err=%v)", m, ok, err)
	}
}

func TestMirrorQueue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedTxn(t, repo, 1, "a", 100)
	seedTxn(t, repo, 2, "b", 100)
	seedTxn(t, repo, 3, "c", 100)

	pending, err := repo.GetPendingMirror(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingMirror: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending rows, got %d", len(pending))
	}

	if err := repo.MarkMirrored(ctx, 1); err != nil {
		t.Fatalf("MarkMirrored: %v", err)
	}
	if err := repo.MarkMirrorError(ctx, 2); err != nil {
		t.Fatalf("MarkMirrorError: %v", err)
	}

	// errored rows stay in the retry queue, mirrored ones leave it
	pending, _ = repo.GetPendingMirror(ctx, 10)
	if len(pending) != 2 || pending[0].ID != 2 || pending[1].ID != 3 {
		t.Fatalf("expected pending [2 3], got %+v", pending)
	}

	pending, _ = repo.GetPendingMirror(ctx, 1)
	if len(pending) != 1 || pending[0].ID != 2 {
		t.Fatalf("limit should cap at oldest first, got %+v", pending)
	}
}
