package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tracker/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	r, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestLoadMissingFile(t *testing.T) {
	r := newTestRepo(t)
	list, err := r.Load(context.Background())
	if err != nil || list != nil {
		t.Fatalf("missing file should yield empty list, got %v (err=%v)", list, err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	r := newTestRepo(t)
	path := filepath.Join(r.dir, transactionsFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	list, err := r.Load(context.Background())
	if err != nil || list != nil {
		t.Fatalf("corrupt file should degrade to empty, got %v (err=%v)", list, err)
	}
}

func TestInsertRemoveRoundtrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	a := core.Transaction{ID: 1, Description: "coffee", Amount: core.Money{Cents: 350},
		Date: core.NewDate(2025, 6, 15), Category: core.CategoryFood}
	b := core.Transaction{ID: 2, Description: "bus", Amount: core.Money{Cents: 200},
		Date: core.NewDate(2025, 6, 15), Category: core.CategoryTransportation}

	if err := r.Insert(ctx, a); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := r.Insert(ctx, b); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	list, err := r.Load(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 transactions, got %v (err=%v)", list, err)
	}
	if list[0] != a || list[1] != b {
		t.Fatalf("insertion order lost: %+v", list)
	}

	if err := r.Remove(ctx, 1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	list, _ = r.Load(ctx)
	if len(list) != 1 || list[0].ID != 2 {
		t.Fatalf("expected only ID 2 after remove, got %+v", list)
	}
}

func TestTransactionsFileIsJSONArray(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	if err := r.Insert(ctx, core.Transaction{ID: 1, Description: "x", Amount: core.Money{Cents: 1},
		Date: core.NewDate(2025, 1, 1), Category: core.CategoryOther}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(r.dir, transactionsFile))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := strings.TrimSpace(string(data))
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		t.Fatalf("expected a JSON array on disk, got %s", text)
	}
	if !strings.Contains(text, `"amount_cents": 1`) {
		t.Fatalf("expected integer cents in file, got %s", text)
	}
	if !strings.Contains(text, `"date": "2025-01-01"`) {
		t.Fatalf("expected ISO date string in file, got %s", text)
	}
}

func TestBudgetFileContract(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	if _, ok, err := r.Budget(ctx); err != nil || ok {
		t.Fatalf("fresh repo should have no budget (ok=%v err=%v)", ok, err)
	}

	if err := r.SetBudget(ctx, core.Money{Cents: 123456}); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(r.dir, budgetFile))
	if err != nil {
		t.Fatalf("read budget file: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "1234.56" {
		t.Fatalf("budget file must hold the decimal string, got %q", got)
	}

	m, ok, err := r.Budget(ctx)
	if err != nil || !ok || m.Cents != 123456 {
		t.Fatalf("expected 123456 cents, got %v/%v (err=%v)", m, ok, err)
	}
}

func TestCorruptBudgetFile(t *testing.T) {
	r := newTestRepo(t)
	if err := os.WriteFile(filepath.Join(r.dir, budgetFile), []byte("banana"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, ok, err := r.Budget(context.Background())
	if err != nil || ok {
		t.Fatalf("corrupt budget should read as unset (ok=%v err=%v)", ok, err)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		if err := r.Insert(ctx, core.Transaction{ID: i, Description: "x", Amount: core.Money{Cents: 1},
			Date: core.NewDate(2025, 1, 1), Category: core.CategoryOther}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("stray temp file left behind: %s", e.Name())
		}
	}
}
