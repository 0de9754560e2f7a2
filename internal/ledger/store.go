// Package ledger owns the canonical transaction list. The Store is the
// only writer; every other component observes snapshots or derived
// aggregates. Each accepted mutation is persisted through the injected
// Repository and announced on the optional change feed.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tracker/internal/core"
)

// ErrUnknownOp reports a mutation intent the reducer does not recognize.
// This is a programming error on the caller's side, never silently
// re-persisted state.
var ErrUnknownOp = errors.New("unknown ledger operation")

// Repository is the persistence port the store writes through. A failed
// write is logged and absorbed: the in-memory list stays authoritative for
// the rest of the session.
type Repository interface {
	// Load returns the persisted transaction list. Implementations must
	// degrade corrupt or missing state to an empty list, not an error.
	Load(ctx context.Context) ([]core.Transaction, error)
	Insert(ctx context.Context, t core.Transaction) error
	Remove(ctx context.Context, id int64) error
	// Budget returns the persisted monthly budget and whether one is set.
	Budget(ctx context.Context) (core.Money, bool, error)
	SetBudget(ctx context.Context, m core.Money) error
	Close() error
}

// Notifier publishes ledger change events. Publish failures must not fail
// the mutation; the store logs and continues.
type Notifier interface {
	PublishLedgerEvent(ctx context.Context, op string, id int64) error
}

// Change feed operation labels.
const (
	OpAdd    = "add"
	OpDelete = "delete"
	OpBudget = "budget"
)

// Store holds the authoritative in-memory transaction list.
type Store struct {
	mu        sync.Mutex
	list      []core.Transaction
	budget    core.Money
	hasBudget bool
	lastID    int64

	repo     Repository
	notifier Notifier
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier attaches a change-feed publisher.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithClock overrides the ID clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore loads the persisted snapshot and returns a ready store. An
// unreadable snapshot is logged and treated as empty; construction only
// fails on a nil repository.
func NewStore(ctx context.Context, repo Repository, opts ...Option) (*Store, error) {
	if repo == nil {
		return nil, errors.New("nil repository")
	}
	s := &Store{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	list, err := repo.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load persisted ledger, starting empty", "error", err)
		list = nil
	}
	s.list = list
	for _, t := range list {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}

	if budget, ok, err := repo.Budget(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to load persisted budget", "error", err)
	} else if ok {
		s.budget = budget
		s.hasBudget = true
	}

	slog.InfoContext(ctx, "Ledger loaded", "transactions", len(s.list), "budget_set", s.hasBudget)
	return s, nil
}

// Add appends a transaction built from the draft, preserving insertion
// order, and returns the stored transaction. The category is normalized
// here, at the single write boundary. Input validation is the form
// layer's job and is not repeated.
func (s *Store) Add(ctx context.Context, d core.Draft) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := core.Transaction{
		ID:          s.nextID(),
		Description: d.Description,
		Amount:      d.Amount,
		Date:        d.Date,
		Category:    core.NormalizeCategory(d.Category),
	}

	next, err := reduce(s.list, operation{label: OpAdd, txn: t})
	if err != nil {
		return core.Transaction{}, err
	}
	s.list = next

	if err := s.repo.Insert(ctx, t); err != nil {
		// In-memory list stays authoritative; loss is bounded to a restart.
		slog.ErrorContext(ctx, "Persist failed after add", "id", t.ID, "error", err)
	}
	s.notify(ctx, OpAdd, t.ID)

	slog.InfoContext(ctx, "Transaction added",
		"id", t.ID,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String(),
		"category", t.Category)
	return t, nil
}

// Delete removes the transaction with the given id. A missing id leaves
// the list unchanged and reports found=false.
func (s *Store) Delete(ctx context.Context, id int64) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.list)
	next, err := reduce(s.list, operation{label: OpDelete, id: id})
	if err != nil {
		return false, err
	}
	s.list = next
	found = len(next) < before

	if err := s.repo.Remove(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Persist failed after delete", "id", id, "error", err)
	}
	if found {
		s.notify(ctx, OpDelete, id)
		slog.InfoContext(ctx, "Transaction deleted", "id", id)
	} else {
		slog.DebugContext(ctx, "Delete of unknown transaction ignored", "id", id)
	}
	return found, nil
}

// List returns a defensive copy of the current snapshot in insertion
// order.
func (s *Store) List() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.list))
	copy(out, s.list)
	return out
}

// Budget returns the monthly budget and whether one has been set.
func (s *Store) Budget() (core.Money, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget, s.hasBudget
}

// SetBudget stores a non-negative monthly budget.
func (s *Store) SetBudget(ctx context.Context, m core.Money) error {
	if m.Cents < 0 {
		return core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = m
	s.hasBudget = true
	if err := s.repo.SetBudget(ctx, m); err != nil {
		slog.ErrorContext(ctx, "Persist failed after budget update", "budget_cents", m.Cents, "error", err)
	}
	s.notify(ctx, OpBudget, 0)
	slog.InfoContext(ctx, "Budget updated", "budget_cents", m.Cents)
	return nil
}

// Close releases the underlying repository.
func (s *Store) Close() error {
	return s.repo.Close()
}

// nextID derives a unique, monotonically increasing ID from the creation
// time in milliseconds. Two adds within the same millisecond bump past the
// last issued ID. Callers must hold s.mu.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) notify(ctx context.Context, op string, id int64) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishLedgerEvent(ctx, op, id); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event", "op", op, "id", id, "error", err)
	}
}

// operation is a mutation intent handed to the reducer.
type operation struct {
	label string
	txn   core.Transaction // OpAdd
	id    int64            // OpDelete
}

// reduce applies one operation to a state snapshot and returns the next
// state. It is pure: the input slice is never modified.
func reduce(state []core.Transaction, op operation) ([]core.Transaction, error) {
	switch op.label {
	case OpAdd:
		next := make([]core.Transaction, 0, len(state)+1)
		next = append(next, state...)
		next = append(next, op.txn)
		return next, nil
	case OpDelete:
		next := make([]core.Transaction, 0, len(state))
		for _, t := range state {
			if t.ID != op.id {
				next = append(next, t)
			}
		}
		return next, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, op.label)
	}
}
