// Package memory provides an in-memory ledger repository, used as the
// zero-configuration default backend and by tests.
package memory

import (
	"context"
	"sync"

	"tracker/internal/core"
)

type Repository struct {
	mu        sync.Mutex
	items     []core.Transaction
	budget    core.Money
	hasBudget bool
}

func New() *Repository {
	return &Repository{}
}

// Seed pre-populates the repository, replacing any prior contents.
func (r *Repository) Seed(items []core.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]core.Transaction(nil), items...)
}

func (r *Repository) Load(_ context.Context) ([]core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Transaction, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *Repository) Insert(_ context.Context, t core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, t)
	return nil
}

func (r *Repository) Remove(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.items[:0]
	for _, t := range r.items {
		if t.ID != id {
			next = append(next, t)
		}
	}
	r.items = next
	return nil
}

func (r *Repository) Budget(_ context.Context) (core.Money, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.budget, r.hasBudget, nil
}

func (r *Repository) SetBudget(_ context.Context, m core.Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.budget = m
	r.hasBudget = true
	return nil
}

func (r *Repository) Close() error { return nil }
