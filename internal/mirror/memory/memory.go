// Package memory provides an in-memory mirror appender for tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tracker/internal/core"
)

type Mirror struct {
	mu   sync.Mutex
	rows []core.Transaction
	fail error
}

func New() *Mirror {
	return &Mirror{}
}

// FailWith makes subsequent appends return err. Pass nil to recover.
func (m *Mirror) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *Mirror) Append(_ context.Context, t core.Transaction) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return "", m.fail
	}
	m.rows = append(m.rows, t)
	return fmt.Sprintf("mem:%d", len(m.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (m *Mirror) Rows() []core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Transaction, len(m.rows))
	copy(out, m.rows)
	return out
}
