// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	runs  []generic.Run
	byID  map[generic.RunID]int
	byKey map[string]int
}

func NewMemory() *Memory {
	return &Memory{
		byID:  make(map[generic.RunID]int),
		byKey: make(map[string]int),
	}
}

// Append adds a single run. Append-only.
func (m *Memory) Append(_ context.Context, run generic.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if run.IdempotencyKey != "" {
		if _, ok := m.byKey[run.IdempotencyKey]; ok {
			return generic.ErrDuplicateIdempotencyKey
		}
	}

	m.runs = append(m.runs, run)
	i := len(m.runs) - 1
	m.byID[run.ID] = i
	if run.IdempotencyKey != "" {
		m.byKey[run.IdempotencyKey] = i
	}
	return nil
}

func (m *Memory) Get(_ context.Context, id generic.RunID) (*generic.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return nil, generic.ErrRunNotFound
	}
	run := m.runs[i]
	return &run, nil
}

func (m *Memory) FindByKey(_ context.Context, key string) (*generic.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byKey[key]
	if !ok {
		return nil, nil
	}
	run := m.runs[i]
	return &run, nil
}

// List returns runs newest first.
func (m *Memory) List(_ context.Context, limit int) ([]generic.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.runs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]generic.Run, 0, n)
	for i := len(m.runs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

var _ generic.Store = (*Memory)(nil)
