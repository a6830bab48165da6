// Package memory provides an in-process ledger store used for dry runs and
// tests. Nothing is persisted across processes.
package memory

import (
	"context"
	"fmt"
	"sync"

	"expenses/internal/core"
	"expenses/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	ledger *core.Ledger
	saves  int
}

var _ storage.Store = (*Store)(nil)

// New returns a store holding the given records in order.
func New(expenses ...core.Expense) *Store {
	l := core.NewLedger()
	l.Expenses = append(l.Expenses, expenses...)
	return &Store{ledger: l.Normalize()}
}

// NewFromFile seeds the store from a JSON ledger file. A missing file yields
// an empty store; later saves never touch the file.
func NewFromFile(path string) (*Store, error) {
	l, err := storage.NewFileStore(path, nil).Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("seed memory store: %w", err)
	}
	return &Store{ledger: l}, nil
}

// Load returns a copy of the current ledger.
func (s *Store) Load(_ context.Context) (*core.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone(), nil
}

// Save replaces the current ledger with a copy of l.
func (s *Store) Save(_ context.Context, l *core.Ledger) error {
	if l == nil {
		l = core.NewLedger()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = l.Clone().Normalize()
	s.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
