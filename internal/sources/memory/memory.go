// Package memory is an in-process row source, used for local runs and tests.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"govis/internal/core"
	"govis/internal/sources"
)

var (
	_ sources.RowSource     = (*Store)(nil)
	_ sources.QueryExecutor = (*Store)(nil)
	_ sources.Pinger        = (*Store)(nil)
)

type Store struct {
	mu           sync.RWMutex
	expenditures []core.Row
	expenses     []core.Row
}

// Seed is the on-disk layout read by NewFromFile.
type Seed struct {
	Expenditures []core.Row `json:"expenditures"`
	Expenses     []core.Row `json:"expenses"`
}

func New(expenditures, expenses []core.Row) *Store {
	s := &Store{}
	s.Replace(expenditures, expenses)
	return s
}

// NewFromFile loads a JSON seed. An empty path yields an empty store.
func NewFromFile(path string) (*Store, error) {
	if path == "" {
		return New(nil, nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var seed Seed
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return New(seed.Expenditures, seed.Expenses), nil
}

// Replace swaps both collections atomically.
func (s *Store) Replace(expenditures, expenses []core.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenditures = cloneRows(expenditures)
	s.expenses = cloneRows(expenses)
}

func (s *Store) ExpenditureRows(ctx context.Context) ([]core.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.Unavailable("read memory expenditures", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRows(s.expenditures), nil
}

func (s *Store) ExpenseRows(ctx context.Context) ([]core.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.Unavailable("read memory expenses", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRows(s.expenses), nil
}

// Query is not supported: the store has no SQL engine.
func (s *Store) Query(context.Context, string, int) (sources.QueryResult, error) {
	return sources.QueryResult{}, core.ErrQueryUnsupported
}

func (s *Store) Ping(context.Context) error { return nil }

func cloneRows(in []core.Row) []core.Row {
	out := make([]core.Row, len(in))
	for i, r := range in {
		c := make(core.Row, len(r))
		for k, v := range r {
			c[k] = v
		}
		out[i] = c
	}
	return out
}
