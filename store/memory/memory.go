// Package memory provides an in-memory quote history store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rts-ads/quote-engine/pricing"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu      sync.RWMutex
	records map[string]pricing.Record
	order   []string // ids sorted by CreatedAt
}

var _ pricing.Store = (*Store)(nil)

func New() *Store {
	return &Store{records: make(map[string]pricing.Record)}
}

func (m *Store) SaveQuote(_ context.Context, rec pricing.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[rec.ID]; ok {
		return fmt.Errorf("duplicate quote id %s", rec.ID)
	}
	m.records[rec.ID] = rec

	// Binary search for insertion point so order stays sorted by time.
	i := sort.Search(len(m.order), func(i int) bool {
		return m.records[m.order[i]].CreatedAt.After(rec.CreatedAt)
	})
	m.order = append(m.order, "")
	copy(m.order[i+1:], m.order[i:])
	m.order[i] = rec.ID
	return nil
}

func (m *Store) GetQuote(_ context.Context, id string) (*pricing.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, pricing.ErrQuoteNotFound
	}
	return &rec, nil
}

func (m *Store) ListQuotes(_ context.Context, limit int) ([]pricing.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []pricing.Record
	for i := len(m.order) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		result = append(result, m.records[m.order[i]])
	}
	return result, nil
}

func (m *Store) DeleteQuotesBefore(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := sort.Search(len(m.order), func(i int) bool {
		return !m.records[m.order[i]].CreatedAt.Before(cutoff)
	})
	for _, id := range m.order[:n] {
		delete(m.records, id)
	}
	m.order = append([]string(nil), m.order[n:]...)
	return n, nil
}
