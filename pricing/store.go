/*
store.go - Persistence interface for quote history

PURPOSE:

	Every quote the service computes is recorded so that it can be listed
	and re-opened later. The history is write-once per quote: records are
	never updated, only pruned by age.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - store/memory/memory.go: In-memory for tests and demos

SEE ALSO:
  - service.go: Writes records
  - api/retention.go: Prunes records
*/
package pricing

import (
	"context"
	"time"
)

// Record is one computed quote with the request that produced it.
type Record struct {
	ID        string
	CreatedAt time.Time
	Request   Request
	Result    Result
}

// Store persists quote records.
type Store interface {
	// SaveQuote persists a record. IDs are unique.
	SaveQuote(ctx context.Context, rec Record) error

	// GetQuote returns the record with id, or ErrQuoteNotFound.
	GetQuote(ctx context.Context, id string) (*Record, error)

	// ListQuotes returns up to limit records, newest first.
	ListQuotes(ctx context.Context, limit int) ([]Record, error)

	// DeleteQuotesBefore removes records created before cutoff and
	// returns how many were removed.
	DeleteQuotesBefore(ctx context.Context, cutoff time.Time) (int, error)
}
