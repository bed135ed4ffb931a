/*
Package sqlite provides a SQLite-backed quote history store.

PURPOSE:

	Implements pricing.Store using SQLite. Every quote computed by the
	pricing service is written here with its request items and its priced
	lines, so it can be listed and re-opened later.

KEY TABLES:

	quotes:       One row per computed quote (options, totals, flags)
	quote_items:  Requested line items, ordered by position
	quote_lines:  Priced lines, ordered by position

	Item and line rows cascade on quote deletion.

MONEY:

	Amounts are stored as decimal strings (TEXT), never REAL, so a stored
	quote re-renders to the exact cents it was computed with.

WAL MODE:

	SQLite is opened with WAL (Write-Ahead Logging):
	- Readers don't block the writer
	- Better crash recovery

USAGE:

	store, err := sqlite.New("./data/quotes.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

SEE ALSO:
  - pricing/store.go: Interface definition
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rts-ads/quote-engine/catalog"
	"github.com/rts-ads/quote-engine/pricing"
)

// Fixed-width layout so created_at sorts lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store implements pricing.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ pricing.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: an in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quotes (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		discount_choice TEXT NOT NULL,
		upfront_selected INTEGER NOT NULL DEFAULT 0,
		subtotal_base TEXT NOT NULL,
		total TEXT NOT NULL,
		saved TEXT NOT NULL,
		exterior_tier INTEGER NOT NULL DEFAULT 0,
		interior_tier INTEGER NOT NULL DEFAULT 0,
		flags TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_quotes_created_at
		ON quotes(created_at DESC);

	CREATE TABLE IF NOT EXISTS quote_items (
		quote_id TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		type TEXT NOT NULL,
		variant TEXT NOT NULL,
		months INTEGER NOT NULL,
		qty INTEGER NOT NULL,
		PRIMARY KEY (quote_id, position)
	);

	CREATE TABLE IF NOT EXISTS quote_lines (
		quote_id TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		type_display TEXT NOT NULL,
		product TEXT NOT NULL,
		code TEXT NOT NULL,
		months INTEGER NOT NULL,
		qty INTEGER NOT NULL,
		unit_price TEXT NOT NULL,
		line_total TEXT NOT NULL,
		PRIMARY KEY (quote_id, position)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// QUOTE STORE (pricing.Store interface)
// =============================================================================

// SaveQuote writes a quote with its items and lines atomically.
func (s *Store) SaveQuote(ctx context.Context, rec pricing.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res := rec.Result
	_, err = tx.ExecContext(ctx, `
		INSERT INTO quotes
			(id, created_at, discount_choice, upfront_selected, subtotal_base, total, saved,
			 exterior_tier, interior_tier, flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(timeLayout),
		string(rec.Request.Discount),
		rec.Request.Upfront,
		res.SubtotalBase.String(),
		res.Total.String(),
		res.Saved.String(),
		res.ExteriorTier,
		res.InteriorTier,
		res.Flags,
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("duplicate quote id %s: %w", rec.ID, err)
		}
		return fmt.Errorf("failed to insert quote: %w", err)
	}

	for i, it := range rec.Request.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO quote_items (quote_id, position, type, variant, months, qty)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, i, string(it.Type), it.Variant, it.Months, it.Qty)
		if err != nil {
			return fmt.Errorf("failed to insert quote item: %w", err)
		}
	}

	for i, l := range res.Lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO quote_lines
				(quote_id, position, type_display, product, code, months, qty, unit_price, line_total)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, i, l.TypeDisplay, l.Product, l.Code, l.Months, l.Qty,
			l.UnitPrice.String(), l.LineTotal.String())
		if err != nil {
			return fmt.Errorf("failed to insert quote line: %w", err)
		}
	}

	return tx.Commit()
}

// GetQuote returns a quote with its items and lines.
func (s *Store) GetQuote(ctx context.Context, id string) (*pricing.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getQuote(ctx, id)
}

func (s *Store) getQuote(ctx context.Context, id string) (*pricing.Record, error) {
	var (
		rec                    pricing.Record
		createdAt, discount    string
		subtotal, total, saved string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, discount_choice, upfront_selected, subtotal_base, total, saved,
		       exterior_tier, interior_tier, flags
		FROM quotes WHERE id = ?`, id).Scan(
		&rec.ID, &createdAt, &discount, &rec.Request.Upfront, &subtotal, &total, &saved,
		&rec.Result.ExteriorTier, &rec.Result.InteriorTier, &rec.Result.Flags,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pricing.ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	rec.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	rec.Request.Discount = catalog.DiscountChoice(discount)
	rec.Result.SubtotalBase = parseDecimal(subtotal)
	rec.Result.Total = parseDecimal(total)
	rec.Result.Saved = parseDecimal(saved)

	if rec.Request.Items, err = s.loadItems(ctx, id); err != nil {
		return nil, err
	}
	if rec.Result.Lines, err = s.loadLines(ctx, id); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) loadItems(ctx context.Context, id string) ([]pricing.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, variant, months, qty FROM quote_items
		WHERE quote_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote items: %w", err)
	}
	defer rows.Close()

	var items []pricing.Item
	for rows.Next() {
		var it pricing.Item
		var typ string
		if err := rows.Scan(&typ, &it.Variant, &it.Months, &it.Qty); err != nil {
			return nil, err
		}
		it.Type = catalog.Type(typ)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) loadLines(ctx context.Context, id string) ([]pricing.Line, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type_display, product, code, months, qty, unit_price, line_total FROM quote_lines
		WHERE quote_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote lines: %w", err)
	}
	defer rows.Close()

	var lines []pricing.Line
	for rows.Next() {
		var l pricing.Line
		var unit, lineTotal string
		if err := rows.Scan(&l.TypeDisplay, &l.Product, &l.Code, &l.Months, &l.Qty, &unit, &lineTotal); err != nil {
			return nil, err
		}
		l.UnitPrice = parseDecimal(unit)
		l.LineTotal = parseDecimal(lineTotal)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListQuotes returns up to limit quotes, newest first. limit <= 0 means all.
func (s *Store) ListQuotes(ctx context.Context, limit int) ([]pricing.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM quotes ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]pricing.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.getQuote(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// DeleteQuotesBefore removes quotes created before cutoff.
func (s *Store) DeleteQuotesBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM quotes WHERE created_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to delete quotes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Reset clears all data (for testing).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM quotes`)
	return err
}

// Helper functions

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isConstraintError(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
