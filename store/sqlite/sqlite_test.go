package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rts-ads/quote-engine/catalog"
	"github.com/rts-ads/quote-engine/pricing"
	"github.com/rts-ads/quote-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func computed(t *testing.T, id string, at time.Time) pricing.Record {
	req := pricing.Request{
		Items: []pricing.Item{
			{Type: catalog.Exterior, Variant: "Full Wrap", Months: 4, Qty: 2},
			{Type: catalog.Interior, Variant: "11x17", Months: 3, Qty: 1},
		},
		Discount: catalog.DiscountAgency,
		Upfront:  true,
	}
	res, err := pricing.NewEngine(catalog.MustDefault()).Compute(req)
	require.NoError(t, err)
	return pricing.Record{ID: id, CreatedAt: at, Request: req, Result: *res}
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, time.May, 4, 9, 30, 0, 123, time.UTC)

	want := computed(t, "q-1", at)
	require.NoError(t, store.SaveQuote(ctx, want))

	got, err := store.GetQuote(ctx, "q-1")
	require.NoError(t, err)

	assert.True(t, at.Equal(got.CreatedAt), "created_at round trips to the nanosecond")
	assert.Equal(t, want.Request, got.Request)
	assert.Equal(t, want.Result.Flags, got.Result.Flags)
	assert.Equal(t, want.Result.ExteriorTier, got.Result.ExteriorTier)
	assert.True(t, want.Result.Total.Equal(got.Result.Total))
	assert.True(t, want.Result.Saved.Equal(got.Result.Saved))

	require.Len(t, got.Result.Lines, 2)
	assert.Equal(t, "FW-4", got.Result.Lines[0].Code)
	assert.Equal(t, "11x17", got.Result.Lines[1].Code)
	assert.True(t, got.Result.Lines[0].UnitPrice.Equal(decimal.NewFromInt(3600)), "tier 2 full wrap price")
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetQuote(context.Background(), "missing")
	assert.ErrorIs(t, err, pricing.ErrQuoteNotFound)
}

func TestStore_DuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveQuote(ctx, computed(t, "q-1", time.Now())))
	err := store.SaveQuote(ctx, computed(t, "q-1", time.Now()))
	assert.Error(t, err)

	list, err := store.ListQuotes(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1, "failed save must not leave partial rows")
}

// =============================================================================
// LISTING AND RETENTION
// =============================================================================

func TestStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.May, 4, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveQuote(ctx, computed(t, "old", base)))
	require.NoError(t, store.SaveQuote(ctx, computed(t, "new", base.Add(time.Minute))))
	require.NoError(t, store.SaveQuote(ctx, computed(t, "mid", base.Add(time.Second))))

	list, err := store.ListQuotes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Equal(t, "old", list[2].ID)

	list, err = store.ListQuotes(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_DeleteQuotesBefore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveQuote(ctx, computed(t, "a", base)))
	require.NoError(t, store.SaveQuote(ctx, computed(t, "b", base.AddDate(0, 0, 10))))

	n, err := store.DeleteQuotesBefore(ctx, base.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.GetQuote(ctx, "a")
	assert.ErrorIs(t, err, pricing.ErrQuoteNotFound)

	_, err = store.GetQuote(ctx, "b")
	assert.NoError(t, err)
}

func TestStore_Reset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveQuote(ctx, computed(t, "a", time.Now())))
	require.NoError(t, store.Reset(ctx))

	list, err := store.ListQuotes(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
