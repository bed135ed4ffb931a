package quote_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rts-ads/quote-engine/catalog"
	"github.com/rts-ads/quote-engine/quote"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// stubPricer returns a fixed outcome. When gate is set each call blocks
// until a value is sent on it.
type stubPricer struct {
	mu     sync.Mutex
	calls  []quote.Request
	result *quote.Result
	err    error
	gate   chan struct{}
}

func (p *stubPricer) Quote(_ context.Context, req quote.Request) (*quote.Result, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	gate, res, err := p.gate, p.result, p.err
	p.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return res, err
}

func (p *stubPricer) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *stubPricer) set(res *quote.Result, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result, p.err = res, err
}

type recorder struct {
	notes []quote.Notification
}

func (r *recorder) Notify(n quote.Notification) { r.notes = append(r.notes, n) }

func (r *recorder) count(sev quote.Severity) int {
	n := 0
	for _, note := range r.notes {
		if note.Severity == sev {
			n++
		}
	}
	return n
}

func fixedResult() *quote.Result {
	return &quote.Result{
		Lines: []quote.PricedLine{{
			TypeDisplay: "Exterior",
			Product:     "Kong",
			Code:        "K-4",
			Months:      4,
			Qty:         2,
			UnitPrice:   decimal.RequireFromString("2660"),
			LineTotal:   decimal.RequireFromString("5320"),
		}},
		SubtotalBase: decimal.RequireFromString("5320"),
		Total:        decimal.RequireFromString("5320"),
		Saved:        decimal.Zero,
		Flags:        "None",
	}
}

func newController(p quote.Pricer) (*quote.Controller, *recorder) {
	rec := &recorder{}
	return quote.NewController(cat, p, quote.WithNotifier(rec)), rec
}

func addLine(t *testing.T, c *quote.Controller, typ catalog.Type, variant string, months int, qty string) {
	t.Helper()
	require.NoError(t, c.SelectType(typ))
	require.NoError(t, c.SelectVariant(variant))
	require.NoError(t, c.SelectMonths(months))
	c.EnterQty(qty)
	require.NoError(t, c.AddLine())
}

func awaitCompletion(t *testing.T, c *quote.Controller) quote.Completion {
	t.Helper()
	select {
	case comp := <-c.Completions():
		return comp
	case <-time.After(2 * time.Second):
		t.Fatal("no completion")
		return quote.Completion{}
	}
}

// =============================================================================
// ADD / REMOVE / CLEAR
// =============================================================================

func TestController_StartsWithInstructions(t *testing.T) {
	c, _ := newController(&stubPricer{})

	v := c.View()
	assert.Equal(t, quote.SeverityInfo, v.Notice.Severity)
	assert.Equal(t, "Pick Type → Variant → Months → Qty, then Add line.", v.Notice.Text)
	assert.Equal(t, quote.StateIdle, v.Request)
	assert.Equal(t, catalog.DiscountNone, v.Discount)
}

func TestController_AddLineResetsOnlyQty(t *testing.T) {
	c, rec := newController(&stubPricer{})

	addLine(t, c, catalog.Exterior, "Kong", 4, "2")

	v := c.View()
	assert.Equal(t, catalog.Exterior, v.Type)
	assert.Equal(t, "Kong", v.Variant)
	assert.Equal(t, 4, v.Months)
	assert.Empty(t, v.Qty)
	assert.False(t, v.AddEnabled)
	assert.Equal(t, quote.Notification{
		Severity: quote.SeverityOK,
		Text:     "Added: Exterior / Kong / 4 / qty 2 (Total lines: 1)",
	}, rec.notes[len(rec.notes)-1])
}

func TestController_AddLineRejectedWarns(t *testing.T) {
	c, _ := newController(&stubPricer{})
	require.NoError(t, c.SelectType(catalog.Exterior))
	require.NoError(t, c.SelectVariant("Kong"))
	require.NoError(t, c.SelectMonths(4))

	err := c.AddLine()

	assert.ErrorIs(t, err, quote.ErrInvalidQuantity)
	assert.Empty(t, c.Items())
	assert.Equal(t, quote.Notification{Severity: quote.SeverityWarn, Text: "Quantity must be ≥ 1."}, c.View().Notice)
}

func TestController_RemoveAndClear(t *testing.T) {
	c, _ := newController(&stubPricer{})
	addLine(t, c, catalog.Exterior, "Kong", 4, "3")
	addLine(t, c, catalog.Exterior, "King Kong", 4, "4")
	assert.True(t, c.View().Cart.Hint.Eligible)

	assert.True(t, c.RemoveLine(1))
	assert.False(t, c.RemoveLine(5))

	v := c.View()
	assert.Equal(t, 1, v.Cart.Count)
	assert.Equal(t, 3, v.Cart.Hint.ExteriorQty)
	assert.False(t, v.Cart.Hint.Eligible)

	c.ClearCart()

	v = c.View()
	assert.Zero(t, v.Cart.Count)
	assert.Equal(t, quote.Notification{Severity: quote.SeverityWarn, Text: "Cleared all lines. Add new items and click Calculate."}, v.Notice)
}

func TestController_UpfrontOnInteriorWarns(t *testing.T) {
	c, _ := newController(&stubPricer{})
	require.NoError(t, c.SelectType(catalog.Interior))

	assert.ErrorIs(t, c.SelectUpfront(true), quote.ErrUpfrontHidden)
	assert.Equal(t, quote.SeverityWarn, c.View().Notice.Severity)
}

// =============================================================================
// CALCULATE
// =============================================================================

func TestController_EmptyCartNeverIssuesRequest(t *testing.T) {
	p := &stubPricer{result: fixedResult()}
	c, _ := newController(p)

	err := c.Calculate(context.Background())

	assert.ErrorIs(t, err, quote.ErrEmptyCart)
	assert.Equal(t, quote.StateIdle, c.State())
	assert.Equal(t, quote.Notification{Severity: quote.SeverityWarn, Text: "Add at least one line before calculating."}, c.View().Notice)
	select {
	case <-c.Completions():
		t.Fatal("unexpected completion")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Zero(t, p.callCount())
}

func TestController_CalculateSuccess(t *testing.T) {
	// GIVEN: one Exterior line and a pricer with a fixed answer
	p := &stubPricer{result: fixedResult()}
	c, rec := newController(p)
	addLine(t, c, catalog.Exterior, "Kong", 4, "2")
	require.NoError(t, c.SelectDiscount(catalog.DiscountNone))
	before := c.Items()

	// WHEN: the cart is submitted and completes
	require.NoError(t, c.Calculate(context.Background()))
	assert.Equal(t, quote.StatePending, c.State())
	assert.False(t, c.View().SubmitEnabled)
	c.HandleCompletion(awaitCompletion(t, c))

	// THEN: the exact result is rendered and the cart is untouched
	assert.Equal(t, quote.StateSucceeded, c.State())
	v := c.View()
	require.NotNil(t, v.Quote)
	assert.Equal(t, "$5,320.00", v.Quote.Subtotal)
	assert.Equal(t, "$5,320.00", v.Quote.Total)
	assert.Equal(t, "$0.00", v.Quote.Saved)
	assert.Equal(t, "None", v.Quote.Flags)
	assert.Equal(t, before, c.Items())
	assert.True(t, v.SubmitEnabled)
	assert.Equal(t, quote.Notification{Severity: quote.SeverityOK, Text: "Applied: None"}, rec.notes[len(rec.notes)-1])

	require.Equal(t, 1, p.callCount())
	assert.Equal(t, quote.Request{Items: before, Discount: catalog.DiscountNone, Upfront: false}, p.calls[0])
}

func TestController_EmptyFlagsShowNone(t *testing.T) {
	res := fixedResult()
	res.Flags = ""
	c, _ := newController(&stubPricer{result: res})
	addLine(t, c, catalog.Exterior, "Kong", 4, "2")

	require.NoError(t, c.Calculate(context.Background()))
	c.HandleCompletion(awaitCompletion(t, c))

	assert.Equal(t, "Applied: None", c.View().Notice.Text)
}

func TestController_FailureKeepsCartAndPreviousResult(t *testing.T) {
	// GIVEN: a successful quote already rendered
	p := &stubPricer{result: fixedResult()}
	c, rec := newController(p)
	addLine(t, c, catalog.Exterior, "Kong", 4, "2")
	require.NoError(t, c.Calculate(context.Background()))
	c.HandleCompletion(awaitCompletion(t, c))
	previous := c.View().Quote
	items := c.Items()

	// WHEN: the next request fails
	p.set(nil, errors.New("status 500: boom"))
	require.NoError(t, c.Calculate(context.Background()))
	c.HandleCompletion(awaitCompletion(t, c))

	// THEN: one failure notification, nothing else changes
	assert.Equal(t, quote.StateFailed, c.State())
	assert.Equal(t, 1, rec.count(quote.SeverityErr))
	assert.Equal(t, quote.Notification{Severity: quote.SeverityErr, Text: "Could not calculate quote. Please try again."}, c.View().Notice)
	assert.Equal(t, previous, c.View().Quote)
	assert.Equal(t, items, c.Items())

	// AND: the same cart can be retried
	p.set(fixedResult(), nil)
	require.NoError(t, c.Calculate(context.Background()))
	c.HandleCompletion(awaitCompletion(t, c))
	assert.Equal(t, quote.StateSucceeded, c.State())
}

func TestController_SubmitWhilePendingRefused(t *testing.T) {
	gate := make(chan struct{})
	p := &stubPricer{result: fixedResult(), gate: gate}
	c, _ := newController(p)
	addLine(t, c, catalog.Exterior, "Kong", 4, "2")

	require.NoError(t, c.Calculate(context.Background()))
	err := c.Calculate(context.Background())

	assert.ErrorIs(t, err, quote.ErrRequestPending)
	assert.Equal(t, quote.SeverityWarn, c.View().Notice.Severity)

	close(gate)
	c.HandleCompletion(awaitCompletion(t, c))
	assert.Equal(t, 1, p.callCount())
	assert.Equal(t, quote.StateSucceeded, c.State())
}

func TestController_EditsWhilePendingDoNotChangeRequest(t *testing.T) {
	gate := make(chan struct{})
	p := &stubPricer{result: fixedResult(), gate: gate}
	c, _ := newController(p)
	addLine(t, c, catalog.Exterior, "Kong", 4, "2")

	require.NoError(t, c.Calculate(context.Background()))
	addLine(t, c, catalog.Interior, "11x17", 3, "1")
	close(gate)
	c.HandleCompletion(awaitCompletion(t, c))

	require.Len(t, p.calls, 1)
	assert.Len(t, p.calls[0].Items, 1)
	assert.Len(t, c.Items(), 2)
}

func TestController_ClearDropsResult(t *testing.T) {
	c, _ := newController(&stubPricer{result: fixedResult()})
	addLine(t, c, catalog.Exterior, "Kong", 4, "2")
	require.NoError(t, c.Calculate(context.Background()))
	c.HandleCompletion(awaitCompletion(t, c))
	require.NotNil(t, c.View().Quote)

	c.ClearCart()

	assert.Nil(t, c.View().Quote)
}

func TestController_ClearWhilePendingLeavesNoQuote(t *testing.T) {
	// GIVEN: a request in flight
	gate := make(chan struct{})
	p := &stubPricer{result: fixedResult(), gate: gate}
	c, rec := newController(p)
	addLine(t, c, catalog.Exterior, "Kong", 4, "2")
	require.NoError(t, c.Calculate(context.Background()))

	// WHEN: the cart is cleared before the answer arrives
	c.ClearCart()
	assert.Equal(t, quote.StateIdle, c.State())
	close(gate)
	c.HandleCompletion(awaitCompletion(t, c))

	// THEN: the late answer is ignored
	v := c.View()
	assert.Zero(t, v.Cart.Count)
	assert.Nil(t, v.Quote)
	assert.Equal(t, quote.StateIdle, v.Request)
	assert.Equal(t, quote.Notification{Severity: quote.SeverityWarn, Text: "Cleared all lines. Add new items and click Calculate."}, v.Notice)
	assert.Equal(t, 1, rec.count(quote.SeverityOK), "only the add raised an ok notification")
}

func TestController_ResubmitAfterClearWhilePending(t *testing.T) {
	// GIVEN: a request in flight, then the cart cleared and refilled
	gate := make(chan struct{})
	p := &stubPricer{result: fixedResult(), gate: gate}
	c, _ := newController(p)
	addLine(t, c, catalog.Exterior, "Kong", 4, "2")
	require.NoError(t, c.Calculate(context.Background()))
	c.ClearCart()
	addLine(t, c, catalog.Interior, "11x17", 3, "1")

	// WHEN: a new request is issued and both answers arrive
	require.NoError(t, c.Calculate(context.Background()))
	close(gate)
	c.HandleCompletion(awaitCompletion(t, c))
	c.HandleCompletion(awaitCompletion(t, c))

	// THEN: only the second request's answer applies
	assert.Equal(t, quote.StateSucceeded, c.State())
	assert.NotNil(t, c.View().Quote)
	assert.Equal(t, 2, p.callCount())
}

func TestController_RemoveWhilePendingStillApplies(t *testing.T) {
	gate := make(chan struct{})
	p := &stubPricer{result: fixedResult(), gate: gate}
	c, _ := newController(p)
	addLine(t, c, catalog.Exterior, "Kong", 4, "2")
	addLine(t, c, catalog.Exterior, "King Kong", 4, "1")
	require.NoError(t, c.Calculate(context.Background()))

	require.True(t, c.RemoveLine(1))
	close(gate)
	c.HandleCompletion(awaitCompletion(t, c))

	assert.Equal(t, quote.StateSucceeded, c.State())
	assert.Len(t, c.Items(), 1)
	require.Len(t, p.calls, 1)
	assert.Len(t, p.calls[0].Items, 2, "the request keeps the cart as submitted")
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

func TestOrchestrator_StaleCompletionIgnored(t *testing.T) {
	o := quote.NewOrchestrator(&stubPricer{result: fixedResult()}, nil)
	req := quote.Request{Items: []quote.LineItem{ext("Kong", 4, 1)}}

	seq, err := o.Submit(context.Background(), req)
	require.NoError(t, err)
	comp := <-o.Completions()
	require.True(t, o.Reconcile(comp))

	// a replay of an older sequence number does nothing
	assert.False(t, o.Reconcile(quote.Completion{Seq: seq, Err: errors.New("late")}))
	assert.Equal(t, quote.StateSucceeded, o.State())
	assert.NoError(t, o.Err())
}

func TestOrchestrator_NilResultIsMalformed(t *testing.T) {
	o := quote.NewOrchestrator(&stubPricer{}, nil)

	_, err := o.Submit(context.Background(), quote.Request{Items: []quote.LineItem{ext("Kong", 4, 1)}})
	require.NoError(t, err)
	o.Reconcile(<-o.Completions())

	assert.Equal(t, quote.StateFailed, o.State())
	assert.ErrorIs(t, o.Err(), quote.ErrMalformedQuote)
	assert.Nil(t, o.Result())
}

func TestOrchestrator_DiscardWhilePendingMakesCompletionStale(t *testing.T) {
	gate := make(chan struct{})
	o := quote.NewOrchestrator(&stubPricer{result: fixedResult(), gate: gate}, nil)

	_, err := o.Submit(context.Background(), quote.Request{Items: []quote.LineItem{ext("Kong", 4, 1)}})
	require.NoError(t, err)
	o.Discard()
	close(gate)

	assert.False(t, o.Reconcile(<-o.Completions()))
	assert.Equal(t, quote.StateIdle, o.State())
	assert.Nil(t, o.Result())
}

func TestOrchestrator_DiscardWhenIdleKeepsState(t *testing.T) {
	o := quote.NewOrchestrator(&stubPricer{result: fixedResult()}, nil)
	_, err := o.Submit(context.Background(), quote.Request{Items: []quote.LineItem{ext("Kong", 4, 1)}})
	require.NoError(t, err)
	require.True(t, o.Reconcile(<-o.Completions()))

	o.Discard()

	assert.Equal(t, quote.StateSucceeded, o.State())
	assert.Nil(t, o.Result())
}
