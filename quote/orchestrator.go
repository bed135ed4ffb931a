/*
orchestrator.go - Quote request lifecycle

STATES:

	Idle ──submit──▶ Pending ──ok──▶ Succeeded ──submit──▶ Pending
	                    │
	                    └──fail──▶ Failed ──submit──▶ Pending

	Submit with an empty cart is refused and leaves the state alone.
	Submit while Pending is refused with ErrRequestPending.
	Discard while Pending returns to Idle and makes the in-flight
	completion stale.

COMPLETIONS:

	The pricing call runs on its own goroutine and reports back through a
	channel. Each submit gets a sequence number; a completion whose number
	is not the latest issued is dropped. There is no retry and no
	cancellation: a request runs until the Pricer returns.
*/
package quote

import (
	"context"

	"go.uber.org/zap"
)

// RequestState is the orchestrator's lifecycle state.
type RequestState string

const (
	StateIdle      RequestState = "idle"
	StatePending   RequestState = "pending"
	StateSucceeded RequestState = "succeeded"
	StateFailed    RequestState = "failed"
)

// Completion is the outcome of one pricing request.
type Completion struct {
	Seq    uint64
	Result *Result
	Err    error
}

// Orchestrator runs one request/response exchange at a time. Apart from
// the request goroutine, it is only touched by its owner.
type Orchestrator struct {
	pricer Pricer
	logger *zap.Logger

	state       RequestState
	seq         uint64
	result      *Result
	lastErr     error
	completions chan Completion
}

func NewOrchestrator(p Pricer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		pricer:      p,
		logger:      logger,
		state:       StateIdle,
		completions: make(chan Completion, 1),
	}
}

// Submit issues req to the Pricer and moves to Pending. It returns the
// sequence number the completion will carry.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (uint64, error) {
	if len(req.Items) == 0 {
		return 0, ErrEmptyCart
	}
	if o.state == StatePending {
		return 0, ErrRequestPending
	}

	o.seq++
	seq := o.seq
	o.state = StatePending
	o.logger.Debug("quote request issued", zap.Uint64("seq", seq), zap.Int("items", len(req.Items)))

	go func() {
		res, err := o.pricer.Quote(ctx, req)
		o.completions <- Completion{Seq: seq, Result: res, Err: err}
	}()
	return seq, nil
}

// Completions delivers request outcomes. The owner passes each one to
// Reconcile.
func (o *Orchestrator) Completions() <-chan Completion {
	return o.completions
}

// Reconcile folds a completion into the state and reports whether it was
// applied. A failure keeps the previous result.
func (o *Orchestrator) Reconcile(c Completion) bool {
	if o.state != StatePending || c.Seq != o.seq {
		o.logger.Debug("stale quote completion dropped", zap.Uint64("seq", c.Seq), zap.Uint64("latest", o.seq))
		return false
	}

	err := c.Err
	if err == nil && c.Result == nil {
		err = ErrMalformedQuote
	}
	if err != nil {
		o.state = StateFailed
		o.lastErr = err
		o.logger.Warn("quote request failed", zap.Uint64("seq", c.Seq), zap.Error(err))
		return true
	}

	o.state = StateSucceeded
	o.result = c.Result
	o.lastErr = nil
	o.logger.Debug("quote request succeeded", zap.Uint64("seq", c.Seq), zap.Int("lines", len(c.Result.Lines)))
	return true
}

func (o *Orchestrator) State() RequestState { return o.state }

// Result is the last successful result, or nil.
func (o *Orchestrator) Result() *Result { return o.result }

// Err is the error of the last failed request, or nil.
func (o *Orchestrator) Err() error { return o.lastErr }

// Discard drops the held result. An outstanding request is not
// cancelled, but its completion becomes stale and the state returns to
// Idle.
func (o *Orchestrator) Discard() {
	o.result = nil
	if o.state == StatePending {
		o.seq++
		o.state = StateIdle
		o.logger.Debug("pending quote request discarded", zap.Uint64("seq", o.seq))
	}
}
