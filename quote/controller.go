/*
controller.go - Event handlers for the quote screen

PURPOSE:

	Controller owns the Selection, Cart and Orchestrator and turns UI
	events into state changes plus at most one notification each. A front
	end calls the event methods, reads View() after each one, and forwards
	every value received from Completions() to HandleCompletion.

MESSAGES:

	Add ok:       Added: <label> (Total lines: <n>)
	Clear:        Cleared all lines. Add new items and click Calculate.
	Empty cart:   Add at least one line before calculating.
	Submit:       Calculating…
	Quote ok:     Applied: <flags>
	Quote failed: Could not calculate quote. Please try again.
*/
package quote

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rts-ads/quote-engine/catalog"
)

const (
	msgStart        = "Pick Type → Variant → Months → Qty, then Add line."
	msgCleared      = "Cleared all lines. Add new items and click Calculate."
	msgEmptyCart    = "Add at least one line before calculating."
	msgCalculating  = "Calculating…"
	msgAlreadyBusy  = "A quote is already being calculated."
	msgQuoteFailed  = "Could not calculate quote. Please try again."
	msgUpfrontNoUse = "Upfront payment only applies to Exterior."
)

// Controller is not safe for concurrent use; see the package doc.
type Controller struct {
	selection *Selection
	validator Validator
	cart      *Cart
	orch      *Orchestrator

	discount catalog.DiscountChoice
	notice   Notification
	notifier Notifier
	logger   *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNotifier forwards every notification to n as it is raised.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func NewController(p catalog.Provider, pricer Pricer, opts ...Option) *Controller {
	c := &Controller{
		selection: NewSelection(p),
		validator: NewValidator(p),
		cart:      NewCart(),
		discount:  catalog.DiscountNone,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.orch = NewOrchestrator(pricer, c.logger)
	c.notify(SeverityInfo, msgStart)
	return c
}

func (c *Controller) notify(sev Severity, text string) {
	c.notice = Notification{Severity: sev, Text: text}
	if c.notifier != nil {
		c.notifier.Notify(c.notice)
	}
}

// =============================================================================
// SELECTION EVENTS
// =============================================================================

func (c *Controller) SelectType(t catalog.Type) error {
	if err := c.selection.SetType(t); err != nil {
		c.notify(SeverityWarn, "Unknown type: "+string(t))
		return err
	}
	return nil
}

func (c *Controller) SelectVariant(v string) error {
	err := c.selection.SetVariant(v)
	switch {
	case errors.Is(err, ErrNoTypeChosen):
		c.notify(SeverityWarn, validationMessages[MissingType])
	case err != nil:
		c.notify(SeverityWarn, fmt.Sprintf("%q is not offered for %s.", v, c.selection.Type()))
	}
	return err
}

func (c *Controller) SelectMonths(m int) error {
	err := c.selection.SetMonths(m)
	switch {
	case errors.Is(err, ErrNoVariantChosen):
		c.notify(SeverityWarn, validationMessages[MissingVariant])
	case err != nil:
		c.notify(SeverityWarn, fmt.Sprintf("%d months is not offered for %s.", m, c.selection.Variant()))
	}
	return err
}

func (c *Controller) EnterQty(raw string) {
	c.selection.SetQty(raw)
}

// SelectDiscount sets the quote-wide discount choice.
func (c *Controller) SelectDiscount(d catalog.DiscountChoice) error {
	parsed, err := catalog.ParseDiscount(string(d))
	if err != nil {
		c.notify(SeverityWarn, "Unknown discount: "+string(d))
		return err
	}
	c.discount = parsed
	return nil
}

func (c *Controller) SelectUpfront(on bool) error {
	if err := c.selection.SetUpfront(on); err != nil {
		c.notify(SeverityWarn, msgUpfrontNoUse)
		return err
	}
	return nil
}

// =============================================================================
// CART EVENTS
// =============================================================================

// AddLine validates the selection and commits it. On success only the
// quantity is cleared so the same product can be added again quickly.
func (c *Controller) AddLine() error {
	item, err := c.validator.Validate(c.selection.Type(), c.selection.Variant(), c.selection.Months(), c.selection.Qty())
	if err != nil {
		c.notify(SeverityWarn, err.Error())
		return err
	}
	c.cart.Append(item)
	c.selection.SetQty("")
	c.notify(SeverityOK, fmt.Sprintf("Added: %s (Total lines: %d)", item.Label(), c.cart.Len()))
	return nil
}

// RemoveLine removes the line at index i. Out of range does nothing.
func (c *Controller) RemoveLine(i int) bool {
	item, ok := c.cart.RemoveAt(i)
	if !ok {
		return false
	}
	c.notify(SeverityInfo, fmt.Sprintf("Removed: %s (Total lines: %d)", item.Label(), c.cart.Len()))
	return true
}

// ClearCart empties the cart and drops the rendered result. A request
// still in flight is left to finish, but its answer is ignored.
func (c *Controller) ClearCart() {
	c.cart.Clear()
	c.orch.Discard()
	c.notify(SeverityWarn, msgCleared)
}

// =============================================================================
// QUOTE EVENTS
// =============================================================================

// Calculate submits the cart. The request is built from a snapshot, so
// cart edits made while it is in flight do not change it.
func (c *Controller) Calculate(ctx context.Context) error {
	req := Request{
		Items:    c.cart.Items(),
		Discount: c.discount,
		Upfront:  c.selection.Upfront(),
	}
	_, err := c.orch.Submit(ctx, req)
	switch {
	case errors.Is(err, ErrEmptyCart):
		c.notify(SeverityWarn, msgEmptyCart)
		return err
	case errors.Is(err, ErrRequestPending):
		c.notify(SeverityWarn, msgAlreadyBusy)
		return err
	case err != nil:
		return err
	}
	c.notify(SeverityInfo, msgCalculating)
	return nil
}

func (c *Controller) Completions() <-chan Completion {
	return c.orch.Completions()
}

// HandleCompletion applies a pricing outcome. Stale completions are
// ignored without a notification.
func (c *Controller) HandleCompletion(comp Completion) {
	if !c.orch.Reconcile(comp) {
		return
	}
	if c.orch.State() == StateFailed {
		c.notify(SeverityErr, msgQuoteFailed)
		return
	}
	c.notify(SeverityOK, "Applied: "+FlagsOrNone(c.orch.Result().Flags))
}

// =============================================================================
// QUERIES
// =============================================================================

func (c *Controller) Items() []LineItem { return c.cart.Items() }

func (c *Controller) State() RequestState { return c.orch.State() }

func (c *Controller) Result() *Result { return c.orch.Result() }

// View renders the whole screen from current state.
func (c *Controller) View() ViewModel {
	pending := c.orch.State() == StatePending
	return ViewModel{
		Type:          c.selection.Type(),
		Variant:       c.selection.Variant(),
		Months:        c.selection.Months(),
		Qty:           c.selection.Qty(),
		Upfront:       c.selection.Upfront(),
		Discount:      c.discount,
		Options:       c.selection.Options(),
		AddEnabled:    c.selection.CanAdd(),
		SubmitEnabled: !pending,
		Request:       c.orch.State(),
		Cart:          RenderCart(c.cart),
		Quote:         RenderQuote(c.orch.Result()),
		Notice:        c.notice,
	}
}
