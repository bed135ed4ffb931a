/*
Package quote implements the quote-building controller.

PURPOSE:

	A user assembles a multi-line order by picking Type → Variant → Months,
	entering a quantity, and adding the line to a cart. The cart is then
	submitted to the pricing service, which returns authoritative totals
	and the discounts it applied.

COMPONENTS:

	Selection:     Cascading form fields and the options each one offers
	Validator:     Authoritative check run on every add attempt
	Cart:          Ordered collection of committed line items
	Hint:          Client-side preview of bulk-discount eligibility
	Orchestrator:  One request/response exchange with the pricing service
	Controller:    Wires the above to UI events and notifications

CONCURRENCY:

	A Controller is owned by a single goroutine. The only asynchronous
	step is the pricing request; its outcome comes back as a Completion on
	Completions() and must be handed to HandleCompletion by the owner, so
	all state changes still happen on the owning goroutine.

SEE ALSO:
  - catalog/catalog.go: Provider consumed by Selection and Validator
  - api/client.go: HTTP Pricer
*/
package quote

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rts-ads/quote-engine/catalog"
)

// =============================================================================
// LINE ITEM
// =============================================================================

// LineItem is one committed cart entry. It is a value snapshot of the
// selection at commit time and is never mutated afterwards.
type LineItem struct {
	Type    catalog.Type
	Variant string
	Months  int
	Qty     int
}

// Label renders the item the way the cart lists it.
func (l LineItem) Label() string {
	return fmt.Sprintf("%s / %s / %d / qty %d", l.Type, l.Variant, l.Months, l.Qty)
}

// =============================================================================
// PRICING BOUNDARY
// =============================================================================

// Request is the immutable payload sent to the pricing service.
type Request struct {
	Items    []LineItem
	Discount catalog.DiscountChoice
	Upfront  bool
}

// PricedLine is one line of a pricing result.
type PricedLine struct {
	TypeDisplay string
	Product     string
	Code        string
	Months      int
	Qty         int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// Result is the pricing service's answer. A new Result replaces the
// previous one wholesale.
type Result struct {
	Lines        []PricedLine
	SubtotalBase decimal.Decimal
	Total        decimal.Decimal
	Saved        decimal.Decimal
	Flags        string
}

// Pricer is the pricing service as seen by the controller.
type Pricer interface {
	Quote(ctx context.Context, req Request) (*Result, error)
}
