/*
engine.go - Authoritative quote computation

PURPOSE:

	Computes per-line prices, totals and the applied discount flags for a
	set of line items. This is the only place in the system where a price
	is decided; clients only ever show a hint of bulk eligibility.

DISCOUNT FLAGS:

	Agency/PSA:  discount choice is "Agency 10%" or "PSA 10%"
	Upfront:     upfront payment selected (Exterior only)
	Six-plus:    total Exterior quantity >= catalog.BulkThreshold

TIERS:

	Exterior: one tier per active flag, capped at 3. The unit price is the
	          catalog rate for the product code at that tier.
	Interior: tier 1 with Agency/PSA, tier 0 otherwise. The unit price is
	          the per-month rate times the term.

	The base subtotal always uses tier 0, so saved = base - total.

PRECISION:

	All money is decimal.Decimal, rounded to cents at the totals.

SEE ALSO:
  - catalog/catalog.go: Rate tables
  - service.go: Records each computed quote
*/
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rts-ads/quote-engine/catalog"
)

// =============================================================================
// REQUEST / RESULT
// =============================================================================

// Item is one requested line.
type Item struct {
	Type    catalog.Type
	Variant string
	Months  int
	Qty     int
}

// Request is a full pricing request.
type Request struct {
	Items    []Item
	Discount catalog.DiscountChoice
	Upfront  bool
}

// Line is a priced line item.
type Line struct {
	TypeDisplay string
	Product     string
	Code        string
	Months      int
	Qty         int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// Result is the computed quote.
type Result struct {
	Lines        []Line
	SubtotalBase decimal.Decimal
	Total        decimal.Decimal
	Saved        decimal.Decimal
	ExteriorTier int
	InteriorTier int
	Flags        string
}

const (
	flagAgencyOrPSA = "Agency/PSA 10%"
	flagUpfront     = "Upfront 10% (Exterior)"
	flagSixPlus     = "6+ Buses 10% (Exterior)"

	// FlagsNone is the summary when no discount applied.
	FlagsNone = "None"

	interiorProduct = "Interior Cards"
	maxExteriorTier = 3
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine prices requests against a catalog.
type Engine struct {
	catalog *catalog.Catalog
}

func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Compute prices a request. It fails with an *InvalidItemError when any
// item does not resolve to a catalog rate.
func (e *Engine) Compute(req Request) (*Result, error) {
	if req.Discount == "" {
		req.Discount = catalog.DiscountNone
	}
	if _, err := catalog.ParseDiscount(string(req.Discount)); err != nil {
		return nil, err
	}

	exteriorQty := 0
	for _, it := range req.Items {
		if it.Type == catalog.Exterior {
			exteriorQty += it.Qty
		}
	}

	agency := req.Discount.IsAgencyOrPSA()
	sixPlus := exteriorQty >= catalog.BulkThreshold

	exteriorTier := 0
	for _, on := range []bool{agency, req.Upfront, sixPlus} {
		if on {
			exteriorTier++
		}
	}
	exteriorTier = min(exteriorTier, maxExteriorTier)

	interiorTier := 0
	if agency {
		interiorTier = 1
	}

	result := &Result{Lines: make([]Line, 0, len(req.Items))}
	base := decimal.Zero
	total := decimal.Zero

	for i, it := range req.Items {
		if it.Qty < 1 {
			return nil, &InvalidItemError{Index: i, Reason: "quantity must be at least 1"}
		}
		if it.Months < 1 {
			return nil, &InvalidItemError{Index: i, Reason: "months must be at least 1"}
		}
		qty := decimal.NewFromInt(int64(it.Qty))

		switch it.Type {
		case catalog.Exterior:
			product, ok := e.catalog.ExteriorProduct(it.Variant)
			if !ok {
				return nil, &InvalidItemError{Index: i, Reason: "unknown exterior product " + it.Variant}
			}
			row, ok := product.Rates[it.Months]
			if !ok {
				return nil, &InvalidItemError{Index: i, Reason: "no rate for " + product.Code(it.Months)}
			}
			unit := row[exteriorTier]
			base = base.Add(row[0].Mul(qty))
			total = total.Add(unit.Mul(qty))
			result.Lines = append(result.Lines, Line{
				TypeDisplay: string(catalog.Exterior),
				Product:     product.Name,
				Code:        product.Code(it.Months),
				Months:      it.Months,
				Qty:         it.Qty,
				UnitPrice:   unit,
				LineTotal:   unit.Mul(qty),
			})
			result.ExteriorTier = max(result.ExteriorTier, exteriorTier)

		case catalog.Interior:
			size, ok := e.catalog.InteriorSize(it.Variant)
			if !ok {
				return nil, &InvalidItemError{Index: i, Reason: "unknown interior size " + it.Variant}
			}
			months := decimal.NewFromInt(int64(it.Months))
			unit := size.Rates[interiorTier].Mul(months)
			base = base.Add(size.Rates[0].Mul(months).Mul(qty))
			total = total.Add(unit.Mul(qty))
			result.Lines = append(result.Lines, Line{
				TypeDisplay: string(catalog.Interior),
				Product:     interiorProduct,
				Code:        size.Size,
				Months:      it.Months,
				Qty:         it.Qty,
				UnitPrice:   unit,
				LineTotal:   unit.Mul(qty),
			})
			result.InteriorTier = max(result.InteriorTier, interiorTier)

		default:
			return nil, &InvalidItemError{Index: i, Reason: "unknown type " + string(it.Type)}
		}
	}

	result.SubtotalBase = base.Round(2)
	result.Total = total.Round(2)
	result.Saved = base.Sub(total).Round(2)
	result.Flags = flagsSummary(agency, req.Upfront, sixPlus)
	return result, nil
}

func flagsSummary(agency, upfront, sixPlus bool) string {
	var used []string
	if agency {
		used = append(used, flagAgencyOrPSA)
	}
	if upfront {
		used = append(used, flagUpfront)
	}
	if sixPlus {
		used = append(used, flagSixPlus)
	}
	if len(used) == 0 {
		return FlagsNone
	}
	return strings.Join(used, ", ")
}
