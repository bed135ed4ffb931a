/*
Package catalog provides the static product catalog for transit advertising quotes.

PURPOSE:

	The catalog is the read-only source of truth for what can be put on a
	quote: the product categories (Types), the Variants offered under each
	Type, the month terms each Variant allows, and the rate tables used by
	the pricing engine. Nothing in this package mutates after Load().

KEY CONCEPTS IN THIS FILE (types.go):
  - Type: closed set of top-level categories (Exterior, Interior)
  - TypeInfo: per-Type metadata driving the selection form
  - DiscountChoice: closed set of customer discount options

TYPE RULES:

	Exterior: Variants are bus products ("Full Wrap", "Kong", ...). Terms
	          come from the catalog per product. Upfront payment applies.
	Interior: Variants are card sizes ("11x17", ...). Terms are free; the
	          form offers the fixed quick picks {1,2,3,4,6,8,12}.

SEE ALSO:
  - catalog.go: Catalog and the Provider interface
  - load.go: CUE loading and validation
  - pricing/engine.go: Consumer of the rate tables
*/
package catalog

import (
	"fmt"
	"strings"
)

// =============================================================================
// TYPE - Top-level product category
// =============================================================================

// Type is the top-level product category of a line item.
type Type string

const (
	Exterior Type = "Exterior"
	Interior Type = "Interior"
)

// ParseType converts user input into a Type. Matching ignores case and
// surrounding whitespace.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exterior":
		return Exterior, nil
	case "interior":
		return Interior, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func (t Type) String() string { return string(t) }

// TypeInfo is the Type-level metadata the selection form depends on.
type TypeInfo struct {
	Type Type

	// CatalogTerms is true when the allowed months come from the catalog
	// per Variant. When false the fixed quick picks are offered.
	CatalogTerms bool

	// UpfrontEligible is true when the upfront payment option applies.
	UpfrontEligible bool
}

var typeInfos = []TypeInfo{
	{Type: Exterior, CatalogTerms: true, UpfrontEligible: true},
	{Type: Interior, CatalogTerms: false, UpfrontEligible: false},
}

// BulkThreshold is the total Exterior quantity at which the bulk
// ("6+ buses") discount applies.
const BulkThreshold = 6

var interiorQuickPicks = []int{1, 2, 3, 4, 6, 8, 12}

// InteriorQuickPicks returns the month shortcuts offered for free-term
// Types. Any positive term is valid; these are only the offered picks.
func InteriorQuickPicks() []int {
	out := make([]int, len(interiorQuickPicks))
	copy(out, interiorQuickPicks)
	return out
}

// =============================================================================
// DISCOUNT CHOICE
// =============================================================================

// DiscountChoice is the customer discount selected for the whole quote.
type DiscountChoice string

const (
	DiscountNone   DiscountChoice = "None"
	DiscountAgency DiscountChoice = "Agency 10%"
	DiscountPSA    DiscountChoice = "PSA 10%"
)

// DiscountChoices lists the valid choices in display order.
func DiscountChoices() []DiscountChoice {
	return []DiscountChoice{DiscountNone, DiscountAgency, DiscountPSA}
}

// ParseDiscount converts user input into a DiscountChoice. An empty string
// is DiscountNone.
func ParseDiscount(s string) (DiscountChoice, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DiscountNone, nil
	}
	for _, c := range DiscountChoices() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDiscount, s)
}

// IsAgencyOrPSA reports whether the choice grants the Agency/PSA tier.
func (d DiscountChoice) IsAgencyOrPSA() bool {
	return d == DiscountAgency || d == DiscountPSA
}
