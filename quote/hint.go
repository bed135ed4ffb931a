package quote

import "github.com/rts-ads/quote-engine/catalog"

const (
	LabelEligible = "Eligible"
	LabelNotYet   = "Not yet"
)

// EligibilityHint previews the bulk Exterior discount. The pricing service
// decides whether it actually applies.
type EligibilityHint struct {
	ExteriorQty int
	Eligible    bool
	Label       string
}

// Hint is a pure function of the cart contents.
func Hint(c *Cart) EligibilityHint {
	qty := c.AggregateQuantityByType(catalog.Exterior)
	h := EligibilityHint{ExteriorQty: qty, Eligible: qty >= catalog.BulkThreshold, Label: LabelNotYet}
	if h.Eligible {
		h.Label = LabelEligible
	}
	return h
}
