package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROVIDER - Read-only view consumed by the selection form
// =============================================================================

// Provider exposes the catalog facts the selection form needs.
type Provider interface {
	// Info returns the metadata for t.
	Info(t Type) (TypeInfo, bool)

	// VariantsFor returns the Variants offered under t, in catalog order.
	VariantsFor(t Type) []string

	// AllowedMonthsFor returns the allowed terms for (t, variant). It is
	// only defined for catalog-governed Types and returns nil otherwise.
	AllowedMonthsFor(t Type, variant string) []int
}

// =============================================================================
// CATALOG
// =============================================================================

// ExteriorProduct is a bus product with per-term rates.
type ExteriorProduct struct {
	Name   string
	Prefix string
	Months []int

	// Rates maps a term to its unit prices, one per discount tier.
	// Index 0 is the undiscounted base price.
	Rates map[int][]decimal.Decimal
}

// Code returns the rate code for a term, e.g. "FW-4".
func (p ExteriorProduct) Code(months int) string {
	return fmt.Sprintf("%s-%d", p.Prefix, months)
}

// InteriorSize is an interior card size priced per month.
type InteriorSize struct {
	Size string

	// Rates holds the per-month price for tier 0 (base) and tier 1.
	Rates []decimal.Decimal
}

// Catalog is the loaded product catalog. It is immutable after Load.
type Catalog struct {
	exterior []ExteriorProduct
	interior []InteriorSize
}

var _ Provider = (*Catalog)(nil)

// Types returns the metadata for every Type in display order.
func (c *Catalog) Types() []TypeInfo {
	out := make([]TypeInfo, len(typeInfos))
	copy(out, typeInfos)
	return out
}

func (c *Catalog) Info(t Type) (TypeInfo, bool) {
	for _, info := range typeInfos {
		if info.Type == t {
			return info, true
		}
	}
	return TypeInfo{}, false
}

func (c *Catalog) VariantsFor(t Type) []string {
	var out []string
	switch t {
	case Exterior:
		for _, p := range c.exterior {
			out = append(out, p.Name)
		}
	case Interior:
		for _, s := range c.interior {
			out = append(out, s.Size)
		}
	}
	return out
}

func (c *Catalog) AllowedMonthsFor(t Type, variant string) []int {
	if t != Exterior {
		return nil
	}
	p, ok := c.ExteriorProduct(variant)
	if !ok {
		return nil
	}
	out := make([]int, len(p.Months))
	copy(out, p.Months)
	return out
}

// ExteriorProduct looks up a bus product by name.
func (c *Catalog) ExteriorProduct(name string) (ExteriorProduct, bool) {
	for _, p := range c.exterior {
		if p.Name == name {
			return p, true
		}
	}
	return ExteriorProduct{}, false
}

// InteriorSize looks up an interior card size.
func (c *Catalog) InteriorSize(size string) (InteriorSize, bool) {
	for _, s := range c.interior {
		if s.Size == size {
			return s, true
		}
	}
	return InteriorSize{}, false
}

// IsValidTerm reports whether months is a valid term for (t, variant):
// a member of the catalog set for catalog-governed Types, any positive
// term otherwise.
func IsValidTerm(p Provider, t Type, variant string, months int) bool {
	if months <= 0 {
		return false
	}
	info, ok := p.Info(t)
	if !ok {
		return false
	}
	if !info.CatalogTerms {
		return true
	}
	for _, m := range p.AllowedMonthsFor(t, variant) {
		if m == months {
			return true
		}
	}
	return false
}

// IsValidVariant reports whether variant is offered under t.
func IsValidVariant(p Provider, t Type, variant string) bool {
	for _, v := range p.VariantsFor(t) {
		if v == variant {
			return true
		}
	}
	return false
}
