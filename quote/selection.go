package quote

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rts-ads/quote-engine/catalog"
)

// SelectionState is the coarse state of the cascading form.
type SelectionState string

const (
	NoType        SelectionState = "no_type"
	TypeChosen    SelectionState = "type_chosen"
	VariantChosen SelectionState = "variant_chosen"
	MonthsChosen  SelectionState = "months_chosen"
)

// Options is what the form offers for a given upstream selection.
type Options struct {
	Variants       []string
	Months         []int
	VariantEnabled bool
	MonthsEnabled  bool
	UpfrontVisible bool
}

// DeriveOptions computes the offered option sets from the upstream
// selections alone. It is recomputed on every change instead of keeping
// option lists in sync by hand.
func DeriveOptions(p catalog.Provider, t catalog.Type, variant string) Options {
	var opts Options
	if t == "" {
		opts.UpfrontVisible = true
		return opts
	}

	info, ok := p.Info(t)
	if !ok {
		return opts
	}
	opts.UpfrontVisible = info.UpfrontEligible
	opts.Variants = p.VariantsFor(t)
	opts.VariantEnabled = true

	if variant == "" {
		return opts
	}
	opts.MonthsEnabled = true
	if info.CatalogTerms {
		opts.Months = p.AllowedMonthsFor(t, variant)
	} else {
		opts.Months = catalog.InteriorQuickPicks()
	}
	return opts
}

// Selection tracks the four form fields plus the upfront toggle, which the
// Type can hide.
type Selection struct {
	provider catalog.Provider

	typ     catalog.Type
	variant string
	months  int
	qty     string
	upfront bool
}

func NewSelection(p catalog.Provider) *Selection {
	return &Selection{provider: p}
}

// SetType chooses a Type. Variant and months are cleared; if the Type
// hides the upfront toggle it is reset to No.
func (s *Selection) SetType(t catalog.Type) error {
	info, ok := s.provider.Info(t)
	if !ok {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownType, t)
	}
	s.typ = t
	s.variant = ""
	s.months = 0
	if !info.UpfrontEligible {
		s.upfront = false
	}
	return nil
}

// SetVariant chooses a Variant of the current Type and clears months.
func (s *Selection) SetVariant(v string) error {
	if s.typ == "" {
		return ErrNoTypeChosen
	}
	if !catalog.IsValidVariant(s.provider, s.typ, v) {
		return fmt.Errorf("%w: %q for %s", ErrVariantNotOffered, v, s.typ)
	}
	s.variant = v
	s.months = 0
	return nil
}

// SetMonths chooses a term from the currently offered set. Types without
// catalog terms accept any positive term.
func (s *Selection) SetMonths(m int) error {
	if s.variant == "" {
		return ErrNoVariantChosen
	}
	if !catalog.IsValidTerm(s.provider, s.typ, s.variant, m) {
		return fmt.Errorf("%w: %d for %s", ErrMonthsNotOffered, m, s.variant)
	}
	s.months = m
	return nil
}

// SetQty stores the raw quantity input. Parsing happens in CanAdd and in
// the Validator; nothing here coerces a blank value.
func (s *Selection) SetQty(raw string) {
	s.qty = raw
}

// SetUpfront sets the upfront toggle. It fails while the toggle is hidden.
func (s *Selection) SetUpfront(on bool) error {
	if !s.Options().UpfrontVisible {
		return ErrUpfrontHidden
	}
	s.upfront = on
	return nil
}

func (s *Selection) Upfront() bool { return s.upfront }

func (s *Selection) Type() catalog.Type { return s.typ }
func (s *Selection) Variant() string    { return s.variant }
func (s *Selection) Months() int        { return s.months }
func (s *Selection) Qty() string        { return s.qty }

// Options returns the option sets for the current selection.
func (s *Selection) Options() Options {
	return DeriveOptions(s.provider, s.typ, s.variant)
}

func (s *Selection) State() SelectionState {
	switch {
	case s.typ == "":
		return NoType
	case s.variant == "":
		return TypeChosen
	case s.months == 0:
		return VariantChosen
	}
	return MonthsChosen
}

// CanAdd drives the add affordance. It is advisory; the Validator decides.
func (s *Selection) CanAdd() bool {
	if s.typ == "" || s.variant == "" || s.months == 0 {
		return false
	}
	_, ok := parseQty(s.qty)
	return ok
}

func parseQty(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
