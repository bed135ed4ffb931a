package quote

import (
	"github.com/rts-ads/quote-engine/catalog"
)

// ValidationCode identifies the first failing check of an add attempt.
type ValidationCode string

const (
	MissingType     ValidationCode = "missing_type"
	MissingVariant  ValidationCode = "missing_variant"
	MissingMonths   ValidationCode = "missing_months"
	InvalidQuantity ValidationCode = "invalid_quantity"
)

var validationMessages = map[ValidationCode]string{
	MissingType:     "Pick a Type first.",
	MissingVariant:  "Pick a Variant.",
	MissingMonths:   "Pick Months.",
	InvalidQuantity: "Quantity must be ≥ 1.",
}

var validationSentinels = map[ValidationCode]error{
	MissingType:     ErrMissingType,
	MissingVariant:  ErrMissingVariant,
	MissingMonths:   ErrMissingMonths,
	InvalidQuantity: ErrInvalidQuantity,
}

// ValidationError is returned by Validate. Its message is the text shown
// to the user.
type ValidationError struct {
	Code ValidationCode
}

func (e *ValidationError) Error() string {
	return validationMessages[e.Code]
}

func (e *ValidationError) Unwrap() error {
	return validationSentinels[e.Code]
}

func invalid(code ValidationCode) *ValidationError {
	return &ValidationError{Code: code}
}

// Validator is the authoritative gate for committing a line.
type Validator struct {
	provider catalog.Provider
}

func NewValidator(p catalog.Provider) Validator {
	return Validator{provider: p}
}

// Validate checks the fields in order type, variant, months, quantity and
// reports only the first failure. A variant or term that is not offered
// for the chosen upstream fields counts as missing. On success it returns
// the LineItem to commit.
func (v Validator) Validate(t catalog.Type, variant string, months int, qty string) (LineItem, error) {
	if _, ok := v.provider.Info(t); !ok {
		return LineItem{}, invalid(MissingType)
	}
	if variant == "" || !catalog.IsValidVariant(v.provider, t, variant) {
		return LineItem{}, invalid(MissingVariant)
	}
	if months == 0 || !catalog.IsValidTerm(v.provider, t, variant, months) {
		return LineItem{}, invalid(MissingMonths)
	}
	n, ok := parseQty(qty)
	if !ok {
		return LineItem{}, invalid(InvalidQuantity)
	}
	return LineItem{Type: t, Variant: variant, Months: months, Qty: n}, nil
}
