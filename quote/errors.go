package quote

import "errors"

// Selection errors. These come back from the Selection setters when an
// event arrives out of order or names an option that is not offered.
var (
	ErrNoTypeChosen      = errors.New("no type chosen")
	ErrNoVariantChosen   = errors.New("no variant chosen")
	ErrVariantNotOffered = errors.New("variant not offered")
	ErrMonthsNotOffered  = errors.New("months not offered")
	ErrUpfrontHidden     = errors.New("upfront option hidden for this type")
)

// Validation sentinels, one per ValidationCode. A *ValidationError
// unwraps to the matching sentinel so callers can use errors.Is.
var (
	ErrMissingType     = errors.New("missing type")
	ErrMissingVariant  = errors.New("missing variant")
	ErrMissingMonths   = errors.New("missing months")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Orchestrator errors.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrRequestPending = errors.New("quote request already pending")
	ErrMalformedQuote = errors.New("malformed quote response")
)
