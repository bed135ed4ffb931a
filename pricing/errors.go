package pricing

import (
	"errors"
	"fmt"

	"github.com/rts-ads/quote-engine/catalog"
)

var (
	// ErrInvalidItem is returned when a requested line cannot be priced.
	ErrInvalidItem = errors.New("invalid item")

	// ErrQuoteNotFound is returned when a history record does not exist.
	ErrQuoteNotFound = errors.New("quote not found")
)

// InvalidItemError identifies the offending line of a request.
type InvalidItemError struct {
	Index  int
	Reason string
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("item %d: %s", e.Index, e.Reason)
}

func (e *InvalidItemError) Unwrap() error {
	return ErrInvalidItem
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidItem) ||
		errors.Is(err, catalog.ErrUnknownType) ||
		errors.Is(err, catalog.ErrUnknownDiscount)
}
