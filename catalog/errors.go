package catalog

import "errors"

var (
	// ErrUnknownType is returned for a Type outside the closed set.
	ErrUnknownType = errors.New("unknown type")

	// ErrUnknownDiscount is returned for a discount outside the closed set.
	ErrUnknownDiscount = errors.New("unknown discount choice")

	// ErrInvalidCatalog is returned when a catalog document fails the
	// schema or the cross checks run after decoding.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
