package quote_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rts-ads/quote-engine/catalog"
	"github.com/rts-ads/quote-engine/quote"
)

func validationCode(t *testing.T, err error) quote.ValidationCode {
	t.Helper()
	var verr *quote.ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr.Code
}

func TestValidate_CheckOrder(t *testing.T) {
	v := quote.NewValidator(cat)

	tests := []struct {
		name    string
		typ     catalog.Type
		variant string
		months  int
		qty     string
		code    quote.ValidationCode
		msg     string
	}{
		{"type first even with valid rest", "", "Kong", 4, "2", quote.MissingType, "Pick a Type first."},
		{"type first with everything missing", "", "", 0, "", quote.MissingType, "Pick a Type first."},
		{"unknown type", "Billboard", "Kong", 4, "2", quote.MissingType, "Pick a Type first."},
		{"variant before months", catalog.Exterior, "", 0, "", quote.MissingVariant, "Pick a Variant."},
		{"variant of other type", catalog.Exterior, "11x17", 4, "2", quote.MissingVariant, "Pick a Variant."},
		{"months before qty", catalog.Exterior, "Kong", 0, "", quote.MissingMonths, "Pick Months."},
		{"stale months", catalog.Exterior, "Kong", 24, "2", quote.MissingMonths, "Pick Months."},
		{"blank qty", catalog.Exterior, "Kong", 4, "", quote.InvalidQuantity, "Quantity must be ≥ 1."},
		{"zero qty", catalog.Exterior, "Kong", 4, "0", quote.InvalidQuantity, "Quantity must be ≥ 1."},
		{"negative qty", catalog.Interior, "11x17", 2, "-4", quote.InvalidQuantity, "Quantity must be ≥ 1."},
		{"fractional qty", catalog.Interior, "11x17", 2, "2.5", quote.InvalidQuantity, "Quantity must be ≥ 1."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.typ, tt.variant, tt.months, tt.qty)

			require.Error(t, err)
			assert.Equal(t, tt.code, validationCode(t, err))
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestValidate_Sentinels(t *testing.T) {
	v := quote.NewValidator(cat)

	_, err := v.Validate("", "", 0, "")
	assert.ErrorIs(t, err, quote.ErrMissingType)

	_, err = v.Validate(catalog.Exterior, "Kong", 4, "x")
	assert.ErrorIs(t, err, quote.ErrInvalidQuantity)
}

func TestValidate_Success(t *testing.T) {
	v := quote.NewValidator(cat)

	item, err := v.Validate(catalog.Interior, "11x42", 7, "3")

	require.NoError(t, err)
	assert.Equal(t, quote.LineItem{Type: catalog.Interior, Variant: "11x42", Months: 7, Qty: 3}, item)
}

func TestValidate_NoUpperBoundOnQty(t *testing.T) {
	v := quote.NewValidator(cat)

	item, err := v.Validate(catalog.Exterior, "Full Wrap", 12, "1000")

	require.NoError(t, err)
	assert.Equal(t, 1000, item.Qty)
}
