package quote

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rts-ads/quote-engine/catalog"
)

// =============================================================================
// VIEW MODEL
// =============================================================================

// CartRow is one row of the mini-cart. Index is the position RemoveLine
// expects.
type CartRow struct {
	Index int
	Label string
}

// CartView is the mini-cart panel.
type CartView struct {
	Rows  []CartRow
	Count int
	Hint  EligibilityHint
}

// QuoteLineView is a formatted priced line.
type QuoteLineView struct {
	TypeDisplay string
	Product     string
	Code        string
	Months      int
	Qty         int
	UnitPrice   string
	LineTotal   string
}

// QuoteView is a formatted pricing result.
type QuoteView struct {
	Lines    []QuoteLineView
	Subtotal string
	Total    string
	Saved    string
	Flags    string
}

// ViewModel is everything a front end needs to draw the screen.
type ViewModel struct {
	Type     catalog.Type
	Variant  string
	Months   int
	Qty      string
	Upfront  bool
	Discount catalog.DiscountChoice
	Options  Options

	AddEnabled    bool
	SubmitEnabled bool
	Request       RequestState

	Cart   CartView
	Quote  *QuoteView
	Notice Notification
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderCart builds the mini-cart from scratch.
func RenderCart(c *Cart) CartView {
	items := c.Items()
	rows := make([]CartRow, len(items))
	for i, it := range items {
		rows[i] = CartRow{Index: i, Label: it.Label()}
	}
	return CartView{Rows: rows, Count: len(items), Hint: Hint(c)}
}

// RenderQuote formats a result for display. A nil result renders as nil.
func RenderQuote(r *Result) *QuoteView {
	if r == nil {
		return nil
	}
	v := &QuoteView{
		Lines:    make([]QuoteLineView, len(r.Lines)),
		Subtotal: FormatMoney(r.SubtotalBase),
		Total:    FormatMoney(r.Total),
		Saved:    FormatMoney(r.Saved),
		Flags:    FlagsOrNone(r.Flags),
	}
	for i, l := range r.Lines {
		v.Lines[i] = QuoteLineView{
			TypeDisplay: l.TypeDisplay,
			Product:     l.Product,
			Code:        l.Code,
			Months:      l.Months,
			Qty:         l.Qty,
			UnitPrice:   FormatMoney(l.UnitPrice),
			LineTotal:   FormatMoney(l.LineTotal),
		}
	}
	return v
}

var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatMoney renders an amount as US dollars with grouping, "$12,000.00".
func FormatMoney(d decimal.Decimal) string {
	return moneyPrinter.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

// FlagsOrNone returns flags, or "None" when the service sent nothing.
func FlagsOrNone(flags string) string {
	if strings.TrimSpace(flags) == "" {
		return "None"
	}
	return flags
}
