/*
dto.go - Data Transfer Objects for the pricing API

PURPOSE:

	Defines the JSON wire format of the pricing service. The quote
	request/response shapes are the contract the quote client and any
	browser front end share, so field names follow the legacy Flask service
	(snake_case) and money travels as JSON numbers.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:

	Quote:    QuoteRequest, QuoteItemDTO, QuoteResponse, QuoteLineDTO
	Catalog:  CatalogDTO, TypeDTO, VariantDTO
	History:  QuoteRecordDTO

VALIDATION:

	Validation is done in handlers and the pricing engine, not in DTOs.
	DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Server side
  - client.go: Client side
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rts-ads/quote-engine/catalog"
	"github.com/rts-ads/quote-engine/pricing"
	"github.com/rts-ads/quote-engine/quote"
)

// =============================================================================
// QUOTE DTOs
// =============================================================================

// QuoteItemDTO is one requested line.
type QuoteItemDTO struct {
	TypeDisplay string `json:"type_display"`
	Variant     string `json:"variant"`
	Months      int    `json:"months"`
	Qty         int    `json:"qty"`
}

// QuoteRequest is the body of POST /api/quote.
type QuoteRequest struct {
	Items           []QuoteItemDTO `json:"items"`
	DiscountChoice  string         `json:"discount_choice"`
	UpfrontSelected bool           `json:"upfront_selected"`
}

// QuoteLineDTO is one priced line.
type QuoteLineDTO struct {
	TypeDisplay string  `json:"type_display"`
	Product     string  `json:"product"`
	Code        string  `json:"code"`
	Months      int     `json:"months"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// QuoteResponse is the body of a successful quote.
type QuoteResponse struct {
	QuoteID      string         `json:"quote_id,omitempty"`
	Items        []QuoteLineDTO `json:"items"`
	SubtotalBase float64        `json:"subtotal_base"`
	Total        float64        `json:"total"`
	Saved        float64        `json:"saved"`
	ExteriorTier int            `json:"exterior_tier"`
	InteriorTier int            `json:"interior_tier"`
	Flags        string         `json:"flags"`
}

// =============================================================================
// CATALOG DTOs
// =============================================================================

// VariantDTO is a variant and, for catalog-governed types, its terms.
type VariantDTO struct {
	Name   string `json:"name"`
	Months []int  `json:"months,omitempty"`
}

// TypeDTO describes one type and its variants.
type TypeDTO struct {
	Type            string       `json:"type"`
	CatalogTerms    bool         `json:"catalog_terms"`
	UpfrontEligible bool         `json:"upfront_eligible"`
	Variants        []VariantDTO `json:"variants"`
}

// CatalogDTO is the body of GET /api/catalog.
type CatalogDTO struct {
	Types           []TypeDTO `json:"types"`
	QuickPicks      []int     `json:"quick_picks"`
	DiscountChoices []string  `json:"discount_choices"`
	BulkThreshold   int       `json:"bulk_threshold"`
}

// =============================================================================
// HISTORY DTOs
// =============================================================================

// QuoteRecordDTO is a recorded quote.
type QuoteRecordDTO struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Request   QuoteRequest  `json:"request"`
	Result    QuoteResponse `json:"result"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// toPricingRequest converts a wire request. Unknown types and discounts
// are reported with the item index.
func toPricingRequest(dto QuoteRequest) (pricing.Request, error) {
	discount, err := catalog.ParseDiscount(dto.DiscountChoice)
	if err != nil {
		return pricing.Request{}, err
	}
	req := pricing.Request{
		Items:    make([]pricing.Item, len(dto.Items)),
		Discount: discount,
		Upfront:  dto.UpfrontSelected,
	}
	for i, it := range dto.Items {
		t, err := catalog.ParseType(it.TypeDisplay)
		if err != nil {
			return pricing.Request{}, &pricing.InvalidItemError{Index: i, Reason: err.Error()}
		}
		req.Items[i] = pricing.Item{Type: t, Variant: it.Variant, Months: it.Months, Qty: it.Qty}
	}
	return req, nil
}

func toQuoteRequestDTO(req pricing.Request) QuoteRequest {
	dto := QuoteRequest{
		Items:           make([]QuoteItemDTO, len(req.Items)),
		DiscountChoice:  string(req.Discount),
		UpfrontSelected: req.Upfront,
	}
	for i, it := range req.Items {
		dto.Items[i] = QuoteItemDTO{TypeDisplay: string(it.Type), Variant: it.Variant, Months: it.Months, Qty: it.Qty}
	}
	return dto
}

func toQuoteResponse(id string, res pricing.Result) QuoteResponse {
	resp := QuoteResponse{
		QuoteID:      id,
		Items:        make([]QuoteLineDTO, len(res.Lines)),
		SubtotalBase: money(res.SubtotalBase),
		Total:        money(res.Total),
		Saved:        money(res.Saved),
		ExteriorTier: res.ExteriorTier,
		InteriorTier: res.InteriorTier,
		Flags:        res.Flags,
	}
	for i, l := range res.Lines {
		resp.Items[i] = QuoteLineDTO{
			TypeDisplay: l.TypeDisplay,
			Product:     l.Product,
			Code:        l.Code,
			Months:      l.Months,
			Qty:         l.Qty,
			UnitPrice:   money(l.UnitPrice),
			LineTotal:   money(l.LineTotal),
		}
	}
	return resp
}

func toQuoteRecordDTO(rec pricing.Record) QuoteRecordDTO {
	return QuoteRecordDTO{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Request:   toQuoteRequestDTO(rec.Request),
		Result:    toQuoteResponse("", rec.Result),
	}
}

func toCatalogDTO(c *catalog.Catalog) CatalogDTO {
	dto := CatalogDTO{
		QuickPicks:    catalog.InteriorQuickPicks(),
		BulkThreshold: catalog.BulkThreshold,
	}
	for _, d := range catalog.DiscountChoices() {
		dto.DiscountChoices = append(dto.DiscountChoices, string(d))
	}
	for _, info := range c.Types() {
		td := TypeDTO{
			Type:            string(info.Type),
			CatalogTerms:    info.CatalogTerms,
			UpfrontEligible: info.UpfrontEligible,
		}
		for _, v := range c.VariantsFor(info.Type) {
			td.Variants = append(td.Variants, VariantDTO{Name: v, Months: c.AllowedMonthsFor(info.Type, v)})
		}
		dto.Types = append(dto.Types, td)
	}
	return dto
}

// Client side of the contract.

func fromLineItems(req quote.Request) QuoteRequest {
	dto := QuoteRequest{
		Items:           make([]QuoteItemDTO, len(req.Items)),
		DiscountChoice:  string(req.Discount),
		UpfrontSelected: req.Upfront,
	}
	for i, it := range req.Items {
		dto.Items[i] = QuoteItemDTO{TypeDisplay: string(it.Type), Variant: it.Variant, Months: it.Months, Qty: it.Qty}
	}
	return dto
}

func toQuoteResult(resp QuoteResponse) *quote.Result {
	res := &quote.Result{
		Lines:        make([]quote.PricedLine, len(resp.Items)),
		SubtotalBase: decimal.NewFromFloat(resp.SubtotalBase),
		Total:        decimal.NewFromFloat(resp.Total),
		Saved:        decimal.NewFromFloat(resp.Saved),
		Flags:        resp.Flags,
	}
	for i, l := range resp.Items {
		res.Lines[i] = quote.PricedLine{
			TypeDisplay: l.TypeDisplay,
			Product:     l.Product,
			Code:        l.Code,
			Months:      l.Months,
			Qty:         l.Qty,
			UnitPrice:   decimal.NewFromFloat(l.UnitPrice),
			LineTotal:   decimal.NewFromFloat(l.LineTotal),
		}
	}
	return res
}
