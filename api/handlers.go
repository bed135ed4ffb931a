/*
handlers.go - HTTP API handlers for the pricing service

PURPOSE:

	Exposes the pricing engine and the quote history via REST API. Handles
	HTTP request/response and JSON serialization, and delegates to
	pricing.Service.

ENDPOINTS:

	Quotes:
	  POST   /quote                 Compute a quote (legacy path)
	  POST   /api/quote             Compute a quote
	  GET    /api/quotes            Recent quotes (?limit=N, default 50)
	  GET    /api/quotes/{id}       One recorded quote

	Catalog:
	  GET    /api/catalog           Types, variants, terms, discounts

	Ops:
	  GET    /health                Liveness

REQUEST FLOW:
 1. Parse HTTP request
 2. Convert DTO to pricing.Request
 3. Compute and record via pricing.Service
 4. Serialize response
 5. Handle errors

ERROR HANDLING:

	Errors are returned as JSON with appropriate HTTP status:
	- 400: Malformed body, unknown type/discount, unpriceable item
	- 404: Quote not found
	- 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rts-ads/quote-engine/catalog"
	"github.com/rts-ads/quote-engine/pricing"
)

const defaultListLimit = 50

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *pricing.Service
	Catalog *catalog.Catalog
	Logger  *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(svc *pricing.Service, cat *catalog.Catalog, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: svc, Catalog: cat, Logger: logger}
}

// =============================================================================
// QUOTE HANDLERS
// =============================================================================

// PostQuote computes, records and returns a quote.
func (h *Handler) PostQuote(w http.ResponseWriter, r *http.Request) {
	var body QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req, err := toPricingRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quote request", err)
		return
	}

	rec, err := h.Service.Quote(r.Context(), req)
	if err != nil {
		if pricing.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Invalid quote request", err)
			return
		}
		h.Logger.Error("quote failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to compute quote", err)
		return
	}

	writeJSON(w, http.StatusOK, toQuoteResponse(rec.ID, rec.Result))
}

// ListQuotes returns recent quotes, newest first.
func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	records, err := h.Service.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list quotes", err)
		return
	}

	dtos := make([]QuoteRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toQuoteRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetQuote returns one recorded quote.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Service.Get(r.Context(), id)
	if errors.Is(err, pricing.ErrQuoteNotFound) {
		writeError(w, http.StatusNotFound, "Quote not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get quote", err)
		return
	}

	writeJSON(w, http.StatusOK, toQuoteRecordDTO(*rec))
}

// =============================================================================
// CATALOG / OPS
// =============================================================================

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCatalogDTO(h.Catalog))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
