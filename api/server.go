/*
server.go - HTTP router and middleware configuration

PURPOSE:

	Configures the HTTP router (chi), middleware stack, and route
	definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
 1. RequestID:  Unique ID per request for tracing
 2. Logger:     Request logging
 3. Recoverer:  Panic recovery (500 instead of crash)
 4. CORS:       Cross-origin requests for a browser front end

ROUTE GROUPS:

	/quote           Quote endpoint at its legacy path
	/api/quote       Quote endpoint
	/api/quotes/*    Quote history
	/api/catalog     Catalog for building selection forms
	/health          Liveness

SECURITY NOTE:

	No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions tunes NewRouter.
type RouterOptions struct {
	// AllowedOrigins for CORS. Empty allows the local dev front ends.
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Get("/health", h.Health)
	r.Post("/quote", h.PostQuote)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.GetCatalog)
		r.Post("/quote", h.PostQuote)

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", h.ListQuotes)
			r.Get("/{id}", h.GetQuote)
		})
	})

	return r
}
