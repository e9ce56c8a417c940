/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from proxy headers (rate limiting key)
  3. Logger:     zerolog request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /health               Liveness
  /api/tiers/*          Tier schedule
  /api/promotion/*      Promotion calculator and batch upload
  /api/experience/*     Experience calculator and batch upload
  /api/templates/*      Sample workbooks
  /api/runs/*           Run history

Upload routes are additionally rate limited per client address.

SECURITY NOTE:
  No authentication middleware. Uploaded workbooks are processed in memory
  and never stored; only run metadata is kept.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Request logging, rate limiting
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures cross-cutting middleware.
type RouterOptions struct {
	CORSOrigins []string
	// Limiter throttles upload routes; nil disables throttling.
	Limiter *RateLimiter
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Run-ID", "X-Rows-Total", "X-Rows-Invalid"},
		AllowCredentials: true,
	}))

	r.Get("/health", h.Health)

	var throttle []func(http.Handler) http.Handler
	if opts.Limiter != nil {
		throttle = append(throttle, opts.Limiter.Middleware)
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Tier schedule routes
		r.Route("/tiers", func(r chi.Router) {
			r.Get("/", h.ListTiers)
			r.Get("/{id}", h.GetTier)
		})

		// Promotion routes
		r.Route("/promotion", func(r chi.Router) {
			r.Post("/", h.CalculatePromotion)
			r.With(throttle...).Post("/upload", h.UploadPromotion)
		})

		// Experience routes
		r.Route("/experience", func(r chi.Router) {
			r.Post("/", h.CalculateExperience)
			r.With(throttle...).Post("/upload", h.UploadExperience)
		})

		// Template routes
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Get("/{kind}", h.GetTemplate)
		})

		// Run history routes
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", h.ListRuns)
			r.Get("/{id}", h.GetRun)
		})
	})

	return r
}
