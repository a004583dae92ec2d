package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	ChiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/api/middleware"
)

// NewRouter wires the HTTP surface. redisClient may be nil, in which case
// the search endpoint runs without idempotency protection.
func NewRouter(h *Handlers, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	r.Use(ChiMiddleware.Logger)
	r.Use(ChiMiddleware.Recoverer)
	r.Use(ChiMiddleware.RequestID)

	r.Get("/api/health", h.Health)
	r.Get("/api/test", h.Test)
	r.Get("/api/run-price-check", h.RunPriceCheck)

	if redisClient != nil {
		r.With(middleware.Idempotency(redisClient)).Post("/api/search-flights", h.SearchFlights)
	} else {
		r.Post("/api/search-flights", h.SearchFlights)
	}

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Index)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	return r
}
