// Package rest exposes the survey HTTP API: multipart submit, reporter
// history and a ping endpoint for client reachability checks.
package rest

import (
	"net/http"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handler, allowedOrigins []string, l logging.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(instrument(l))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Cache-Control"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.Timeout(60*time.Second)).Post("/submit", h.Submit)
		r.Get("/history", h.History)
		r.Get("/ping", h.Ping)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
