package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fedimark/fedimark/internal/httpserver/deps"
	"github.com/fedimark/fedimark/internal/httpserver/handlers"
	"github.com/fedimark/fedimark/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	cidrs := mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
	r.With(cidrs).Get("/healthz", handlers.Healthz(d))
	r.With(cidrs).Get("/readyz", handlers.Readyz(d))
	r.With(cidrs).Get("/metrics", promhttp.HandlerFor(d.PromRegistry, promhttp.HandlerOpts{}).ServeHTTP)
}
