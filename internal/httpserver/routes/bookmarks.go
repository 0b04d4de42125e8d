package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/fedimark/fedimark/internal/httpserver/deps"
	"github.com/fedimark/fedimark/internal/httpserver/handlers"
	"github.com/fedimark/fedimark/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	guarded.Get("/api/bookmarks", handlers.Bookmarks(d))
	guarded.Get("/api/state", handlers.State(d))
	guarded.Post("/api/sync", handlers.FullSync(d))
	guarded.Post("/api/refresh", handlers.Refresh(d))
}
