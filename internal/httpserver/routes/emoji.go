package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/fedimark/fedimark/internal/httpserver/deps"
	"github.com/fedimark/fedimark/internal/httpserver/handlers"
	"github.com/fedimark/fedimark/internal/httpserver/mw"
)

func init() { Register(registerEmoji) }

func registerEmoji(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	guarded.Get("/api/emoji", handlers.EmojiDomains(d))
	guarded.Get("/api/emoji/{domain}", handlers.EmojiSet(d))
}
