package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fedimark/fedimark/internal/domain"
	"github.com/fedimark/fedimark/internal/httpserver/deps"
)

type emojiSetResponse struct {
	Domain      string                         `json:"domain"`
	RefreshedAt time.Time                      `json:"refreshed_at"`
	Stale       bool                           `json:"stale"`
	Emoji       map[string]*domain.CustomEmoji `json:"emoji"`
}

type emojiDomainsResponse struct {
	Domains []string `json:"domains"`
}

// EmojiDomains lists domains with a cached custom emoji set.
func EmojiDomains(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, emojiDomainsResponse{
			Domains: d.Tracker.Domains(),
		})
	}
}

// EmojiSet serves a domain's cached emoji keyed by shortcode.
func EmojiSet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := chi.URLParam(r, "domain")

		set, refreshedAt, ok := d.Tracker.Set(host)
		if !ok {
			writeError(w, http.StatusNotFound, "no emoji cached for domain")
			return
		}

		writeJSON(w, http.StatusOK, emojiSetResponse{
			Domain:      host,
			RefreshedAt: refreshedAt,
			Stale:       d.Tracker.IsStale(host),
			Emoji:       set,
		})
	}
}
