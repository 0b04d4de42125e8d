package handlers

import (
	"net/http"
	"time"

	"github.com/fedimark/fedimark/internal/httpserver/deps"
)

type stateResponse struct {
	Count         int        `json:"count"`
	Loading       bool       `json:"loading"`
	Refreshing    bool       `json:"refreshing"`
	FullyLoaded   bool       `json:"fully_loaded"`
	Progress      float64    `json:"progress"`
	Error         string     `json:"error,omitempty"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
}

// State reports the sync engine's observable state without the collection
// itself.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := d.Synchronizer.Snapshot()

		resp := stateResponse{
			Count:       len(snapshot.Statuses),
			Loading:     snapshot.Loading,
			Refreshing:  snapshot.Refreshing,
			FullyLoaded: snapshot.FullyLoaded,
			Progress:    snapshot.Progress,
			Error:       snapshot.ErrorMessage,
		}
		if !snapshot.LastFetchedAt.IsZero() {
			t := snapshot.LastFetchedAt
			resp.LastFetchedAt = &t
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
