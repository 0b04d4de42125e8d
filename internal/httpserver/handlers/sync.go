package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/fedimark/fedimark/internal/bookmarks"
	"github.com/fedimark/fedimark/internal/httpserver/deps"
	"github.com/fedimark/fedimark/internal/logger"
)

type syncResponse struct {
	Status string `json:"status"`
}

type refreshResponse struct {
	Status string `json:"status"`
	New    int    `json:"new"`
}

// FullSync starts a full re-synchronization in the background. Progress is
// observable via /api/state.
func FullSync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The sync outlives the request: net/http cancels r.Context() as
		// soon as the 202 is written.
		if !d.Synchronizer.StartFullSync(context.WithoutCancel(r.Context())) {
			writeError(w, http.StatusTooManyRequests, "sync already in progress")
			return
		}
		d.Logger.Info("full sync triggered via endpoint",
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusAccepted, syncResponse{Status: "started"})
	}
}

// Refresh runs an incremental refresh and reports how many new bookmarks
// were merged.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		added, err := d.Synchronizer.Refresh(r.Context(), false)
		switch {
		case errors.Is(err, bookmarks.ErrSyncInFlight):
			writeError(w, http.StatusTooManyRequests, "sync already in progress")
		case err != nil:
			writeError(w, http.StatusBadGateway, "refresh failed")
		default:
			writeJSON(w, http.StatusOK, refreshResponse{Status: "ok", New: added})
		}
	}
}
