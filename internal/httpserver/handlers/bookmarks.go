package handlers

import (
	"net/http"
	"time"

	"github.com/fedimark/fedimark/internal/domain"
	"github.com/fedimark/fedimark/internal/httpserver/deps"
)

type bookmarksResponse struct {
	Bookmarks   []*domain.Status `json:"bookmarks"`
	Count       int              `json:"count"`
	FullyLoaded bool             `json:"fully_loaded"`
	FetchedAt   *time.Time       `json:"fetched_at,omitempty"`
}

// Bookmarks serves the synced collection, newest first. The optional
// ?folder=<id> parameter narrows the result to a folder's members in
// collection order.
func Bookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := d.Synchronizer.Snapshot()
		statuses := snapshot.Statuses

		if folderID := r.URL.Query().Get("folder"); folderID != "" {
			if d.Registry.Get(folderID) == nil {
				writeError(w, http.StatusNotFound, "folder not found")
				return
			}
			statuses = d.Registry.MembersOf(folderID, statuses)
		}

		clean := make([]*domain.Status, len(statuses))
		for i, s := range statuses {
			clean[i] = d.Sanitizer.Status(s)
		}

		resp := bookmarksResponse{
			Bookmarks:   clean,
			Count:       len(clean),
			FullyLoaded: snapshot.FullyLoaded,
		}
		if !snapshot.LastFetchedAt.IsZero() {
			t := snapshot.LastFetchedAt
			resp.FetchedAt = &t
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
