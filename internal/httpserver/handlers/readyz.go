package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fedimark/fedimark/internal/httpserver/deps"
	"github.com/fedimark/fedimark/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Redis string `json:"redis"`
}

// Readyz reports readiness. The store must be reachable: without it the
// engine cannot persist sync results.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.RedisClient.Ping(ctx).Err(); err != nil {
			d.Logger.Warn("readiness probe failed",
				logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{
				Ready: false,
				Redis: "unreachable",
			})
			return
		}

		writeJSON(w, http.StatusOK, readyzResponse{
			Ready: true,
			Redis: "ok",
		})
	}
}
