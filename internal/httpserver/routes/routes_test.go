package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fedimark/fedimark/internal/bookmarks"
	"github.com/fedimark/fedimark/internal/domain"
	"github.com/fedimark/fedimark/internal/folders"
	"github.com/fedimark/fedimark/internal/httpserver/deps"
	"github.com/fedimark/fedimark/internal/logger"
	"github.com/fedimark/fedimark/internal/mastodon"
	"github.com/fedimark/fedimark/internal/security"
)

type stubSource struct{}

func (stubSource) FetchPage(_ context.Context, _ string) (*mastodon.Page, error) {
	return &mastodon.Page{}, nil
}

type stubStore struct{}

func (stubStore) SaveBookmarks(_ context.Context, _ []*domain.Status, _ time.Time) error {
	return nil
}

func (stubStore) LoadBookmarks(_ context.Context) ([]*domain.Status, time.Time, error) {
	return nil, time.Time{}, nil
}

type stubFolderStore struct{}

func (stubFolderStore) SaveFolders(_ context.Context, _ []*domain.Folder) error { return nil }

func (stubFolderStore) LoadFolders(_ context.Context) ([]*domain.Folder, error) { return nil, nil }

func newGuardedRouter() chi.Router {
	log := logger.New("error", false)
	d := deps.Deps{
		Logger:       log,
		StartTime:    time.Now(),
		AllowedCIDRS: []string{"10.0.0.0/8"},
		Synchronizer: bookmarks.New(stubSource{}, stubStore{}, nil, nil, log),
		Registry:     folders.New(stubFolderStore{}, log),
		Sanitizer:    security.NewSanitizer(),
		PromRegistry: prometheus.NewRegistry(),
	}

	r := chi.NewRouter()
	RegisterAll(r, d)
	return r
}

func TestAPIRoutesRejectDisallowedIPs(t *testing.T) {
	r := newGuardedRouter()

	for _, tt := range []struct {
		method string
		path   string
	}{
		{"POST", "/api/sync"},
		{"POST", "/api/refresh"},
		{"POST", "/api/folders"},
		{"GET", "/api/bookmarks"},
		{"GET", "/api/emoji"},
		{"GET", "/healthz"},
	} {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.RemoteAddr = "203.0.113.5:4121"

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s from disallowed IP: status = %d, want 403", tt.method, tt.path, rec.Code)
		}
	}
}

func TestAPIRoutesAllowListedIPs(t *testing.T) {
	r := newGuardedRouter()

	req := httptest.NewRequest("GET", "/api/folders", nil)
	req.RemoteAddr = "10.1.2.3:4121"

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("allowed IP: status = %d, want 200", rec.Code)
	}
}
