package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fedimark/fedimark/internal/bookmarks"
	"github.com/fedimark/fedimark/internal/domain"
	"github.com/fedimark/fedimark/internal/folders"
	"github.com/fedimark/fedimark/internal/httpserver/deps"
	"github.com/fedimark/fedimark/internal/logger"
	"github.com/fedimark/fedimark/internal/mastodon"
	"github.com/fedimark/fedimark/internal/security"
)

type fakeSource struct {
	pages []*mastodon.Page
	calls int
}

func (f *fakeSource) FetchPage(_ context.Context, _ string) (*mastodon.Page, error) {
	if f.calls >= len(f.pages) {
		return &mastodon.Page{}, nil
	}
	p := f.pages[f.calls]
	f.calls++
	return p, nil
}

type fakeStore struct {
	saved []*domain.Status
}

func (f *fakeStore) SaveBookmarks(_ context.Context, statuses []*domain.Status, _ time.Time) error {
	f.saved = statuses
	return nil
}

func (f *fakeStore) LoadBookmarks(_ context.Context) ([]*domain.Status, time.Time, error) {
	return nil, time.Time{}, nil
}

type fakeFolderStore struct {
	folders []*domain.Folder
}

func (f *fakeFolderStore) SaveFolders(_ context.Context, list []*domain.Folder) error {
	f.folders = list
	return nil
}

func (f *fakeFolderStore) LoadFolders(_ context.Context) ([]*domain.Folder, error) {
	return f.folders, nil
}

func newTestDeps(t *testing.T, statuses []*domain.Status) deps.Deps {
	t.Helper()

	log := logger.New("error", false)
	synchronizer := bookmarks.New(
		&fakeSource{pages: []*mastodon.Page{{Statuses: statuses}}},
		&fakeStore{},
		nil,
		nil,
		log,
	)
	if len(statuses) > 0 {
		if err := synchronizer.FullSync(context.Background()); err != nil {
			t.Fatalf("seeding full sync: %v", err)
		}
	}

	registry := folders.New(&fakeFolderStore{}, log)

	return deps.Deps{
		Logger:       log,
		StartTime:    time.Now(),
		Synchronizer: synchronizer,
		Registry:     registry,
		Sanitizer:    security.NewSanitizer(),
	}
}

func newFolderRouter(d deps.Deps) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/folders", ListFolders(d))
	r.Post("/api/folders", CreateFolder(d))
	r.Delete("/api/folders", DeleteFolders(d))
	r.Patch("/api/folders/{folderID}", RenameFolder(d))
	r.Get("/api/folders/{folderID}/bookmarks", FolderBookmarks(d))
	r.Put("/api/folders/{folderID}/bookmarks/{statusID}", AddFolderBookmark(d))
	return r
}

// gatedSource blocks each page fetch until released, then reports whether
// the fetch context was already cancelled.
type gatedSource struct {
	release chan struct{}

	mu     sync.Mutex
	ctxErr error
}

func (g *gatedSource) FetchPage(ctx context.Context, _ string) (*mastodon.Page, error) {
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		g.ctxErr = err
		return nil, err
	}
	return &mastodon.Page{Statuses: []*domain.Status{{ID: "101"}}}, nil
}

func (g *gatedSource) fetchCtxErr() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ctxErr
}

func TestFullSyncSurvivesRequestCancellation(t *testing.T) {
	log := logger.New("error", false)
	source := &gatedSource{release: make(chan struct{})}
	synchronizer := bookmarks.New(source, &fakeStore{}, nil, nil, log)
	d := deps.Deps{Logger: log, Synchronizer: synchronizer}

	req := httptest.NewRequest("POST", "/api/sync", nil)
	reqCtx, cancel := context.WithCancel(req.Context())
	req = req.WithContext(reqCtx)

	rec := httptest.NewRecorder()
	FullSync(d)(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	// net/http cancels the request context once the handler returns.
	cancel()
	close(source.release)

	deadline := time.After(2 * time.Second)
	for {
		if s := synchronizer.Snapshot(); s.FullyLoaded {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("background sync never completed: snapshot = %+v, fetch ctx err = %v",
				synchronizer.Snapshot(), source.fetchCtxErr())
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := source.fetchCtxErr(); err != nil {
		t.Fatalf("page fetch saw cancelled context: %v", err)
	}
	if msg := synchronizer.Snapshot().ErrorMessage; msg != "" {
		t.Fatalf("background sync surfaced error %q", msg)
	}
}

func TestBookmarksSanitizesContent(t *testing.T) {
	d := newTestDeps(t, []*domain.Status{
		{ID: "101", Content: `<p>hi</p><script>alert(1)</script>`},
	})

	rec := httptest.NewRecorder()
	Bookmarks(d)(rec, httptest.NewRequest("GET", "/api/bookmarks", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Bookmarks []*domain.Status `json:"bookmarks"`
		Count     int              `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if strings.Contains(resp.Bookmarks[0].Content, "script") {
		t.Errorf("unsanitized content served: %q", resp.Bookmarks[0].Content)
	}
}

func TestBookmarksUnknownFolder(t *testing.T) {
	d := newTestDeps(t, []*domain.Status{{ID: "101"}})

	rec := httptest.NewRecorder()
	Bookmarks(d)(rec, httptest.NewRequest("GET", "/api/bookmarks?folder=missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStateReportsCollection(t *testing.T) {
	d := newTestDeps(t, []*domain.Status{{ID: "101"}, {ID: "100"}})

	rec := httptest.NewRecorder()
	State(d)(rec, httptest.NewRequest("GET", "/api/state", nil))

	var resp stateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || !resp.FullyLoaded || resp.Progress != 1 {
		t.Errorf("state = %+v, want count=2 fully_loaded progress=1", resp)
	}
}

func TestCreateFolderRejectsEmptyName(t *testing.T) {
	d := newTestDeps(t, nil)
	r := newFolderRouter(d)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/api/folders", strings.NewReader(`{"name":""}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestFolderLifecycle(t *testing.T) {
	d := newTestDeps(t, []*domain.Status{{ID: "102"}, {ID: "101"}, {ID: "100"}})
	r := newFolderRouter(d)

	// Create
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/api/folders", strings.NewReader(`{"name":"Reading"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rec.Code)
	}
	var folder domain.Folder
	if err := json.NewDecoder(rec.Body).Decode(&folder); err != nil {
		t.Fatalf("decode folder: %v", err)
	}

	// Add members out of collection order
	for _, id := range []string{"100", "102"} {
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("PUT", "/api/folders/"+folder.ID+"/bookmarks/"+id, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("add member status = %d, want 204", rec.Code)
		}
	}

	// Members come back in collection order
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/folders/"+folder.ID+"/bookmarks", nil))
	var members []*domain.Status
	if err := json.NewDecoder(rec.Body).Decode(&members); err != nil {
		t.Fatalf("decode members: %v", err)
	}
	if len(members) != 2 || members[0].ID != "102" || members[1].ID != "100" {
		got := make([]string, len(members))
		for i, m := range members {
			got[i] = m.ID
		}
		t.Fatalf("members = %v, want [102 100]", got)
	}

	// Rename
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("PATCH", "/api/folders/"+folder.ID, strings.NewReader(`{"name":"To Read"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("rename status = %d, want 200", rec.Code)
	}

	// Rename of an unknown folder is a 404 at the HTTP layer
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("PATCH", "/api/folders/missing", strings.NewReader(`{"name":"X"}`)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("rename unknown status = %d, want 404", rec.Code)
	}

	// Delete at position 0
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/folders", strings.NewReader(`{"positions":[0]}`)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/folders", nil))
	var remaining []*domain.Folder
	if err := json.NewDecoder(rec.Body).Decode(&remaining); err != nil {
		t.Fatalf("decode folders: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("folders left = %d, want 0", len(remaining))
	}
}
