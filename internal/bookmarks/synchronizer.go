package bookmarks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fedimark/fedimark/internal/domain"
	"github.com/fedimark/fedimark/internal/logger"
	"github.com/fedimark/fedimark/internal/mastodon"
)

// ErrSyncInFlight is returned when a full sync or refresh is requested
// while another sync operation is still running. Overlapping operations
// are rejected, not queued: the caller can simply try again.
var ErrSyncInFlight = errors.New("sync already in flight")

// Source fetches pages of the remote bookmarks endpoint.
// An empty pageURL means the first (most recent) page.
type Source interface {
	FetchPage(ctx context.Context, pageURL string) (*mastodon.Page, error)
}

// Store persists the bookmark collection.
type Store interface {
	SaveBookmarks(ctx context.Context, statuses []*domain.Status, fetchedAt time.Time) error
	LoadBookmarks(ctx context.Context) ([]*domain.Status, time.Time, error)
}

// EmojiRefresher receives origin domains extracted from fetched bookmarks.
// Failures are the refresher's own business; the synchronizer only logs.
type EmojiRefresher interface {
	EnsureFresh(ctx context.Context, domain string) error
}

// Metrics receives sync counters. All hooks are optional.
type Metrics interface {
	RecordPageFetched(count int)
	RecordFullSync(success bool)
	RecordRefresh(success bool)
	RecordNewBookmarks(count int)
}

// State is an observable snapshot of the synchronizer.
type State struct {
	Statuses      []*domain.Status // newest-first, no duplicate IDs
	Loading       bool             // full sync in progress
	Refreshing    bool             // explicit (non-silent) refresh in progress
	FullyLoaded   bool             // a complete collection is present
	Progress      float64          // 0..1, reaches 1 only on full-sync completion
	ErrorMessage  string           // last user-visible error, "" when healthy
	LastFetchedAt time.Time        // time of the last persisted fetch
}

// Synchronizer owns the local bookmark collection: it populates it from the
// persisted cache or a full paginated sync, merges refresh results without
// duplicating or reordering existing entries, and persists every successful
// mutation.
//
// All mutating operations are serialized through a single in-flight slot;
// see ErrSyncInFlight.
type Synchronizer struct {
	source  Source
	store   Store
	emoji   EmojiRefresher // optional
	metrics Metrics        // optional
	logger  logger.Logger

	inFlight chan struct{}

	mu      sync.RWMutex
	state   State
	changed chan struct{}
}

// New creates a Synchronizer. emoji and metrics may be nil.
func New(source Source, store Store, emoji EmojiRefresher, metrics Metrics, log logger.Logger) *Synchronizer {
	return &Synchronizer{
		source:   source,
		store:    store,
		emoji:    emoji,
		metrics:  metrics,
		logger:   log,
		inFlight: make(chan struct{}, 1),
		changed:  make(chan struct{}, 1),
	}
}

// Snapshot returns a copy of the current state. The contained slice is
// cloned so callers can iterate without holding any lock.
func (s *Synchronizer) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Statuses = make([]*domain.Status, len(s.state.Statuses))
	copy(snap.Statuses, s.state.Statuses)
	return snap
}

// Changed returns a channel that receives a signal after state updates.
// Signals are coalesced; consumers should call Snapshot after each one.
func (s *Synchronizer) Changed() <-chan struct{} {
	return s.changed
}

func (s *Synchronizer) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *Synchronizer) mutate(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notify()
}

// tryAcquire claims the single in-flight slot without blocking.
func (s *Synchronizer) tryAcquire() bool {
	select {
	case s.inFlight <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Synchronizer) release() {
	<-s.inFlight
}

// LoadOrFetch populates the collection at startup. If a persisted cache is
// present it becomes the current state and a silent refresh runs in the
// background; otherwise a full sync is performed.
func (s *Synchronizer) LoadOrFetch(ctx context.Context) error {
	cached, fetchedAt, err := s.store.LoadBookmarks(ctx)
	if err != nil {
		s.logger.Warn("failed to load bookmark cache, falling back to full sync",
			logger.Error(err))
	}

	if cached == nil {
		s.logger.Info("no bookmark cache available, fetching all bookmarks")
		return s.FullSync(ctx)
	}

	s.logger.Info("loaded bookmarks from cache",
		logger.Int("count", len(cached)),
		logger.Time("fetched_at", fetchedAt))

	s.mutate(func(st *State) {
		st.Statuses = cached
		st.FullyLoaded = true
		st.Progress = 1
		st.LastFetchedAt = fetchedAt
	})

	go func() {
		if _, err := s.Refresh(ctx, true); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Debug("startup refresh failed", logger.Error(err))
		}
	}()

	return nil
}

// FullSync rebuilds the collection by walking every page of the remote
// endpoint. Any page failure aborts the whole operation: nothing partial is
// kept or persisted. On success the accumulated collection replaces the
// current one wholesale.
func (s *Synchronizer) FullSync(ctx context.Context) error {
	if !s.tryAcquire() {
		return ErrSyncInFlight
	}
	defer s.release()

	return s.fullSync(ctx)
}

// StartFullSync runs FullSync on a new goroutine. It reports false without
// starting anything when a sync is already in flight.
func (s *Synchronizer) StartFullSync(ctx context.Context) bool {
	if !s.tryAcquire() {
		return false
	}

	go func() {
		defer s.release()
		if err := s.fullSync(ctx); err != nil {
			s.logger.Error("background full sync failed", logger.Error(err))
		}
	}()

	return true
}

func (s *Synchronizer) fullSync(ctx context.Context) error {
	s.mutate(func(st *State) {
		st.Loading = true
		st.FullyLoaded = false
		st.Progress = 0
		st.ErrorMessage = ""
	})

	var acc []*domain.Status
	pageURL := ""
	pageCount := 0

	for {
		page, err := s.source.FetchPage(ctx, pageURL)
		if err != nil {
			s.logger.Error("full sync aborted",
				logger.Int("pages_fetched", pageCount),
				logger.Error(err))
			s.recordFullSync(false)
			s.mutate(func(st *State) {
				st.Loading = false
				st.Progress = 0
				st.ErrorMessage = userMessage(err)
			})
			return err
		}

		pageCount++
		acc = append(acc, page.Statuses...)
		if s.metrics != nil {
			s.metrics.RecordPageFetched(len(page.Statuses))
		}

		// Saturating estimate: never report done before the last page.
		progress := 0.9
		if n := len(page.Statuses); n > 0 {
			progress = min(0.9, float64(len(acc))/float64(len(acc)+n))
		}
		s.mutate(func(st *State) {
			if progress > st.Progress {
				st.Progress = progress
			}
		})

		if page.NextURL == "" || len(page.Statuses) == 0 {
			break
		}
		pageURL = page.NextURL
	}

	now := time.Now()
	if err := s.store.SaveBookmarks(ctx, acc, now); err != nil {
		// The in-memory collection is still replaced; persistence will be
		// retried by the next successful mutation.
		s.logger.Warn("failed to persist bookmark collection", logger.Error(err))
	}

	s.mutate(func(st *State) {
		st.Statuses = acc
		st.Loading = false
		st.FullyLoaded = true
		st.Progress = 1
		st.ErrorMessage = ""
		st.LastFetchedAt = now
	})

	s.logger.Info("full sync complete",
		logger.Int("bookmarks", len(acc)),
		logger.Int("pages", pageCount))
	s.recordFullSync(true)

	s.prefetchEmoji(ctx, acc)

	return nil
}

// Refresh fetches the first page and prepends records the collection does
// not already hold, preserving their fetched order. Nothing is persisted
// when no new record is found. When silent, failures are logged and never
// surface in the observable error state.
func (s *Synchronizer) Refresh(ctx context.Context, silent bool) (int, error) {
	if !s.tryAcquire() {
		if silent {
			s.logger.Debug("silent refresh skipped, sync already in flight")
		}
		return 0, ErrSyncInFlight
	}
	defer s.release()

	if !silent {
		s.mutate(func(st *State) { st.Refreshing = true })
		defer s.mutate(func(st *State) { st.Refreshing = false })
	}

	page, err := s.source.FetchPage(ctx, "")
	if err != nil {
		s.recordRefresh(false)
		if silent {
			s.logger.Debug("silent refresh failed", logger.Error(err))
			return 0, err
		}
		s.logger.Error("refresh failed", logger.Error(err))
		// Keep showing the existing collection; only the error indicator
		// changes.
		s.mutate(func(st *State) { st.ErrorMessage = userMessage(err) })
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.RecordPageFetched(len(page.Statuses))
	}

	s.mu.RLock()
	existing := make(map[string]struct{}, len(s.state.Statuses))
	for _, st := range s.state.Statuses {
		existing[st.ID] = struct{}{}
	}
	s.mu.RUnlock()

	var brandNew []*domain.Status
	for _, st := range page.Statuses {
		if _, ok := existing[st.ID]; !ok {
			brandNew = append(brandNew, st)
		}
	}

	if len(brandNew) == 0 {
		s.logger.Debug("refresh found no new bookmarks")
		s.recordRefresh(true)
		if !silent {
			s.mutate(func(st *State) { st.ErrorMessage = "" })
		}
		return 0, nil
	}

	now := time.Now()
	s.mu.Lock()
	merged := make([]*domain.Status, 0, len(brandNew)+len(s.state.Statuses))
	merged = append(merged, brandNew...)
	merged = append(merged, s.state.Statuses...)
	s.state.Statuses = merged
	s.state.ErrorMessage = ""
	s.state.LastFetchedAt = now
	s.mu.Unlock()
	s.notify()

	if err := s.store.SaveBookmarks(ctx, merged, now); err != nil {
		s.logger.Warn("failed to persist refreshed collection", logger.Error(err))
	}

	s.logger.Info("refresh merged new bookmarks", logger.Int("new", len(brandNew)))
	s.recordRefresh(true)
	if s.metrics != nil {
		s.metrics.RecordNewBookmarks(len(brandNew))
	}

	s.prefetchEmoji(ctx, brandNew)

	return len(brandNew), nil
}

// prefetchEmoji hands every origin domain of the given statuses to the
// emoji refresher. Errors never propagate: emoji freshness is best effort.
func (s *Synchronizer) prefetchEmoji(ctx context.Context, statuses []*domain.Status) {
	if s.emoji == nil {
		return
	}

	domains := ExtractOriginDomains(statuses)
	s.logger.Debug("prefetching emoji", logger.Int("domains", len(domains)))

	for _, d := range domains {
		if err := s.emoji.EnsureFresh(ctx, d); err != nil {
			s.logger.Debug("emoji prefetch failed",
				logger.String("domain", d),
				logger.Error(err))
		}
	}
}

func (s *Synchronizer) recordFullSync(success bool) {
	if s.metrics != nil {
		s.metrics.RecordFullSync(success)
	}
}

func (s *Synchronizer) recordRefresh(success bool) {
	if s.metrics != nil {
		s.metrics.RecordRefresh(success)
	}
}

// userMessage maps an operation error to the single user-facing message
// stored in the state.
func userMessage(err error) string {
	var statusErr *mastodon.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	return err.Error()
}
