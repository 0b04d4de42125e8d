package emoji

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fedimark/fedimark/internal/domain"
	"github.com/fedimark/fedimark/internal/logger"
)

// placeholderDomain is the default-instance placeholder some client builds
// ship; it is never a real instance and must not be contacted.
const placeholderDomain = "your-default-instance.com"

// staleAfter is the freshness window of a cached emoji set, measured in
// whole elapsed days: an entry is stale once at least one full day has
// passed since its refresh.
const staleAfter = 24 * time.Hour

// ErrInvalidDomain rejects empty or placeholder domains before any network
// call is made.
var ErrInvalidDomain = errors.New("invalid emoji domain")

// Clock abstracts time retrieval so staleness logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Fetcher retrieves a host's public custom-emoji list.
type Fetcher interface {
	Fetch(ctx context.Context, host string) ([]*domain.CustomEmoji, error)
}

// Store persists per-domain emoji sets.
type Store interface {
	SaveEmojiSet(ctx context.Context, emojiDomain string, emoji []*domain.CustomEmoji, refreshedAt time.Time) error
	LoadEmojiSet(ctx context.Context, emojiDomain string) ([]*domain.CustomEmoji, time.Time, error)
	KnownEmojiDomains(ctx context.Context) ([]string, error)
}

// Metrics receives emoji refresh counters. Optional.
type Metrics interface {
	RecordEmojiRefresh(success bool)
}

type entry struct {
	byShortcode map[string]*domain.CustomEmoji
	refreshedAt time.Time
}

// Tracker maintains a per-origin-domain cache of custom emoji. Entries are
// created lazily on first reference, refreshed once stale and never
// deleted; the set of domains is bounded by the user's federation exposure.
type Tracker struct {
	fetcher Fetcher
	store   Store
	metrics Metrics // optional
	clock   Clock
	logger  logger.Logger

	mu    sync.RWMutex
	cache map[string]*entry
}

// New creates a Tracker. metrics may be nil.
func New(fetcher Fetcher, store Store, metrics Metrics, clock Clock, log logger.Logger) *Tracker {
	return &Tracker{
		fetcher: fetcher,
		store:   store,
		metrics: metrics,
		clock:   clock,
		logger:  log,
		cache:   make(map[string]*entry),
	}
}

// WarmLoad populates the in-memory cache from every persisted domain.
// Individual load failures are logged and skipped.
func (t *Tracker) WarmLoad(ctx context.Context) error {
	domains, err := t.store.KnownEmojiDomains(ctx)
	if err != nil {
		return err
	}

	loaded := 0
	for _, d := range domains {
		emoji, refreshedAt, err := t.store.LoadEmojiSet(ctx, d)
		if err != nil {
			t.logger.Warn("failed to load cached emoji set",
				logger.String("domain", d),
				logger.Error(err))
			continue
		}
		if emoji == nil {
			continue
		}
		t.put(d, emoji, refreshedAt)
		loaded++
	}

	t.logger.Info("warmed emoji cache",
		logger.Int("domains", loaded))
	return nil
}

// IsStale reports whether host needs a refresh: true when no entry exists
// or when at least one full day has elapsed since the last refresh.
func (t *Tracker) IsStale(host string) bool {
	t.mu.RLock()
	e, ok := t.cache[cleanDomain(host)]
	t.mu.RUnlock()

	if !ok {
		return true
	}
	return t.clock.Now().Sub(e.refreshedAt) >= staleAfter
}

// EnsureFresh refreshes host's emoji set if it is stale. Empty and
// placeholder domains are rejected before any network call. A fetch
// failure leaves the existing (possibly stale) entry untouched.
func (t *Tracker) EnsureFresh(ctx context.Context, host string) error {
	host = cleanDomain(host)
	if host == "" || host == placeholderDomain {
		return ErrInvalidDomain
	}

	if !t.IsStale(host) {
		return nil
	}

	fetched, err := t.fetcher.Fetch(ctx, host)
	if err != nil {
		if t.metrics != nil {
			t.metrics.RecordEmojiRefresh(false)
		}
		t.logger.Debug("emoji fetch failed, keeping previous set",
			logger.String("domain", host),
			logger.Error(err))
		return err
	}

	unique := dedupeByShortcode(fetched)
	now := t.clock.Now()

	t.put(host, unique, now)

	if err := t.store.SaveEmojiSet(ctx, host, unique, now); err != nil {
		t.logger.Warn("failed to persist emoji set",
			logger.String("domain", host),
			logger.Error(err))
	}

	if t.metrics != nil {
		t.metrics.RecordEmojiRefresh(true)
	}
	t.logger.Debug("refreshed emoji set",
		logger.String("domain", host),
		logger.Int("count", len(unique)))
	return nil
}

// Set returns host's cached emoji keyed by shortcode, with the refresh
// time. ok is false when the domain has never been loaded.
func (t *Tracker) Set(host string) (map[string]*domain.CustomEmoji, time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.cache[cleanDomain(host)]
	if !ok {
		return nil, time.Time{}, false
	}

	out := make(map[string]*domain.CustomEmoji, len(e.byShortcode))
	for k, v := range e.byShortcode {
		out[k] = v
	}
	return out, e.refreshedAt, true
}

// Domains returns the sorted list of cached domains.
func (t *Tracker) Domains() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	domains := make([]string, 0, len(t.cache))
	for d := range t.cache {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

func (t *Tracker) put(host string, emoji []*domain.CustomEmoji, refreshedAt time.Time) {
	byShortcode := make(map[string]*domain.CustomEmoji, len(emoji))
	for _, e := range emoji {
		if _, ok := byShortcode[e.Shortcode]; !ok {
			byShortcode[e.Shortcode] = e
		}
	}

	t.mu.Lock()
	t.cache[host] = &entry{
		byShortcode: byShortcode,
		refreshedAt: refreshedAt,
	}
	t.mu.Unlock()
}

// dedupeByShortcode drops repeated shortcodes, keeping the first occurrence.
func dedupeByShortcode(emoji []*domain.CustomEmoji) []*domain.CustomEmoji {
	seen := make(map[string]struct{}, len(emoji))
	unique := make([]*domain.CustomEmoji, 0, len(emoji))
	for _, e := range emoji {
		if e == nil {
			continue
		}
		if _, ok := seen[e.Shortcode]; ok {
			continue
		}
		seen[e.Shortcode] = struct{}{}
		unique = append(unique, e)
	}
	return unique
}

// cleanDomain strips an accidental scheme prefix and surrounding space.
func cleanDomain(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}
