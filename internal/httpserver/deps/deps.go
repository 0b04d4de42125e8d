package deps

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/fedimark/fedimark/internal/bookmarks"
	"github.com/fedimark/fedimark/internal/emoji"
	"github.com/fedimark/fedimark/internal/folders"
	"github.com/fedimark/fedimark/internal/logger"
	"github.com/fedimark/fedimark/internal/security"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	AllowedHosts []string // Host headers allowed to access the server
	AllowedCIDRS []string // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool     // true if running behind a trusted reverse proxy

	RedisClient  *redis.Client            // for readiness probing
	Synchronizer *bookmarks.Synchronizer  // bookmark collection state and sync operations
	Tracker      *emoji.Tracker           // per-domain custom emoji cache
	Registry     *folders.Registry        // user-defined bookmark folders
	Sanitizer    *security.Sanitizer      // outbound HTML sanitization
	PromRegistry *prometheus.Registry     // metrics exposition
}
