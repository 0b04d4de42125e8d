package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	AccountFile     string        // path to the account.yaml file (instance URL + access token)
	RefreshInterval time.Duration // interval between background silent refreshes (default: 15m)
	FetchTimeout    time.Duration // per-request timeout against the instance (default: 30s)
	PageRate        float64       // bookmark page fetches per second during pagination (default: 1)
	PageBurst       int           // burst size for the page rate limiter (default: 3)
	EmojiTimeout    time.Duration // per-request timeout for custom-emoji fetches (default: 10s)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict mutating endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("FEDIMARK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("FEDIMARK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("FEDIMARK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("FEDIMARK_PRETTY_LOG", false),

		// Sync
		AccountFile:     requireEnv("FEDIMARK_ACCOUNT_FILE"),
		RefreshInterval: mustDuration("FEDIMARK_REFRESH_INTERVAL", 15*time.Minute),
		FetchTimeout:    mustDuration("FEDIMARK_FETCH_TIMEOUT", 30*time.Second),
		PageRate:        mustFloat("FEDIMARK_PAGE_RATE", 1),
		PageBurst:       getenvInt("FEDIMARK_PAGE_BURST", 3),
		EmojiTimeout:    mustDuration("FEDIMARK_EMOJI_TIMEOUT", 10*time.Second),

		// Redis settings
		RedisAddr:             requireEnv("FEDIMARK_REDIS_ADDR"),
		RedisUser:             getenv("FEDIMARK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("FEDIMARK_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("FEDIMARK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("FEDIMARK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("FEDIMARK_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("FEDIMARK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("FEDIMARK_TRUST_PROXY", false),
	}

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: FEDIMARK_REDIS_PASSWORD is required when FEDIMARK_REDIS_PASSWORD_REQUIRED=true")
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
