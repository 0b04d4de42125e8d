package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/fedimark/fedimark/internal/bookmarks"
	"github.com/fedimark/fedimark/internal/config"
	"github.com/fedimark/fedimark/internal/emoji"
	"github.com/fedimark/fedimark/internal/folders"
	"github.com/fedimark/fedimark/internal/httpserver"
	"github.com/fedimark/fedimark/internal/httpserver/deps"
	"github.com/fedimark/fedimark/internal/logger"
	"github.com/fedimark/fedimark/internal/mastodon"
	"github.com/fedimark/fedimark/internal/metrics"
	"github.com/fedimark/fedimark/internal/redis"
	"github.com/fedimark/fedimark/internal/scheduler"
	"github.com/fedimark/fedimark/internal/security"
	"github.com/fedimark/fedimark/internal/sources/account"
	redisstore "github.com/fedimark/fedimark/internal/store/redis"
	"github.com/fedimark/fedimark/internal/version"
)

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	server       *httpserver.Server
	redisClient  *goredis.Client
	synchronizer *bookmarks.Synchronizer
	refresher    *scheduler.Refresher
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Load account credentials - fail fast if missing or malformed
	creds, err := account.NewLoader(cfg.AccountFile).Load()
	if err != nil {
		loggerClient.Errorf("Failed to load account file: %v", err)
		os.Exit(1)
	}
	loggerClient.Infof("Syncing bookmarks from %s", creds.Instance)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(promRegistry)

	tracker := emoji.New(
		mastodon.NewEmojiClient(cfg.EmojiTimeout, loggerClient),
		store,
		collector,
		emoji.RealClock{},
		loggerClient,
	)
	if err := tracker.WarmLoad(context.Background()); err != nil {
		loggerClient.Warn("failed to warm emoji cache",
			logger.Error(err))
	}

	registry := folders.New(store, loggerClient)
	if err := registry.Load(context.Background()); err != nil {
		loggerClient.Warn("failed to load folders from redis",
			logger.Error(err))
	}

	client := mastodon.NewClient(creds, cfg.FetchTimeout, cfg.PageRate, cfg.PageBurst, loggerClient)
	synchronizer := bookmarks.New(client, store, tracker, collector, loggerClient)

	refresher := scheduler.NewRefresher(synchronizer, loggerClient, cfg.RefreshInterval)

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		RedisClient:  redisClient,
		Synchronizer: synchronizer,
		Tracker:      tracker,
		Registry:     registry,
		Sanitizer:    security.NewSanitizer(),
		PromRegistry: promRegistry,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:          cfg,
		logger:       loggerClient,
		server:       server,
		redisClient:  redisClient,
		synchronizer: synchronizer,
		refresher:    refresher,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Fedimark v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Fedimark %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the refresher (initial collection load plus periodic refresh)
	a.refresher.Start(ctx)
	a.logger.Info("bookmark refresher started",
		logger.Duration("interval", a.cfg.RefreshInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Fedimark stopped cleanly")
	return nil
}
