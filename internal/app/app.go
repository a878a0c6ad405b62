package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jankclient/directory/internal/config"
	"github.com/jankclient/directory/internal/discovery"
	"github.com/jankclient/directory/internal/httpserver"
	"github.com/jankclient/directory/internal/httpserver/deps"
	"github.com/jankclient/directory/internal/index"
	"github.com/jankclient/directory/internal/logger"
	"github.com/jankclient/directory/internal/probe"
	"github.com/jankclient/directory/internal/redis"
	"github.com/jankclient/directory/internal/scheduler"
	"github.com/jankclient/directory/internal/sources/instances"
	"github.com/jankclient/directory/internal/store"
	"github.com/jankclient/directory/internal/store/memory"
	redisstore "github.com/jankclient/directory/internal/store/redis"
	"github.com/jankclient/directory/internal/telemetry"
	"github.com/jankclient/directory/internal/uptime"
	"github.com/jankclient/directory/internal/version"
)

// Options are the command line overrides.
type Options struct {
	Once         bool   // run a single pass and exit
	InstanceFile string // overrides DIRECTORY_INSTANCE_FILE when set
}

// backend is what the monitor and the resolver need from a store.
type backend interface {
	store.KV
	store.Pinger
	discovery.Cache
}

type App struct {
	opts        Options
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	telemetry   *telemetry.Provider
	loader      *instances.Loader
	monitor     *uptime.Monitor
	checker     *scheduler.UptimeChecker
}

func New(opts Options) (*App, error) {
	cfg := config.Load()
	if opts.InstanceFile != "" {
		cfg.InstanceFile = opts.InstanceFile
	}

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	ctx := context.Background()

	tel, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "directory",
		ServiceVersion: version.Version,
		OTLPEndpoint:   cfg.OTelEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	// Pick the store - fail fast if Redis is configured but unavailable
	var (
		kv          backend
		redisClient *goredis.Client
		storeMode   = "memory"
	)
	if cfg.UseRedis() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		redisClient, err = redis.New(ctx, redis.ConnectOptions{
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
		}, loggerClient.Named("redis"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		kv = redisstore.NewStore(redisClient)
		storeMode = "redis"
		loggerClient.Info("Redis initialized successfully")
	} else {
		kv = memory.NewStore()
		loggerClient.Warn("REDIS_ADDR not set, uptime data will not survive restarts")
	}

	resolver := discovery.New(discovery.Config{
		Timeout:        cfg.DiscoveryTO,
		CacheTTL:       cfg.DiscoveryTTL,
		BreakerTimeout: cfg.BreakerTimeout,
		TripAfter:      uint32(cfg.BreakerTrip),
	}, kv, loggerClient.Named("discovery"))

	prober := probe.New(cfg.ProbeTimeout, resolver, loggerClient.Named("probe"))

	metrics, err := uptime.NewMetrics(tel.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	uptimeIndex := index.NewUptimeIndex()
	records := uptime.NewRecordStore(kv, cfg.UptimeKey)
	monitor := uptime.NewMonitor(records, prober, uptimeIndex, loggerClient.Named("monitor"),
		uptime.WithMetrics(metrics),
		uptime.WithTracer(tel.Tracer))

	// Serve persisted uptime before the first pass finishes
	syncer := scheduler.NewUptimeSyncer(records, uptimeIndex, loggerClient)
	if err := syncer.Sync(ctx); err != nil {
		loggerClient.Warn("failed to sync uptime data on startup, first pass will rebuild it",
			logger.Error(err))
	}

	loader := instances.NewLoader(cfg.InstanceFile)

	// Create manual check trigger channel
	checkTrigger := make(chan struct{}, 1)

	checker := scheduler.NewUptimeChecker(
		loader,
		monitor,
		loggerClient.Named("scheduler"),
		cfg.CheckTick,
		checkTrigger,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		InstanceFile:      cfg.InstanceFile,
		Store:             kv,
		StoreMode:         storeMode,
		Uptime:            monitor,
		UptimeIndex:       uptimeIndex,
		CheckTrigger:      checkTrigger,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		opts:        opts,
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		telemetry:   tel,
		loader:      loader,
		monitor:     monitor,
		checker:     checker,
	}, nil
}

func (a *App) Run() error {
	defer a.close()

	if a.opts.Once {
		return a.runOnce()
	}

	a.logger.Infof("🚀 Starting directory v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// First pass runs inline; the server already answers from synced data
	a.checker.Start(ctx)
	a.logger.Info("uptime checker started",
		logger.Duration("tick", a.cfg.CheckTick),
		logger.String("instances", a.cfg.InstanceFile))

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.checker.Stop()
		return err
	}

	a.checker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ directory stopped cleanly")
	return nil
}

// runOnce checks every due instance once and reports a failed write.
func (a *App) runOnce() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	list, err := a.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load instances: %w", err)
	}

	report, err := a.monitor.RunPass(ctx, list)
	if err != nil {
		return err
	}

	a.logger.Info("single uptime pass done",
		logger.Int("probed", report.Probed),
		logger.Int("healthy", report.Healthy),
		logger.Bool("persisted", report.Persisted))
	return nil
}

func (a *App) close() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Warnf("failed to flush telemetry: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	_ = a.logger.Sync()
}
