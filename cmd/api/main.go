package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/timetrack/internal/cache"
	"github.com/geocoder89/timetrack/internal/config"
	"github.com/geocoder89/timetrack/internal/db"
	httpx "github.com/geocoder89/timetrack/internal/http"
	"github.com/geocoder89/timetrack/internal/http/handlers"
	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/geocoder89/timetrack/internal/redisclient"
	"github.com/geocoder89/timetrack/internal/report"
	"github.com/geocoder89/timetrack/internal/repo/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OtelEnabled {
		shutdown, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: "timetrack-api",
			Endpoint:    cfg.OtelEndpoint,
			Env:         cfg.Env,
		})
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			sctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	checks := map[string]handlers.Pinger{}

	var stores httpx.Stores
	switch cfg.Store {
	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		stores = httpx.MemoryStores(memory.New())

	default:
		if cfg.RunMigrations {
			if err := db.Migrate(cfg.DBURL); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations applied")
		}

		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer pool.Close()

		checks["postgres"] = httpx.PoolPinger(pool)
		stores = httpx.PostgresStores(pool, prom)
	}

	seedCtx, cancelSeed := config.WithTimeout(5 * time.Second)
	err := db.EnsureSeedUser(seedCtx, stores.Users, cfg)
	cancelSeed()
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	var summaryCache cache.Store = cache.New(cfg.CacheTTL())
	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rc.Close()

		pctx, cancel := config.WithTimeout(2 * time.Second)
		err := rc.Ping(pctx)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, using in-process cache", "addr", cfg.RedisAddr, "err", err)
		} else {
			summaryCache = cache.NewRedis(rc.Raw(), cfg.CacheTTL())
			checks["redis"] = rc.Ping
			log.Info("redis cache enabled", "addr", cfg.RedisAddr)
		}
	}

	reports := report.NewService(stores.Summary,
		report.WithCache(summaryCache),
		report.WithProm(prom),
		report.WithLogger(log),
	)

	router := httpx.NewRouter(httpx.Deps{
		Log:      log,
		Config:   cfg,
		Stores:   stores,
		Reports:  reports,
		Prom:     prom,
		Gatherer: reg,
		Checks:   checks,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	log.Info("server shutting down")

	sctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
