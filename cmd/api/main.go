package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/tasktracker/internal/cache"
	"github.com/geocoder89/tasktracker/internal/config"
	"github.com/geocoder89/tasktracker/internal/db"
	httpx "github.com/geocoder89/tasktracker/internal/http"
	"github.com/geocoder89/tasktracker/internal/http/handlers"
	"github.com/geocoder89/tasktracker/internal/observability"
	"github.com/geocoder89/tasktracker/internal/redisclient"
	"github.com/geocoder89/tasktracker/internal/repo/memory"
	"github.com/geocoder89/tasktracker/internal/repo/postgres"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	prom := observability.NewProm()
	checks := map[string]handlers.Check{}

	var shuttingDown atomic.Bool

	deps := httpx.Deps{Prom: prom, Checks: checks, ShuttingDown: shuttingDown.Load}

	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("using in-memory storage; data is lost on restart")
		deps.Users = memory.NewUsersRepo()
		deps.Tasks = memory.NewTasksRepo()

	default:
		pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			log.Error("db migrate failed", "err", err)
			os.Exit(1)
		}

		deps.Users = postgres.NewUsersRepo(pool, prom)
		deps.Tasks = postgres.NewTasksRepo(pool, prom)
		checks["postgres"] = pool.Ping
	}

	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rc.Close()

		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis not reachable at startup", "addr", cfg.RedisAddr, "err", err)
		}

		deps.Cache = cache.NewBreaker(cache.NewRedisStore(rc.Raw(), cfg.CacheTTL), cache.BreakerConfig{})
		checks["redis"] = rc.Ping
	} else {
		deps.Cache = cache.New(cfg.CacheTTL)
	}

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, deps)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.Storage)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	// Graceful shutdown

	<-ctx.Done()
	shuttingDown.Store(true)
	log.Info("server shutting down")

	shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}

	log.Info("shutdown complete")
}
