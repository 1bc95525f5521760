package main

import (
	"context"
	"os"
	"time"

	"github.com/geocoder89/tasktracker/internal/config"
	"github.com/geocoder89/tasktracker/internal/db"
	"github.com/geocoder89/tasktracker/internal/observability"
)

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DBURL, 1)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Error("migration failed", "err", err)
		os.Exit(1)
	}

	log.Info("migration completed successfully")
}
