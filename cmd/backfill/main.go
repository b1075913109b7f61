// Command backfill is a one-shot migration tool for catalog records imported
// from the legacy store: it fills in missing media types (inferred from file
// extensions) and missing color swatches (from the legacy palette), then
// invalidates the snapshot cache. Records that are already complete are left
// untouched, so the tool is safe to re-run.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/maisonarte/catalog-service/internal/cache"
	"github.com/maisonarte/catalog-service/internal/catalog"
	"github.com/maisonarte/catalog-service/internal/config"
	"github.com/maisonarte/catalog-service/internal/repository/postgres"
	"github.com/maisonarte/catalog-service/pkg/database"
	"github.com/maisonarte/catalog-service/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("catalog-backfill", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, &database.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPass,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSL,
		MaxConns: 5,
		MinConns: 1,
	})
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	products := postgres.NewProductRepository(pool)

	all, err := products.ListAll(ctx)
	if err != nil {
		log.Error("failed to list products", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var updated, mediaFilled, swatchesFilled int
	for i := range all {
		p := &all[i]

		m := catalog.BackfillMediaTypes(p.Media)
		s := catalog.BackfillSwatches(p.Colors)
		if m == 0 && s == 0 {
			continue
		}
		mediaFilled += m
		swatchesFilled += s

		log.Info("product needs backfill",
			slog.String("id", p.ID),
			slog.String("slug", p.Slug),
			slog.Int("media_types", m),
			slog.Int("swatches", s),
		)

		if *dryRun {
			continue
		}
		if err := products.Update(ctx, p); err != nil {
			log.Error("failed to update product",
				slog.String("id", p.ID),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		updated++
	}

	if updated > 0 {
		redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn("could not reach redis, snapshot cache not invalidated",
				slog.String("error", err.Error()))
		} else {
			defer redisClient.Close()
			snapshots := cache.NewRedisSnapshotStore(redisClient, cfg.SnapshotTTL, log)
			if err := snapshots.Invalidate(ctx); err != nil {
				log.Warn("failed to invalidate snapshot cache", slog.String("error", err.Error()))
			}
		}
	}

	log.Info("backfill complete",
		slog.Int("products_scanned", len(all)),
		slog.Int("products_updated", updated),
		slog.Int("media_types_filled", mediaFilled),
		slog.Int("swatches_filled", swatchesFilled),
		slog.Bool("dry_run", *dryRun),
	)
}
