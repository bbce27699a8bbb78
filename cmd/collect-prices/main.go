package main

import (
	"context"
	"log"

	"cryptodigest/internal/cache"
	"cryptodigest/internal/config"
	"cryptodigest/internal/provider"
	"cryptodigest/internal/service"
	"cryptodigest/internal/store"
	"cryptodigest/pkg/tracing"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := tracing.InitTracer(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	st, closeStore, err := store.FromConfig(ctx, cfg, tracer)
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}
	defer closeStore()

	var redisClient service.RedisClient
	if cfg.RedisURL != "" {
		client, err := cache.InitRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable, continuing without cache: %v", err)
		} else {
			redisClient = client
			defer client.Close()
		}
	}

	collector := service.NewPriceCollector(
		tracer,
		provider.NewCoinGeckoProvider(tracer),
		st,
		redisClient,
		cfg.Assets,
		cfg.Currency,
	)
	if err := collector.Run(ctx); err != nil {
		log.Fatalf("price collection failed: %v", err)
	}
}
