package main

import (
	"context"
	"log"

	"cryptodigest/internal/config"
	"cryptodigest/internal/provider"
	"cryptodigest/internal/service"
	"cryptodigest/internal/store"
	"cryptodigest/pkg/tracing"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
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

	collector := service.NewNewsCollector(
		tracer,
		newsSource(cfg, tracer),
		st,
		cfg.Assets,
		cfg.NewsMaxArticles,
	)
	if err := collector.Run(ctx); err != nil {
		log.Fatalf("news collection failed: %v", err)
	}
}

func newsSource(cfg *config.Config, tracer trace.Tracer) service.NewsSource {
	if cfg.NewsProvider == "rss" {
		return provider.NewRSSNewsProvider(tracer, cfg.NewsFeedURL)
	}
	return provider.NewNewsAPIProvider(tracer, cfg.NewsAPIKey)
}
