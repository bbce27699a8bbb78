package store

import (
	"context"
	"log"

	"cryptodigest/internal/config"
	"cryptodigest/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"
)

// FromConfig builds the configured store backend. The returned func releases
// the backend's resources and is safe to call once.
func FromConfig(ctx context.Context, cfg *config.Config, tracer trace.Tracer) (Store, func(), error) {
	if cfg.StoreBackend == "supabase" {
		log.Println("Using Supabase store at", cfg.SupabaseURL)
		return NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, tracer), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, domain.StoreError("connect postgres", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, domain.StoreError("connect postgres", err)
	}

	pg := NewPostgres(pool, tracer)
	if err := pg.RunMigrations(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	log.Println("Connected to Postgres")
	return pg, pool.Close, nil
}
