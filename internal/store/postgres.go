package store

import (
	"context"

	"cryptodigest/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createTables = `
CREATE TABLE IF NOT EXISTS prices (
    id          BIGSERIAL   PRIMARY KEY,
    symbol      TEXT        NOT NULL,
    price       NUMERIC     NOT NULL,
    currency    TEXT        NOT NULL,
    captured_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_prices_captured_at
    ON prices (captured_at DESC);

CREATE TABLE IF NOT EXISTS news (
    id           BIGSERIAL   PRIMARY KEY,
    headline     TEXT        NOT NULL,
    source       TEXT        NOT NULL,
    url          TEXT        NOT NULL DEFAULT '',
    keyword      TEXT        NOT NULL,
    published_at TIMESTAMPTZ NOT NULL,
    captured_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_news_captured_at
    ON news (captured_at DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres stores records directly in a Postgres database via pgx.
type Postgres struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewPostgres(pool PgxPool, tracer trace.Tracer) *Postgres {
	return &Postgres{pool: pool, tracer: tracer}
}

func (s *Postgres) RunMigrations(ctx context.Context) error {
	_, span := s.tracer.Start(ctx, "store.run-migrations")
	defer span.End()

	if _, err := s.pool.Exec(ctx, createTables); err != nil {
		return domain.StoreError("run migrations", err)
	}
	return nil
}

func (s *Postgres) InsertPriceRecords(ctx context.Context, records []domain.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	_, span := s.tracer.Start(ctx, "store.insert-prices")
	defer span.End()

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(
			`INSERT INTO prices (symbol, price, currency, captured_at)
			 VALUES ($1, $2, $3, $4)`,
			r.Symbol, r.Price, r.Currency, r.CapturedAt.UTC(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return domain.StoreError("insert prices", err)
		}
	}
	return nil
}

func (s *Postgres) InsertNewsRecords(ctx context.Context, records []domain.NewsRecord) error {
	if len(records) == 0 {
		return nil
	}

	_, span := s.tracer.Start(ctx, "store.insert-news")
	defer span.End()

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(
			`INSERT INTO news (headline, source, url, keyword, published_at, captured_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			r.Headline, r.Source, r.URL, r.Keyword, r.PublishedAt.UTC(), r.CapturedAt.UTC(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return domain.StoreError("insert news", err)
		}
	}
	return nil
}

func (s *Postgres) LatestPriceRecords(ctx context.Context, limit int) ([]domain.PriceRecord, error) {
	_, span := s.tracer.Start(ctx, "store.latest-prices")
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT symbol, price, currency, captured_at
		 FROM prices
		 ORDER BY captured_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, domain.StoreError("latest prices", err)
	}
	defer rows.Close()

	var records []domain.PriceRecord
	for rows.Next() {
		var r domain.PriceRecord
		if err := rows.Scan(&r.Symbol, &r.Price, &r.Currency, &r.CapturedAt); err != nil {
			return nil, domain.StoreError("latest prices", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("latest prices", err)
	}
	return records, nil
}

func (s *Postgres) LatestNewsRecords(ctx context.Context, limit int) ([]domain.NewsRecord, error) {
	_, span := s.tracer.Start(ctx, "store.latest-news")
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT headline, source, url, keyword, published_at, captured_at
		 FROM news
		 ORDER BY captured_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, domain.StoreError("latest news", err)
	}
	defer rows.Close()

	var records []domain.NewsRecord
	for rows.Next() {
		var r domain.NewsRecord
		if err := rows.Scan(&r.Headline, &r.Source, &r.URL, &r.Keyword, &r.PublishedAt, &r.CapturedAt); err != nil {
			return nil, domain.StoreError("latest news", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("latest news", err)
	}
	return records, nil
}
