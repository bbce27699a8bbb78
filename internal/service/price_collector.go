package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cryptodigest/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const priceCacheTTL = 90 * time.Second

type PriceProvider interface {
	FetchPrices(ctx context.Context, symbols []string, currency string) (map[string]float64, error)
}

type PriceStore interface {
	InsertPriceRecords(ctx context.Context, records []domain.PriceRecord) error
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// PriceCollector fetches current prices for the configured assets and
// persists one record per asset per run.
type PriceCollector struct {
	tracer   trace.Tracer
	provider PriceProvider
	store    PriceStore
	redis    RedisClient
	symbols  []string
	currency string

	now func() time.Time
}

func NewPriceCollector(
	tracer trace.Tracer,
	provider PriceProvider,
	store PriceStore,
	redisClient RedisClient,
	symbols []string,
	currency string,
) *PriceCollector {
	return &PriceCollector{
		tracer:   tracer,
		provider: provider,
		store:    store,
		redis:    redisClient,
		symbols:  symbols,
		currency: currency,
		now:      time.Now,
	}
}

// Run fetches prices for every configured asset and stores them in a single
// batch. All records of one run share the same capture timestamp. The run is
// all-or-nothing: if the fetch or the insert fails, nothing is persisted.
func (c *PriceCollector) Run(ctx context.Context) error {
	_, span := c.tracer.Start(ctx, "price-collector.run")
	defer span.End()

	prices, err := c.provider.FetchPrices(ctx, c.symbols, c.currency)
	if err != nil {
		return fmt.Errorf("collect prices: %w", err)
	}

	capturedAt := c.now().UTC()
	records := make([]domain.PriceRecord, 0, len(c.symbols))
	for _, symbol := range c.symbols {
		price, ok := prices[symbol]
		if !ok {
			return domain.MalformedResponseError("collect prices",
				fmt.Errorf("no price returned for %s", symbol))
		}
		records = append(records, domain.PriceRecord{
			Symbol:     symbol,
			Price:      price,
			Currency:   c.currency,
			CapturedAt: capturedAt,
		})
	}

	if err := c.store.InsertPriceRecords(ctx, records); err != nil {
		return fmt.Errorf("collect prices: %w", err)
	}

	for _, rec := range records {
		if c.redis != nil {
			if err := c.setPriceCache(ctx, rec); err != nil {
				log.Printf("redis cache write error for %s: %v", rec.Symbol, err)
			}
		}
	}

	log.Printf("Collected prices for %d assets", len(records))
	return nil
}

func (c *PriceCollector) setPriceCache(ctx context.Context, rec domain.PriceRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, "price:"+rec.Symbol, data, priceCacheTTL).Err()
}
