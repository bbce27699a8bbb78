package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cryptodigest/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

func noopTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

type fakePriceProvider struct {
	prices      map[string]float64
	err         error
	gotSymbols  []string
	gotCurrency string
}

func (f *fakePriceProvider) FetchPrices(ctx context.Context, symbols []string, currency string) (map[string]float64, error) {
	f.gotSymbols = symbols
	f.gotCurrency = currency
	return f.prices, f.err
}

type fakePriceStore struct {
	inserted [][]domain.PriceRecord
	err      error
}

func (f *fakePriceStore) InsertPriceRecords(ctx context.Context, records []domain.PriceRecord) error {
	f.inserted = append(f.inserted, records)
	return f.err
}

type fakeRedis struct {
	setKeys []string
	setErr  error
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.setKeys = append(f.setKeys, key)
	return redis.NewStatusResult("", f.setErr)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult("", redis.Nil)
}

func TestPriceCollectorOneRecordPerAsset(t *testing.T) {
	provider := &fakePriceProvider{prices: map[string]float64{"BTC": 65000, "ETH": 3200}}
	store := &fakePriceStore{}
	c := NewPriceCollector(noopTracer(), provider, store, nil, []string{"BTC", "ETH"}, "USD")
	c.now = func() time.Time { return time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC) }

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("expected a single insert, got %d", len(store.inserted))
	}
	records := store.inserted[0]
	if len(records) != 2 {
		t.Fatalf("expected one record per asset, got %d", len(records))
	}
	for _, rec := range records {
		if !rec.CapturedAt.Equal(time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)) {
			t.Fatalf("records must share the run timestamp, got %v", rec.CapturedAt)
		}
		if rec.Currency != "USD" {
			t.Fatalf("unexpected currency: %s", rec.Currency)
		}
	}
	if records[0].Symbol != "BTC" || records[0].Price != 65000 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if provider.gotCurrency != "USD" {
		t.Fatalf("currency not forwarded: %s", provider.gotCurrency)
	}
}

func TestPriceCollectorTimestampsAdvanceAcrossRuns(t *testing.T) {
	provider := &fakePriceProvider{prices: map[string]float64{"BTC": 65000, "ETH": 3200}}
	store := &fakePriceStore{}
	c := NewPriceCollector(noopTracer(), provider, store, nil, []string{"BTC", "ETH"}, "USD")

	clock := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error on first run: %v", err)
	}
	clock = clock.Add(3 * time.Hour)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}

	if len(store.inserted) != 2 {
		t.Fatalf("expected two inserts, got %d", len(store.inserted))
	}
	first := make(map[string]time.Time, len(store.inserted[0]))
	for _, rec := range store.inserted[0] {
		first[rec.Symbol] = rec.CapturedAt
	}
	for _, rec := range store.inserted[1] {
		if !rec.CapturedAt.After(first[rec.Symbol]) {
			t.Fatalf("captured_at for %s did not advance: %v -> %v",
				rec.Symbol, first[rec.Symbol], rec.CapturedAt)
		}
	}
}

func TestPriceCollectorFetchFailureInsertsNothing(t *testing.T) {
	provider := &fakePriceProvider{err: domain.NetworkError("fetch prices", errors.New("timeout"))}
	store := &fakePriceStore{}
	c := NewPriceCollector(noopTracer(), provider, store, nil, []string{"BTC"}, "USD")

	err := c.Run(context.Background())
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatal("nothing should be persisted when the fetch fails")
	}
}

func TestPriceCollectorMissingSymbolInsertsNothing(t *testing.T) {
	provider := &fakePriceProvider{prices: map[string]float64{"BTC": 65000}}
	store := &fakePriceStore{}
	c := NewPriceCollector(noopTracer(), provider, store, nil, []string{"BTC", "ETH"}, "USD")

	err := c.Run(context.Background())
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatal("nothing should be persisted on a partial response")
	}
}

func TestPriceCollectorStoreFailure(t *testing.T) {
	provider := &fakePriceProvider{prices: map[string]float64{"BTC": 65000}}
	store := &fakePriceStore{err: domain.StoreError("insert prices", errors.New("unavailable"))}
	c := NewPriceCollector(noopTracer(), provider, store, nil, []string{"BTC"}, "USD")

	if err := c.Run(context.Background()); !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestPriceCollectorRedisFailureIsNonFatal(t *testing.T) {
	provider := &fakePriceProvider{prices: map[string]float64{"BTC": 65000}}
	store := &fakePriceStore{}
	cache := &fakeRedis{setErr: errors.New("connection refused")}
	c := NewPriceCollector(noopTracer(), provider, store, cache, []string{"BTC"}, "USD")

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("cache failures must not fail the run: %v", err)
	}
	if len(cache.setKeys) != 1 || cache.setKeys[0] != "price:BTC" {
		t.Fatalf("unexpected cache writes: %v", cache.setKeys)
	}
}
