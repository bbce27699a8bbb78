package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"cryptodigest/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestSupabase(fn roundTripFunc) *Supabase {
	s := NewSupabase("http://example", "svc-key", trace.NewNoopTracerProvider().Tracer("test"))
	s.client = &http.Client{Transport: fn}
	return s
}

func TestSupabaseInsertPriceRecords(t *testing.T) {
	t.Parallel()

	capturedAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	var gotBody []byte

	s := newTestSupabase(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/rest/v1/prices" {
			t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		if req.Header.Get("apikey") != "svc-key" {
			t.Fatal("apikey header missing")
		}
		if req.Header.Get("Authorization") != "Bearer svc-key" {
			t.Fatal("bearer token missing")
		}
		if req.Header.Get("Prefer") != "return=minimal" {
			t.Fatal("Prefer header missing")
		}
		gotBody, _ = io.ReadAll(req.Body)
		return &http.Response{
			StatusCode: http.StatusCreated,
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Header:     make(http.Header),
		}, nil
	})

	records := []domain.PriceRecord{
		{Symbol: "BTC", Price: 65000, Currency: "USD", CapturedAt: capturedAt},
		{Symbol: "ETH", Price: 3200, Currency: "USD", CapturedAt: capturedAt},
	}
	if err := s.InsertPriceRecords(context.Background(), records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []domain.PriceRecord
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("payload is not a JSON array: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Symbol != "BTC" || decoded[1].Price != 3200 {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestSupabaseInsertEmptyIsNoop(t *testing.T) {
	t.Parallel()

	s := newTestSupabase(func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected for empty insert")
		return nil, nil
	})
	if err := s.InsertNewsRecords(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSupabaseLatestPriceRecords(t *testing.T) {
	t.Parallel()

	s := newTestSupabase(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/rest/v1/prices" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		q := req.URL.Query()
		if q.Get("order") != "captured_at.desc" {
			t.Fatalf("unexpected order: %s", q.Get("order"))
		}
		if q.Get("limit") != "10" {
			t.Fatalf("unexpected limit: %s", q.Get("limit"))
		}
		payload := []domain.PriceRecord{
			{Symbol: "BTC", Price: 65000, Currency: "USD",
				CapturedAt: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)},
		}
		data, _ := json.Marshal(payload)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(data)),
			Header:     make(http.Header),
		}, nil
	})

	records, err := s.LatestPriceRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Symbol != "BTC" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestSupabaseAuthError(t *testing.T) {
	t.Parallel()

	s := newTestSupabase(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Header:     make(http.Header),
		}, nil
	})

	_, err := s.LatestNewsRecords(context.Background(), 5)
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestSupabaseServerErrorIsStoreError(t *testing.T) {
	t.Parallel()

	s := newTestSupabase(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Body:       io.NopCloser(bytes.NewReader([]byte("maintenance"))),
			Header:     make(http.Header),
		}, nil
	})

	err := s.InsertPriceRecords(context.Background(), []domain.PriceRecord{{Symbol: "BTC"}})
	if !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestSupabaseTransportErrorIsStoreError(t *testing.T) {
	t.Parallel()

	s := newTestSupabase(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset")
	})

	err := s.InsertPriceRecords(context.Background(), []domain.PriceRecord{{Symbol: "BTC"}})
	if !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}
