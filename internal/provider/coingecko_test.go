package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"cryptodigest/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestCoinGecko(fn roundTripFunc) *CoinGeckoProvider {
	p := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"))
	p.baseURL = "http://example"
	p.client = &http.Client{Transport: fn}
	p.limiter = NewRateLimiter(10, time.Millisecond)
	return p
}

func jsonResponse(status int, payload any) *http.Response {
	data, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(data)),
		Header:     make(http.Header),
	}
}

func TestFetchPrices(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/simple/price") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		q := req.URL.Query()
		if q.Get("ids") != "bitcoin,ethereum" {
			t.Fatalf("unexpected ids: %s", q.Get("ids"))
		}
		if q.Get("vs_currencies") != "usd" {
			t.Fatalf("unexpected currency: %s", q.Get("vs_currencies"))
		}
		return jsonResponse(http.StatusOK, map[string]map[string]float64{
			"bitcoin":  {"usd": 65000},
			"ethereum": {"usd": 3200},
		}), nil
	})

	prices, err := p.FetchPrices(context.Background(), []string{"BTC", "ETH"}, "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prices["BTC"] != 65000 || prices["ETH"] != 3200 {
		t.Fatalf("unexpected prices: %v", prices)
	}
}

func TestFetchPricesMissingAssetIsMalformed(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, map[string]map[string]float64{
			"bitcoin": {"usd": 65000},
		}), nil
	})

	_, err := p.FetchPrices(context.Background(), []string{"BTC", "ETH"}, "USD")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestFetchPricesAuthError(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, map[string]string{"error": "bad key"}), nil
	})

	_, err := p.FetchPrices(context.Background(), []string{"BTC"}, "USD")
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestFetchPricesServerErrorIsNetwork(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, map[string]string{"error": "down"}), nil
	})

	_, err := p.FetchPrices(context.Background(), []string{"BTC"}, "USD")
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestFetchPricesTransportErrorIsNetwork(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := p.FetchPrices(context.Background(), []string{"BTC"}, "USD")
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestFetchPricesBadJSONIsMalformed(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("not json")),
			Header:     make(http.Header),
		}, nil
	})

	_, err := p.FetchPrices(context.Background(), []string{"BTC"}, "USD")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestFetchPricesRejectsUnknownSymbol(t *testing.T) {
	t.Parallel()

	p := newTestCoinGecko(func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected for unknown symbol")
		return nil, nil
	})

	_, err := p.FetchPrices(context.Background(), []string{"NOPE"}, "USD")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}
