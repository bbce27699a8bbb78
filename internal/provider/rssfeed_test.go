package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cryptodigest/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Crypto Wire</title>
    <item>
      <title>Bitcoin climbs toward record territory</title>
      <link>https://example.com/1</link>
      <description>BTC up again</description>
      <pubDate>Sun, 30 Aug 2026 08:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Altcoin roundup</title>
      <link>https://example.com/2</link>
      <description>Everything else</description>
      <pubDate>Sun, 30 Aug 2026 07:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Bitcoin miners expand capacity</title>
      <link>https://example.com/3</link>
      <description>Hash rate grows</description>
      <pubDate>Sun, 30 Aug 2026 06:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func TestRSSFetchLatestFiltersByKeyword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	p := NewRSSNewsProvider(trace.NewNoopTracerProvider().Tracer("test"), srv.URL)
	articles, err := p.FetchLatest(context.Background(), "Bitcoin", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 matching articles, got %d", len(articles))
	}
	if articles[0].Source != "Crypto Wire" {
		t.Fatalf("unexpected source: %s", articles[0].Source)
	}
	if articles[0].PublishedAt.IsZero() {
		t.Fatal("expected parsed publish date")
	}
}

func TestRSSFetchLatestHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	p := NewRSSNewsProvider(trace.NewNoopTracerProvider().Tracer("test"), srv.URL)
	articles, err := p.FetchLatest(context.Background(), "Bitcoin", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
}

func TestRSSFetchLatestUnreachableFeed(t *testing.T) {
	p := NewRSSNewsProvider(trace.NewNoopTracerProvider().Tracer("test"), "http://127.0.0.1:1")
	_, err := p.FetchLatest(context.Background(), "Bitcoin", 5)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestRSSFetchLatestRequiresFeedURL(t *testing.T) {
	p := NewRSSNewsProvider(trace.NewNoopTracerProvider().Tracer("test"), "")
	if _, err := p.FetchLatest(context.Background(), "Bitcoin", 5); err == nil {
		t.Fatal("expected error for missing feed url")
	}
}
