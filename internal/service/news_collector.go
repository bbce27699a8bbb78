package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"cryptodigest/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type NewsSource interface {
	FetchLatest(ctx context.Context, keyword string, limit int) ([]domain.Article, error)
}

type NewsStore interface {
	InsertNewsRecords(ctx context.Context, records []domain.NewsRecord) error
}

// NewsCollector fetches recent articles for each configured asset's keyword
// and persists them.
type NewsCollector struct {
	tracer      trace.Tracer
	source      NewsSource
	store       NewsStore
	symbols     []string
	maxArticles int

	now func() time.Time
}

func NewNewsCollector(
	tracer trace.Tracer,
	source NewsSource,
	store NewsStore,
	symbols []string,
	maxArticles int,
) *NewsCollector {
	return &NewsCollector{
		tracer:      tracer,
		source:      source,
		store:       store,
		symbols:     symbols,
		maxArticles: maxArticles,
		now:         time.Now,
	}
}

// Run fetches up to maxArticles articles per keyword, accumulates the full
// set, and stores it in a single batch. A keyword that yields zero articles
// is not an error. A fetch failure for any keyword aborts the run before
// anything is persisted.
func (c *NewsCollector) Run(ctx context.Context) error {
	_, span := c.tracer.Start(ctx, "news-collector.run")
	defer span.End()

	capturedAt := c.now().UTC()
	var records []domain.NewsRecord
	for _, symbol := range c.symbols {
		keyword, ok := domain.NewsKeyword[symbol]
		if !ok {
			keyword = symbol
		}
		articles, err := c.source.FetchLatest(ctx, keyword, c.maxArticles)
		if err != nil {
			return fmt.Errorf("collect news for %q: %w", keyword, err)
		}
		for _, a := range articles {
			records = append(records, domain.NewsRecord{
				Headline:    a.Title,
				Source:      a.Source,
				URL:         a.URL,
				Keyword:     keyword,
				PublishedAt: a.PublishedAt,
				CapturedAt:  capturedAt,
			})
		}
	}

	if len(records) == 0 {
		log.Println("No news articles found for any keyword")
		return nil
	}

	if err := c.store.InsertNewsRecords(ctx, records); err != nil {
		return fmt.Errorf("collect news: %w", err)
	}

	log.Printf("Collected %d news articles across %d keywords", len(records), len(c.symbols))
	return nil
}
