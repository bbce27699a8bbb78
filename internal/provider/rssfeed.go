package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cryptodigest/internal/domain"

	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel/trace"
)

// RSSNewsProvider is an alternate news source that keyword-filters a single
// RSS/Atom feed instead of querying the news API.
type RSSNewsProvider struct {
	parser  *gofeed.Parser
	feedURL string
	tracer  trace.Tracer
}

func NewRSSNewsProvider(tracer trace.Tracer, feedURL string) *RSSNewsProvider {
	return &RSSNewsProvider{
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
		tracer:  tracer,
	}
}

func (p *RSSNewsProvider) FetchLatest(ctx context.Context, keyword string, limit int) ([]domain.Article, error) {
	_, span := p.tracer.Start(ctx, "rss.fetch-latest")
	defer span.End()

	if p.feedURL == "" {
		return nil, fmt.Errorf("fetch news: feed url is required")
	}
	if limit <= 0 {
		limit = 5
	}

	feed, err := p.parser.ParseURLWithContext(p.feedURL, ctx)
	if err != nil {
		return nil, domain.NetworkError("fetch news", err)
	}

	kw := strings.ToLower(keyword)
	articles := make([]domain.Article, 0, limit)
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" || !strings.Contains(strings.ToLower(title), kw) {
			continue
		}
		publishedAt := time.Now().UTC()
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed.UTC()
		}
		articles = append(articles, domain.Article{
			Title:       title,
			Description: strings.TrimSpace(item.Description),
			Source:      strings.TrimSpace(feed.Title),
			URL:         item.Link,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}
