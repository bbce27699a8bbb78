package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cryptodigest/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPIProvider fetches recent articles from newsapi.org.
type NewsAPIProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
}

func NewNewsAPIProvider(tracer trace.Tracer, apiKey string) *NewsAPIProvider {
	return &NewsAPIProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: newsAPIBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
	}
}

// FetchLatest fetches the most recent articles whose title matches the
// keyword, filtered for relevance, at most limit of them. Zero articles is
// not an error.
func (p *NewsAPIProvider) FetchLatest(ctx context.Context, keyword string, limit int) ([]domain.Article, error) {
	_, span := p.tracer.Start(ctx, "newsapi.fetch-latest")
	defer span.End()

	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Set("qInTitle", keyword)
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("apiKey", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, domain.NetworkError("fetch news", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.AuthError("fetch news",
			fmt.Errorf("news API error %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, domain.NetworkError("fetch news",
			fmt.Errorf("news API error %d: %s", resp.StatusCode, string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NetworkError("fetch news", err)
	}

	var raw struct {
		Status   string `json:"status"`
		Articles []struct {
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			Title       string    `json:"title"`
			Description string    `json:"description"`
			Content     string    `json:"content"`
			URL         string    `json:"url"`
			PublishedAt time.Time `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, domain.MalformedResponseError("fetch news", err)
	}
	if raw.Status != "ok" {
		return nil, domain.MalformedResponseError("fetch news",
			fmt.Errorf("unexpected status %q", raw.Status))
	}

	articles := make([]domain.Article, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		if len(articles) >= limit {
			break
		}
		article := domain.Article{
			Title:       strings.TrimSpace(a.Title),
			Description: strings.TrimSpace(a.Description),
			Content:     strings.TrimSpace(a.Content),
			Source:      strings.TrimSpace(a.Source.Name),
			URL:         a.URL,
			PublishedAt: a.PublishedAt.UTC(),
		}
		if article.Title == "" || !isRelevant(article, keyword) {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

// isRelevant keeps an article when the keyword appears in its title, or at
// least twice across description and content. Filters out the loosely
// related articles the news API returns for broad queries.
func isRelevant(a domain.Article, keyword string) bool {
	kw := strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(a.Title), kw) {
		return true
	}
	count := strings.Count(strings.ToLower(a.Description), kw) +
		strings.Count(strings.ToLower(a.Content), kw)
	return count >= 2
}
