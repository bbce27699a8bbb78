package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cryptodigest/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches current prices from the CoinGecko free API.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a provider with built-in rate limiting.
// Rate limited to 8 requests per minute (one token every 7.5 seconds).
func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

// FetchPrices fetches current prices for the given symbols in a single API
// call. Every requested symbol must be present in the response; a missing
// entry is treated as a malformed response so the run aborts rather than
// committing a partial set.
func (p *CoinGeckoProvider) FetchPrices(ctx context.Context, symbols []string, currency string) (map[string]float64, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-prices")
	defer span.End()

	ids := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		id, ok := domain.CoinGeckoID[symbol]
		if !ok {
			return nil, domain.MalformedResponseError("fetch prices",
				fmt.Errorf("unsupported symbol: %s", symbol))
		}
		ids = append(ids, id)
	}
	vsCurrency := strings.ToLower(currency)

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		p.baseURL, strings.Join(ids, ","), vsCurrency)

	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	// Response shape: {"bitcoin": {"usd": 65000}, "ethereum": {"usd": 3200}}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, domain.MalformedResponseError("fetch prices", err)
	}

	result := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		entry, ok := raw[domain.CoinGeckoID[symbol]]
		if !ok {
			return nil, domain.MalformedResponseError("fetch prices",
				fmt.Errorf("no entry for %s", symbol))
		}
		price, ok := entry[vsCurrency]
		if !ok {
			return nil, domain.MalformedResponseError("fetch prices",
				fmt.Errorf("no %s price for %s", vsCurrency, symbol))
		}
		result[symbol] = price
	}

	return result, nil
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, domain.NetworkError("fetch prices", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.AuthError("fetch prices",
			fmt.Errorf("coingecko API error %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, domain.NetworkError("fetch prices",
			fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body)))
	}

	return io.ReadAll(resp.Body)
}
