package domain

import "time"

// PriceRecord is one observed price for an asset. Records are append-only:
// collectors insert them and nothing in this system mutates or deletes them.
type PriceRecord struct {
	Symbol     string    `json:"symbol"`
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
	CapturedAt time.Time `json:"captured_at"`
}

// NewsRecord is one article captured for a keyword. Duplicates across runs
// are possible and tolerated; there is no dedup key.
type NewsRecord struct {
	Headline    string    `json:"headline"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Keyword     string    `json:"keyword"`
	PublishedAt time.Time `json:"published_at"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Article is a raw item returned by a news source, before it is turned
// into a NewsRecord.
type Article struct {
	Title       string
	Description string
	Content     string
	Source      string
	URL         string
	PublishedAt time.Time
}

// CoinGeckoID maps internal symbols to CoinGecko API identifiers.
var CoinGeckoID = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"DOT":   "polkadot",
	"AVAX":  "avalanche-2",
	"LINK":  "chainlink",
	"MATIC": "matic-network",
}

// NewsKeyword maps symbols to the search keyword used against news sources.
var NewsKeyword = map[string]string{
	"BTC":   "Bitcoin",
	"ETH":   "Ethereum",
	"SOL":   "Solana",
	"XRP":   "XRP",
	"ADA":   "Cardano",
	"DOGE":  "Dogecoin",
	"DOT":   "Polkadot",
	"AVAX":  "Avalanche",
	"LINK":  "Chainlink",
	"MATIC": "Polygon",
}

// DefaultAssets are the symbols tracked when ASSETS is not configured.
var DefaultAssets = []string{"BTC", "ETH"}
