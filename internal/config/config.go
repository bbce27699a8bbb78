package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"cryptodigest/internal/domain"
)

type Config struct {
	DatabaseURL  string
	SupabaseURL  string
	SupabaseKey  string
	StoreBackend string
	RedisURL     string

	Assets   []string
	Currency string

	NewsAPIKey      string
	NewsProvider    string
	NewsFeedURL     string
	NewsMaxArticles int

	LLMProvider     string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	DigestLookback  int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailTo       string

	TelegramBotToken string
	TelegramChatID   int64

	CronSchedule  string
	StepDelaySecs int
	HTTPPort      int
	TriggerAPIKey string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SupabaseURL:      strings.TrimRight(strings.TrimSpace(os.Getenv("SUPABASE_URL")), "/"),
		SupabaseKey:      os.Getenv("SUPABASE_KEY"),
		RedisURL:         os.Getenv("REDIS_URL"),
		NewsAPIKey:       os.Getenv("NEWS_API_KEY"),
		NewsFeedURL:      strings.TrimSpace(os.Getenv("NEWS_FEED_URL")),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		SMTPHost:         strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		MailFrom:         strings.TrimSpace(os.Getenv("MAIL_FROM")),
		MailTo:           strings.TrimSpace(os.Getenv("MAIL_TO")),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TriggerAPIKey:    os.Getenv("TRIGGER_API_KEY"),
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND")))
	if cfg.StoreBackend == "" {
		if cfg.SupabaseURL != "" {
			cfg.StoreBackend = "supabase"
		} else {
			cfg.StoreBackend = "postgres"
		}
	}
	if cfg.StoreBackend != "postgres" && cfg.StoreBackend != "supabase" {
		log.Printf("Warning: unsupported STORE_BACKEND=%q, defaulting to postgres", cfg.StoreBackend)
		cfg.StoreBackend = "postgres"
	}
	if cfg.StoreBackend == "postgres" && cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.StoreBackend == "supabase" && (cfg.SupabaseURL == "" || cfg.SupabaseKey == "") {
		log.Println("Warning: SUPABASE_URL or SUPABASE_KEY not set")
	}

	cfg.Assets = parseAssets(os.Getenv("ASSETS"))

	cfg.Currency = strings.ToUpper(strings.TrimSpace(os.Getenv("VS_CURRENCY")))
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}

	cfg.NewsProvider = strings.ToLower(strings.TrimSpace(os.Getenv("NEWS_PROVIDER")))
	if cfg.NewsProvider == "" {
		cfg.NewsProvider = "newsapi"
	}
	if cfg.NewsProvider != "newsapi" && cfg.NewsProvider != "rss" {
		log.Printf("Warning: unsupported NEWS_PROVIDER=%q, defaulting to newsapi", cfg.NewsProvider)
		cfg.NewsProvider = "newsapi"
	}
	if cfg.NewsProvider == "newsapi" && cfg.NewsAPIKey == "" {
		log.Println("Warning: NEWS_API_KEY not set")
	}

	cfg.NewsMaxArticles = 5
	if v := strings.TrimSpace(os.Getenv("NEWS_MAX_ARTICLES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NewsMaxArticles = n
		}
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "openai"
	}
	if cfg.LLMProvider != "openai" && cfg.LLMProvider != "anthropic" {
		log.Printf("Warning: unsupported LLM_PROVIDER=%q, defaulting to openai", cfg.LLMProvider)
		cfg.LLMProvider = "openai"
	}
	if cfg.LLMProvider == "openai" && cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set")
	}
	if cfg.LLMProvider == "anthropic" && cfg.AnthropicAPIKey == "" {
		log.Println("Warning: ANTHROPIC_API_KEY not set")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}
	cfg.AnthropicModel = strings.TrimSpace(os.Getenv("ANTHROPIC_MODEL"))

	cfg.DigestLookback = 10
	if v := strings.TrimSpace(os.Getenv("DIGEST_LOOKBACK")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DigestLookback = n
		}
	}

	cfg.SMTPPort = 587
	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SMTPPort = n
		}
	}
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set, digest emails cannot be sent")
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = n
		} else {
			log.Printf("Warning: invalid TELEGRAM_CHAT_ID=%q", v)
		}
	}

	cfg.CronSchedule = strings.TrimSpace(os.Getenv("RUN_SCHEDULE"))
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "0 */3 * * *"
	}

	cfg.StepDelaySecs = 60
	if v := strings.TrimSpace(os.Getenv("STEP_DELAY_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.StepDelaySecs = n
		}
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	return cfg
}

// parseAssets validates a comma-separated symbol list against the supported
// set, falling back to the default assets when empty or entirely invalid.
func parseAssets(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string(nil), domain.DefaultAssets...)
	}
	var symbols []string
	for _, part := range strings.Split(raw, ",") {
		sym := strings.ToUpper(strings.TrimSpace(part))
		if sym == "" {
			continue
		}
		if _, ok := domain.CoinGeckoID[sym]; !ok {
			log.Printf("Warning: skipping unsupported asset %q", sym)
			continue
		}
		symbols = append(symbols, sym)
	}
	if len(symbols) == 0 {
		log.Println("Warning: no valid assets configured, using defaults")
		return append([]string(nil), domain.DefaultAssets...)
	}
	return symbols
}
