package main

import (
	"context"
	"log"

	"cryptodigest/internal/cache"
	"cryptodigest/internal/config"
	"cryptodigest/internal/llm"
	"cryptodigest/internal/mailer"
	"cryptodigest/internal/notify"
	"cryptodigest/internal/service"
	"cryptodigest/internal/store"
	"cryptodigest/pkg/tracing"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := tracing.InitTracer(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	st, closeStore, err := store.FromConfig(ctx, cfg, tracer)
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}
	defer closeStore()

	var redisClient service.RedisClient
	if cfg.RedisURL != "" {
		client, err := cache.InitRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable, continuing without cache: %v", err)
		} else {
			redisClient = client
			defer client.Close()
		}
	}

	digest := service.NewDigest(
		tracer,
		st,
		llmClient(cfg),
		mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.MailTo),
		notifier(cfg),
		redisClient,
		cfg.DigestLookback,
	)
	if err := digest.Run(ctx); err != nil {
		log.Fatalf("digest failed: %v", err)
	}
}

func llmClient(cfg *config.Config) llm.Client {
	if cfg.LLMProvider == "anthropic" {
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
}

func notifier(cfg *config.Config) service.Notifier {
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == 0 {
		return nil
	}
	n, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("telegram notifier unavailable: %v", err)
		return nil
	}
	return n
}
