package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"cryptodigest/internal/domain"
	"cryptodigest/internal/llm"

	"go.opentelemetry.io/otel/trace"
)

const (
	summaryMaxTokens   = 200
	summaryTemperature = 0.5
)

type DigestStore interface {
	LatestPriceRecords(ctx context.Context, limit int) ([]domain.PriceRecord, error)
	LatestNewsRecords(ctx context.Context, limit int) ([]domain.NewsRecord, error)
}

type Mailer interface {
	Send(ctx context.Context, subject, body string) error
}

type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Digest reads the latest stored data, summarizes it with a language model,
// and emails the result.
type Digest struct {
	tracer   trace.Tracer
	store    DigestStore
	llm      llm.Client
	mailer   Mailer
	notifier Notifier
	redis    RedisClient
	lookback int

	now func() time.Time
}

func NewDigest(
	tracer trace.Tracer,
	store DigestStore,
	client llm.Client,
	mailer Mailer,
	notifier Notifier,
	redisClient RedisClient,
	lookback int,
) *Digest {
	return &Digest{
		tracer:   tracer,
		store:    store,
		llm:      client,
		mailer:   mailer,
		notifier: notifier,
		redis:    redisClient,
		lookback: lookback,
		now:      time.Now,
	}
}

// Run produces and delivers one digest email. The summary must succeed
// before any mail is sent: a failed model call aborts the run without
// touching SMTP. The Telegram notification after a successful send is best
// effort.
func (d *Digest) Run(ctx context.Context) error {
	_, span := d.tracer.Start(ctx, "digest.run")
	defer span.End()

	prices, err := d.store.LatestPriceRecords(ctx, d.lookback)
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	news, err := d.store.LatestNewsRecords(ctx, d.lookback)
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	summary, err := d.llm.Complete(ctx, llm.Request{
		System:      summarySystemPrompt,
		Prompt:      BuildDigestPrompt(prices, news),
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	subject := "Crypto Update - " + d.now().UTC().Format("2006-01-02")
	if err := d.mailer.Send(ctx, subject, summary); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	log.Printf("Digest email sent: %s", subject)

	if d.redis != nil {
		if err := d.redis.Set(ctx, "digest:last", summary, 0).Err(); err != nil {
			log.Printf("redis cache write error: %v", err)
		}
	}

	if d.notifier != nil {
		if err := d.notifier.Notify(ctx, subject+" delivered"); err != nil {
			log.Printf("telegram notification failed: %v", err)
		}
	}
	return nil
}
