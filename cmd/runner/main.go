package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cryptodigest/internal/cache"
	"cryptodigest/internal/config"
	"cryptodigest/internal/handler"
	"cryptodigest/internal/job"
	"cryptodigest/internal/llm"
	"cryptodigest/internal/mailer"
	"cryptodigest/internal/notify"
	"cryptodigest/internal/provider"
	"cryptodigest/internal/service"
	"cryptodigest/internal/store"
	"cryptodigest/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initTracerFunc = tracing.InitTracer
	initStoreFunc  = store.FromConfig
	initRedisFunc  = cache.InitRedis
	newRouterFunc  = gin.Default
	newNotifierFunc = func(token string, chatID int64) (service.Notifier, error) {
		return notify.NewTelegram(token, chatID)
	}
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	st, closeStore, err := initStoreFunc(ctx, cfg, tracer)
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}
	defer closeStore()

	var redisClient service.RedisClient
	if cfg.RedisURL != "" {
		client, err := initRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable, continuing without cache: %v", err)
		} else {
			redisClient = client
			defer client.Close()
		}
	}

	metrics := job.NewMetrics(prometheus.DefaultRegisterer)
	pipeline := job.NewPipeline(tracer, buildSteps(cfg, tracer, st, redisClient), cfg.StepDelaySecs, metrics)

	// Scheduled runs
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.CronSchedule, func() {
		if err := pipeline.RunOnce(ctx); err != nil {
			log.Printf("scheduled run failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("invalid schedule %q: %v", cfg.CronSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	log.Printf("Scheduler started with schedule %q", cfg.CronSchedule)

	// Manual trigger and read API
	h := handler.New(tracer, pipeline, st)
	r := newRouterFunc()
	r.Use(otelgin.Middleware("cryptodigest"))
	h.RegisterRoutes(r, cfg.TriggerAPIKey)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down runner...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Runner exiting")
}

func buildSteps(cfg *config.Config, tracer trace.Tracer, st store.Store, redisClient service.RedisClient) []job.Step {
	prices := service.NewPriceCollector(
		tracer,
		provider.NewCoinGeckoProvider(tracer),
		st,
		redisClient,
		cfg.Assets,
		cfg.Currency,
	)

	var source service.NewsSource
	if cfg.NewsProvider == "rss" {
		source = provider.NewRSSNewsProvider(tracer, cfg.NewsFeedURL)
	} else {
		source = provider.NewNewsAPIProvider(tracer, cfg.NewsAPIKey)
	}
	news := service.NewNewsCollector(tracer, source, st, cfg.Assets, cfg.NewsMaxArticles)

	var client llm.Client
	if cfg.LLMProvider == "anthropic" {
		client = llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	} else {
		client = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	var notifier service.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		n, err := newNotifierFunc(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("telegram notifier unavailable: %v", err)
		} else {
			notifier = n
		}
	}
	digest := service.NewDigest(
		tracer,
		st,
		client,
		mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.MailTo),
		notifier,
		redisClient,
		cfg.DigestLookback,
	)

	return []job.Step{
		{Name: "prices", Run: prices.Run},
		{Name: "news", Run: news.Run},
		{Name: "digest", Run: digest.Run},
	}
}
