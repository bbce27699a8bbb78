package handler

import (
	"context"
	"time"

	"cryptodigest/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// stepTimeout bounds a manually triggered run; the full pipeline with step
// delays stays well under this.
const stepTimeout = 10 * time.Minute

type PipelineRunner interface {
	RunOnce(ctx context.Context) error
	RunStep(ctx context.Context, name string) error
	StepNames() []string
}

type RecordReader interface {
	LatestPriceRecords(ctx context.Context, limit int) ([]domain.PriceRecord, error)
	LatestNewsRecords(ctx context.Context, limit int) ([]domain.NewsRecord, error)
}

type Handler struct {
	tracer   trace.Tracer
	pipeline PipelineRunner
	store    RecordReader

	// runAsync is swapped out in tests to run triggers synchronously.
	runAsync func(fn func(ctx context.Context))
}

func New(tracer trace.Tracer, pipeline PipelineRunner, store RecordReader) *Handler {
	return &Handler{
		tracer:   tracer,
		pipeline: pipeline,
		store:    store,
		runAsync: runDetached,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(apiKey))
	api.POST("/run/:step", h.TriggerStep)
	api.GET("/prices/latest", h.LatestPrices)
	api.GET("/news/latest", h.LatestNews)
}

func runDetached(fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), stepTimeout)
		defer cancel()
		fn(ctx)
	}()
}
