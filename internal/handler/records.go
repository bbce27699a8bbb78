package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultRecordLimit = 10

// LatestPrices returns the most recently captured price records.
func (h *Handler) LatestPrices(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.latest-prices")
	defer span.End()

	records, err := h.store.LatestPriceRecords(ctx, recordLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": records})
}

// LatestNews returns the most recently captured news records.
func (h *Handler) LatestNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.latest-news")
	defer span.End()

	records, err := h.store.LatestNewsRecords(ctx, recordLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": records})
}

func recordLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRecordLimit)))
	if err != nil || limit < 1 || limit > 100 {
		return defaultRecordLimit
	}
	return limit
}
