package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerStep starts a pipeline step (or the whole pipeline with "all")
// outside the schedule. The run happens in the background; the response
// only acknowledges that it started.
func (h *Handler) TriggerStep(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.trigger-step")
	defer span.End()

	step := c.Param("step")
	if step != "all" && !h.knownStep(step) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown step: " + step,
			"steps": append(h.pipeline.StepNames(), "all"),
		})
		return
	}

	h.runAsync(func(ctx context.Context) {
		var err error
		if step == "all" {
			err = h.pipeline.RunOnce(ctx)
		} else {
			err = h.pipeline.RunStep(ctx, step)
		}
		if err != nil {
			log.Printf("manual run %s failed: %v", step, err)
		}
	})

	c.JSON(http.StatusAccepted, gin.H{"status": "started", "step": step})
}

func (h *Handler) knownStep(name string) bool {
	for _, s := range h.pipeline.StepNames() {
		if s == name {
			return true
		}
	}
	return false
}
