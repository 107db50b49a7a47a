package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	backend BackendPinger
	prune   PruneSchedule
	version string
}

func NewHealthController(backend BackendPinger, prune PruneSchedule, version string) *HealthController {
	return &HealthController{
		backend: backend,
		prune:   prune,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.backend != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.backend.Ping(ctx); err != nil {
			checks["backend"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["backend"] = "ok"
		}
	} else {
		checks["backend"] = "not configured"
	}

	// Informational only; a stopped prune job does not make the app unhealthy.
	if h.prune != nil {
		if next := h.prune.NextRunTime(); next != nil {
			checks["cover_prune"] = "next run " + next.Format(time.RFC3339)
		} else {
			checks["cover_prune"] = "not scheduled"
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
