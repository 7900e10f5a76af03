package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/greenhabit/internal/pkg/errcode"
	"github.com/xxxsen/greenhabit/internal/pkg/response"
)

const healthCheckTimeout = 2 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, errcode.Unavailable, "store unavailable")
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}
