package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/greenhabit/internal/pkg/response"
	"github.com/xxxsen/greenhabit/internal/service"
)

type SummaryHandler struct {
	summary *service.SummaryService
}

func NewSummaryHandler(summary *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summary: summary}
}

func (h *SummaryHandler) Summary(c *gin.Context) {
	summary, err := h.summary.Summary(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, summary)
}
