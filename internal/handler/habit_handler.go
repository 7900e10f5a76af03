package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/greenhabit/internal/pkg/response"
	"github.com/xxxsen/greenhabit/internal/service"
)

type HabitHandler struct {
	habits *service.HabitService
}

func NewHabitHandler(habits *service.HabitService) *HabitHandler {
	return &HabitHandler{habits: habits}
}

type habitRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type trackRequest struct {
	HabitID string `json:"habit_id" binding:"required"`
	Date    string `json:"date"`
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req habitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	habit, err := h.habits.Create(c.Request.Context(), getUserID(c), service.HabitCreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, habit)
}

func (h *HabitHandler) List(c *gin.Context) {
	habits, err := h.habits.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, habits)
}

func (h *HabitHandler) Track(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	entry, err := h.habits.Track(c.Request.Context(), getUserID(c), service.TrackInput{
		HabitID: req.HabitID,
		Date:    req.Date,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, entry)
}
