package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/greenhabit/internal/middleware"
	"github.com/xxxsen/greenhabit/internal/pkg/errcode"
	appErr "github.com/xxxsen/greenhabit/internal/pkg/errors"
	"github.com/xxxsen/greenhabit/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserIDKey)
}

func invalidRequest(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	response.Error(c, http.StatusBadRequest, errcode.Invalid, "invalid request")
}

func handleError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Unauthorized(c, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, http.StatusForbidden, errcode.Forbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, errcode.NotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, errcode.Invalid, err.Error())
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, http.StatusConflict, errcode.Conflict, "conflict")
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, http.StatusTooManyRequests, errcode.TooMany, "too many requests")
	default:
		_ = c.Error(err)
		logutil.GetLogger(c.Request.Context()).Error("request failed",
			zap.String("request_id", c.GetString(middleware.ContextRequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("user_id", getUserID(c)),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, errcode.Internal, "internal error")
	}
}
