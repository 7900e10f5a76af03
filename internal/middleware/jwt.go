package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/greenhabit/internal/pkg/errcode"
	appErr "github.com/xxxsen/greenhabit/internal/pkg/errors"
	"github.com/xxxsen/greenhabit/internal/pkg/response"
)

const ContextUserIDKey = "user_id"

// TokenAuthenticator resolves a bearer token to a user id.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

func JWTAuth(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, "invalid authorization")
			c.Abort()
			return
		}
		userID, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, appErr.ErrUnauthorized) {
				response.Unauthorized(c, "invalid token")
			} else {
				_ = c.Error(err)
				response.Error(c, http.StatusInternalServerError, errcode.Internal, "internal error")
			}
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}
