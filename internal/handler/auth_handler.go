package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/greenhabit/internal/pkg/errcode"
	appErr "github.com/xxxsen/greenhabit/internal/pkg/errors"
	"github.com/xxxsen/greenhabit/internal/pkg/response"
	"github.com/xxxsen/greenhabit/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// loginRequest accepts the OAuth2 password form (username/password) as well
// as a JSON body keyed by email or username.
type loginRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	user, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if appErr.IsConflict(err) {
			response.Error(c, http.StatusBadRequest, errcode.Conflict, "email already registered")
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strings.TrimSpace(req.Email)
	}
	if username == "" || req.Password == "" {
		invalidRequest(c, nil)
		return
	}
	_, token, err := h.auth.Login(c.Request.Context(), username, req.Password)
	if err != nil {
		if appErr.IsUnauthorized(err) {
			response.Unauthorized(c, "incorrect email or password")
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, token)
}
