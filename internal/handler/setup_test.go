package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/greenhabit/internal/handler"
	"github.com/xxxsen/greenhabit/internal/metrics"
	"github.com/xxxsen/greenhabit/internal/repo"
	"github.com/xxxsen/greenhabit/internal/service"
	"github.com/xxxsen/greenhabit/internal/testutil"
)

func setupRouter(t *testing.T) (http.Handler, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, cleanup := testutil.OpenTestDB(t)
	userRepo := repo.NewUserRepo(conn)
	habitRepo := repo.NewHabitRepo(conn)
	entryRepo := repo.NewTrackingEntryRepo(conn)

	recorder := metrics.NewNoop()
	authService := service.NewAuthService(userRepo, []byte("test-secret"), time.Hour, recorder)
	habitService := service.NewHabitService(habitRepo, entryRepo, recorder)
	summaryService := service.NewSummaryService(entryRepo)

	engine := handler.NewRouter(handler.RouterDeps{
		Auth:          handler.NewAuthHandler(authService),
		Habits:        handler.NewHabitHandler(habitService),
		Summary:       handler.NewSummaryHandler(summaryService),
		Health:        handler.NewHealthHandler(conn),
		Authenticator: authService,
	})
	return engine, cleanup
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func loginForm(t *testing.T, router http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// signupAndLogin registers an account and returns its access token.
func signupAndLogin(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/signup", "", map[string]string{"email": email, "password": "secret-pass"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = loginForm(t, router, email, "secret-pass")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &token))
	require.Equal(t, "bearer", token.TokenType)
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.Error.Code
}
