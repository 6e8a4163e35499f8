package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"evcharge/backend/services/auth-service/internal/http/handlers"
	"evcharge/backend/services/auth-service/internal/password"
	"evcharge/backend/services/auth-service/internal/repository"
	"evcharge/backend/services/auth-service/internal/service"
)

func newRouter() (http.Handler, *service.TokenService) {
	logger := zap.NewNop()
	tokens := service.NewTokenService("secret", time.Hour)
	authSvc := service.NewAuthService(repository.NewMemoryUserRepository(), password.NewBcryptHasher(bcrypt.MinCost), tokens, logger)
	return NewRouter(Routes{
		Signup: handlers.NewSignupHandler(authSvc, logger),
		Login:  handlers.NewLoginHandler(authSvc, logger),
		Health: handlers.NewHealthHandler(nil),
	}), tokens
}

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestSignupLoginFlow(t *testing.T) {
	h, tokens := newRouter()

	rec, body := post(t, h, "/auth/signup", `{"email":"ada@example.com","password":"lovelace1","name":"Ada"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Ada", body["name"])
	assert.NotContains(t, body, "PasswordHash")
	assert.NotContains(t, body, "password_hash")

	rec, _ = post(t, h, "/auth/signup", `{"email":"ada@example.com","password":"lovelace2","name":"Ada"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = post(t, h, "/auth/signup", `{"email":"bad","password":"lovelace1","name":"Ada"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = post(t, h, "/auth/login", `{"email":"ada@example.com","password":"lovelace1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer", body["token_type"])
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", user["email"])

	claims, err := tokens.ValidateToken(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, user["id"], claims.UserID)

	rec, _ = post(t, h, "/auth/login", `{"email":"ada@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = post(t, h, "/auth/login", `{"email":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = post(t, h, "/auth/login", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterMethods(t *testing.T) {
	h, _ := newRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
