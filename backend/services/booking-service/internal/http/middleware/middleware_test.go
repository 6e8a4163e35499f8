package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["iss"]; !ok {
		claims["iss"] = TokenIssuer
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func echoClaims() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(claims.UserID + "|" + claims.Email))
	})
}

func TestAuthenticatorRequire(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	h := auth.Require(echoClaims())

	valid := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "u-1",
		"email":   "a@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1|a@example.com", rec.Body.String())

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic abc",
		"bad secret":   "Bearer " + signToken(t, "other", jwt.MapClaims{"user_id": "u-1"}),
		"expired":      "Bearer " + signToken(t, testSecret, jwt.MapClaims{"user_id": "u-1", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no user":      "Bearer " + signToken(t, testSecret, jwt.MapClaims{"email": "a@example.com"}),
		"wrong issuer": "Bearer " + signToken(t, testSecret, jwt.MapClaims{"user_id": "u-1", "iss": "someone-else"}),
		"no issuer":    "Bearer " + signToken(t, testSecret, jwt.MapClaims{"user_id": "u-1", "iss": ""}),
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.Contains(t, rec.Body.String(), `"error"`, name)
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	h := limiter.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"))
}

func TestRateLimiterKeysByUser(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1)
	h := limiter.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	call := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		req = req.WithContext(WithClaims(req.Context(), Claims{UserID: user}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusOK, call("b"))
}

func TestRateLimiterPruneForgetsIdleCallers(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1)
	clock := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }
	h := limiter.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 100; i++ {
		call(fmt.Sprintf("10.0.%d.%d:1000", i/250, i%250))
	}
	require.Equal(t, 100, limiter.Len())

	clock = clock.Add(5 * time.Minute)
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.0:1000"))

	clock = clock.Add(6 * time.Minute)
	assert.Equal(t, 99, limiter.Prune(10*time.Minute))
	assert.Equal(t, 1, limiter.Len())

	clock = clock.Add(10 * time.Minute)
	assert.Equal(t, 1, limiter.Prune(10*time.Minute))
	assert.Zero(t, limiter.Len())
	assert.Equal(t, http.StatusOK, call("10.0.0.0:1000"))
}

func TestRateLimiterRunStopsOnCancel(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.Run(ctx, time.Millisecond, time.Minute)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestLoggingRecordsStatus(t *testing.T) {
	h := Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}
