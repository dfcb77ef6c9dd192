package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kariqs/bookbuy-api/auth"
	"github.com/Kariqs/bookbuy-api/models"
	"github.com/Kariqs/bookbuy-api/repositories"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	router *gin.Engine
	issuer *auth.TokenIssuer
	redis  *miniredis.Miniredis
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := repositories.NewMemoryUserRepository()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &models.User{Email: "user@x.com", Role: models.RoleUser, IsActive: true}))
	require.NoError(t, users.Create(ctx, &models.User{Email: "admin@x.com", Role: models.RoleAdmin, IsActive: true}))

	issuer := auth.NewTokenIssuer("middleware-secret", time.Hour)
	gate := auth.NewGate(auth.NewRevocationLedger(client), issuer, users)

	core, logs := observer.New(zap.InfoLevel)
	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/me", RequireAuth(gate), func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		require.True(t, ok)
		session, ok := CurrentSession(ctx)
		require.True(t, ok)
		ctx.JSON(http.StatusOK, gin.H{"email": user.Email, "same": session.User == user})
	})
	router.DELETE("/admin", RequireAuth(gate), RequireAdmin(), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	router.DELETE("/no-auth-admin", RequireAdmin(), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})

	return &fixture{router: router, issuer: issuer, redis: mr, logs: logs}
}

func (f *fixture) do(t *testing.T, method, path, subject string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if subject != "" {
		token, _, err := f.issuer.Issue(subject)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"valid":        {"Bearer abc", "abc", true},
		"lowercase":    {"bearer abc", "abc", true},
		"empty":        {"", "", false},
		"no token":     {"Bearer ", "", false},
		"other scheme": {"Basic abc", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			token, ok := bearerToken(tc.header)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/me", "user@x.com")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"user@x.com","same":true}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"status":"error","message":"Not authenticated"}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/me", "ghost@x.com")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_LedgerDown(t *testing.T) {
	f := newFixture(t)
	f.redis.SetError("LOADING Redis is loading the dataset in memory")

	w := f.do(t, http.MethodGet, "/me", "user@x.com")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/admin", "admin@x.com").Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodDelete, "/admin", "user@x.com").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodDelete, "/no-auth-admin", "").Code)
}

func TestRequestLogger(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	entries := f.logs.FilterMessage("Request rejected").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "/me", fields["path"])
	assert.EqualValues(t, http.StatusUnauthorized, fields["status"])

	w = f.do(t, http.MethodGet, "/me", "user@x.com")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, 1, f.logs.FilterMessage("Request handled").Len())
}
