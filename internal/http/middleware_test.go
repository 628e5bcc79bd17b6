package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(newIPLimiterStore(0.001, 2).middleware(logger))
	router.GET("/v1/people", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(remote string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/people", nil)
		req.RemoteAddr = remote
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:2222").Code)

	limited := call("10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, call("10.0.0.2:1111").Code, "other clients keep their own bucket")
}

func TestIPLimiterStore_EvictIdle(t *testing.T) {
	store := &ipLimiterStore{rps: 1, burst: 1}
	store.getLimiter("10.0.0.1")

	store.evictIdle(time.Now().Add(-time.Hour))
	_, ok := store.limiters.Load("10.0.0.1")
	assert.True(t, ok)

	store.evictIdle(time.Now().Add(time.Second))
	_, ok = store.limiters.Load("10.0.0.1")
	assert.False(t, ok)
}

func TestReadinessHandler_Ready(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	mock.ExpectPing()

	server := NewServer(db, "localhost", 8080, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	server.readinessHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
