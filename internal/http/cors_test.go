package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/piivault/internal/config"
)

func TestNewCORSMiddleware_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"disabled", &config.Config{CORSEnabled: false, CORSAllowOrigins: "https://crm.example.com"}},
		{"no-origins", &config.Config{CORSEnabled: true}},
		{"blank-origins", &config.Config{CORSEnabled: true, CORSAllowOrigins: " , ,"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, newCORSMiddleware(tt.cfg, logger))
		})
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t,
		[]string{"https://crm.example.com", "https://hr.example.com"},
		parseOrigins(" https://crm.example.com ,,https://hr.example.com "),
	)
}

func corsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	middleware := newCORSMiddleware(
		&config.Config{CORSEnabled: true, CORSAllowOrigins: "https://crm.example.com"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NotNil(t, middleware)

	router := gin.New()
	router.Use(middleware)
	router.POST("/v1/customers", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func TestCORS_PreflightAllowsAgentHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/customers", nil)
	req.Header.Set("Origin", "https://crm.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Agent-ID")
	corsRouter(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://crm.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Agent-Id")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_UnknownOriginRejected(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/customers", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	corsRouter(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
