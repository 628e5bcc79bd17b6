package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrape returns the exposition text of provider.
func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	provider, err := NewProvider("piivault")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
	return provider
}

func TestNewProvider(t *testing.T) {
	provider := newTestProvider(t)

	assert.NotNil(t, provider.MeterProvider())
	assert.NotNil(t, provider.exporter)

	body := scrape(t, provider)
	assert.Contains(t, body, "go_goroutines")
}

func TestProvider_Shutdown(t *testing.T) {
	provider, err := NewProvider("")
	require.NoError(t, err)
	assert.NoError(t, provider.Shutdown(context.Background()))

	assert.NoError(t, (&Provider{}).Shutdown(context.Background()))
}
