// Package http provides HTTP server implementation and request handlers.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/piivault/internal/config"
	customerDomain "github.com/allisson/piivault/internal/customer/domain"
	customerHTTP "github.com/allisson/piivault/internal/customer/http"
	customerMocks "github.com/allisson/piivault/internal/customer/usecase/mocks"
	"github.com/allisson/piivault/internal/metrics"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiHTTP "github.com/allisson/piivault/internal/pii/http"
	piiMocks "github.com/allisson/piivault/internal/pii/usecase/mocks"
	recommendationHTTP "github.com/allisson/piivault/internal/recommendation/http"
	recommendationMocks "github.com/allisson/piivault/internal/recommendation/usecase/mocks"
	recruitmentHTTP "github.com/allisson/piivault/internal/recruitment/http"
	recruitmentMocks "github.com/allisson/piivault/internal/recruitment/usecase/mocks"
	userDateDomain "github.com/allisson/piivault/internal/userdate/domain"
	userDateHTTP "github.com/allisson/piivault/internal/userdate/http"
	userDateMocks "github.com/allisson/piivault/internal/userdate/usecase/mocks"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type routerFixture struct {
	server          *Server
	customers       *customerMocks.MockCustomerUseCase
	recruitment     *recruitmentMocks.MockRecruitmentUseCase
	userDates       *userDateMocks.MockUserDateUseCase
	recommendations *recommendationMocks.MockRecommendationUseCase
	store           *piiMocks.MockFieldStore
	logs            *bytes.Buffer
}

// newRouterFixture builds a Server with every route registered on top of mocked use cases.
func newRouterFixture(t *testing.T, cfg *config.Config) *routerFixture {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))

	f := &routerFixture{
		server:          NewServer(nil, "localhost", 8080, logger),
		customers:       customerMocks.NewMockCustomerUseCase(t),
		recruitment:     recruitmentMocks.NewMockRecruitmentUseCase(t),
		userDates:       userDateMocks.NewMockUserDateUseCase(t),
		recommendations: recommendationMocks.NewMockRecommendationUseCase(t),
		store:           piiMocks.NewMockFieldStore(t),
		logs:            logs,
	}
	if cfg == nil {
		cfg = &config.Config{LogLevel: "error"}
	}
	f.server.SetupRouter(
		cfg,
		customerHTTP.NewCustomerHandler(f.customers, logger),
		recruitmentHTTP.NewRecruitmentHandler(f.recruitment, logger),
		userDateHTTP.NewUserDateHandler(f.userDates, logger),
		recommendationHTTP.NewRecommendationHandler(f.recommendations, logger),
		piiHTTP.NewPeopleHandler(f.store, logger),
		nil,
	)
	gin.SetMode(gin.TestMode)
	return f
}

func (f *routerFixture) do(method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.server.GetHandler().ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestServer_GetHandlerBeforeSetup(t *testing.T) {
	server := NewServer(nil, "localhost", 8080, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Nil(t, server.GetHandler())
	assert.Error(t, server.Start(context.Background()))
}

func TestRouter_HealthAndReadiness(t *testing.T) {
	f := newRouterFixture(t, nil)

	w := f.do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = f.do(http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "not_ready", response["status"])
	assert.Equal(t, map[string]interface{}{"database": "error"}, response["components"])
}

func TestRouter_CustomerSearchRoute(t *testing.T) {
	f := newRouterFixture(t, nil)
	id := uuid.Must(uuid.NewV7())
	f.customers.On("FindByPhone", mock.Anything, "+36201234567").
		Return(&customerDomain.Customer{ID: id, FullName: "Jane", PhoneNumber: "+36201234567"}, nil)

	w := f.do(http.MethodGet, "/v1/customers/search?phone=%2B36201234567")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())
}

func TestRouter_UserDateStateRoute(t *testing.T) {
	f := newRouterFixture(t, nil)
	id := uuid.Must(uuid.NewV7())
	f.userDates.On("SetCompleted", mock.Anything, id, true).
		Return(&userDateDomain.UserDate{ID: id, IsCompleted: true, MeetType: userDateDomain.MeetTypeService}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/user-dates/"+id.String()+"/state", bytes.NewBufferString(`{"is_completed":true}`))
	req.Header.Set("Content-Type", "application/json")
	f.server.GetHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_completed":true`)
}

func TestRouter_RecommendationSearchRoute(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.recommendations.On("FindByPhone", mock.Anything, "06301112222").
		Return(nil, piiDomain.ErrNormalization)

	w := f.do(http.MethodGet, "/v1/recommendations/search?phone=06301112222")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_PeopleRoute(t *testing.T) {
	f := newRouterFixture(t, nil)
	id := uuid.Must(uuid.NewV7())
	f.store.On("FindPerson", mock.Anything, piiDomain.FieldEmail, "jane@example.com").
		Return(map[string][]uuid.UUID{piiDomain.TableRecruitment: {id}}, nil)

	w := f.do(http.MethodGet, "/v1/people?email=jane%40example.com")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"table":"recruitment"`)
	assert.Contains(t, w.Body.String(), id.String())
}

func TestRouter_LogsOmitQueryString(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.store.On("FindPerson", mock.Anything, piiDomain.FieldEmail, "secret.person@example.com").
		Return(map[string][]uuid.UUID{}, nil)

	w := f.do(http.MethodGet, "/v1/people?email=secret.person%40example.com")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, f.logs.String(), `"path":"/v1/people"`)
	assert.NotContains(t, f.logs.String(), "secret.person")
}

func TestRouter_RequestIDHeader(t *testing.T) {
	f := newRouterFixture(t, nil)

	w := f.do(http.MethodGet, "/health")

	parsed, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRouter_RateLimitAppliesToAPIOnly(t *testing.T) {
	f := newRouterFixture(t, &config.Config{
		LogLevel:                "error",
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 0.001,
		RateLimitBurst:          1,
	})
	f.store.On("FindPerson", mock.Anything, piiDomain.FieldPhone, "+36201234567").
		Return(map[string][]uuid.UUID{}, nil).Once()

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/people?phone=%2B36201234567").Code)

	w := f.do(http.MethodGet, "/v1/people?phone=%2B36201234567")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health").Code)
}

func TestRouter_UnknownRoutes(t *testing.T) {
	f := newRouterFixture(t, nil)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/nonexistent").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/metrics").Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_ShutdownGracefully(t *testing.T) {
	f := newRouterFixture(t, nil)

	errChan := make(chan error, 1)
	go func() {
		errChan <- f.server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMetricsServer_Endpoints(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider, err := metrics.NewProvider("piivault_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, logger, provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
