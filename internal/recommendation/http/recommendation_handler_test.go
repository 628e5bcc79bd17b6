package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/piivault/internal/httputil"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	recommendationDomain "github.com/allisson/piivault/internal/recommendation/domain"
	"github.com/allisson/piivault/internal/recommendation/http/dto"
	"github.com/allisson/piivault/internal/recommendation/usecase/mocks"
)

func newHandler(t *testing.T) (*RecommendationHandler, *mocks.MockRecommendationUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uc := mocks.NewMockRecommendationUseCase(t)
	return NewRecommendationHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil))), uc
}

func newContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func sampleRecommendation() *recommendationDomain.Recommendation {
	now := time.Now().UTC()
	return &recommendationDomain.Recommendation{
		ID:           uuid.Must(uuid.NewV7()),
		FullName:     "Bela Nagy",
		PhoneNumber:  "+36301112222",
		City:         "Szeged",
		ReferralName: "Anna Kovacs",
		CreatedBy:    "agent-7",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestRecommendationHandler_CreateHandler(t *testing.T) {
	request := dto.RecommendationRequest{
		FullName:     "Bela Nagy",
		PhoneNumber:  "06 30 111 2222",
		City:         "Szeged",
		ReferralName: "Anna Kovacs",
	}

	t.Run("Success", func(t *testing.T) {
		handler, uc := newHandler(t)
		recommendation := sampleRecommendation()
		uc.On("Create", mock.Anything, mock.MatchedBy(func(in *recommendationDomain.CreateRecommendationInput) bool {
			return in.City == "Szeged" && in.ReferralName == "Anna Kovacs" && in.CreatedBy == "agent-7"
		})).Return(recommendation, nil).Once()

		c, w := newContext(http.MethodPost, "/v1/recommendations", request)
		c.Request.Header.Set(httputil.ActorHeader, "agent-7")
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.RecommendationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, recommendation.ID.String(), response.ID)
		assert.Equal(t, "Szeged", response.City)
	})

	t.Run("Error_AlreadyRecommended", func(t *testing.T) {
		handler, uc := newHandler(t)
		uc.On("Create", mock.Anything, mock.Anything).Return(nil, piiDomain.ErrDuplicateValue).Once()

		c, w := newContext(http.MethodPost, "/v1/recommendations", request)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Error_MissingCity", func(t *testing.T) {
		handler, _ := newHandler(t)
		bad := request
		bad.City = "  "

		c, w := newContext(http.MethodPost, "/v1/recommendations", bad)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestRecommendationHandler_UpdateHandler(t *testing.T) {
	handler, uc := newHandler(t)
	recommendation := sampleRecommendation()
	uc.On("Update", mock.Anything, recommendation.ID, mock.MatchedBy(func(in *recommendationDomain.UpdateRecommendationInput) bool {
		return in.City == "Pecs"
	})).Return(recommendation, nil).Once()

	body := dto.RecommendationRequest{FullName: "Bela Nagy", PhoneNumber: "+36301112222", City: "Pecs"}
	c, w := newContext(http.MethodPut, "/v1/recommendations/"+recommendation.ID.String(), body)
	c.Params = gin.Params{{Key: "id", Value: recommendation.ID.String()}}
	handler.UpdateHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecommendationHandler_SearchHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, uc := newHandler(t)
		uc.On("FindByPhone", mock.Anything, "06301112222").Return(sampleRecommendation(), nil).Once()

		c, w := newContext(http.MethodGet, "/v1/recommendations/search?phone=06301112222", nil)
		handler.SearchHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, uc := newHandler(t)
		uc.On("FindByPhone", mock.Anything, "06301112222").
			Return(nil, recommendationDomain.ErrRecommendationNotFound).
			Once()

		c, w := newContext(http.MethodGet, "/v1/recommendations/search?phone=06301112222", nil)
		handler.SearchHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRecommendationHandler_GetHandler(t *testing.T) {
	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _ := newHandler(t)

		c, w := newContext(http.MethodGet, "/v1/recommendations/nope", nil)
		c.Params = gin.Params{{Key: "id", Value: "nope"}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestRecommendationHandler_ListHandler(t *testing.T) {
	handler, uc := newHandler(t)
	uc.On("List", mock.Anything, 0, httputil.DefaultPageSize).
		Return([]*recommendationDomain.Recommendation{sampleRecommendation()}, nil).
		Once()

	c, w := newContext(http.MethodGet, "/v1/recommendations", nil)
	handler.ListHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response dto.ListRecommendationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Data, 1)
}
