package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	recruitmentDomain "github.com/allisson/piivault/internal/recruitment/domain"
	"github.com/allisson/piivault/internal/recruitment/http/dto"
	"github.com/allisson/piivault/internal/recruitment/usecase/mocks"
)

func newHandler(t *testing.T) (*RecruitmentHandler, *mocks.MockRecruitmentUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uc := mocks.NewMockRecruitmentUseCase(t)
	return NewRecruitmentHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil))), uc
}

func serve(method, target string, body any, params gin.Params, handle gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params

	handle(c)
	return w
}

func TestRecruitmentHandler_CreateHandler(t *testing.T) {
	phone := "+36 20 123 4567"

	t.Run("Success", func(t *testing.T) {
		handler, uc := newHandler(t)
		created := &recruitmentDomain.Recruitment{ID: uuid.Must(uuid.NewV7()), FullName: "Bence", PhoneNumber: "+36201234567"}
		uc.On("Create", mock.Anything, mock.MatchedBy(func(in *recruitmentDomain.CreateRecruitmentInput) bool {
			return in.Email == nil && *in.PhoneNumber == phone && in.CreatedBy == "anonymous"
		})).Return(created, nil).Once()

		w := serve(http.MethodPost, "/v1/recruitment",
			dto.RecruitmentRequest{FullName: "Bence", PhoneNumber: &phone}, nil, handler.CreateHandler)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotContains(t, response, "email")
		assert.Equal(t, "+36201234567", response["phone_number"])
	})

	t.Run("Error_NoContact", func(t *testing.T) {
		handler, uc := newHandler(t)
		uc.On("Create", mock.Anything, mock.Anything).Return(nil, recruitmentDomain.ErrContactRequired).Once()

		w := serve(http.MethodPost, "/v1/recruitment", dto.RecruitmentRequest{FullName: "Bence"}, nil, handler.CreateHandler)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_Duplicate", func(t *testing.T) {
		handler, uc := newHandler(t)
		uc.On("Create", mock.Anything, mock.Anything).Return(nil, piiDomain.ErrDuplicateValue).Once()

		w := serve(http.MethodPost, "/v1/recruitment",
			dto.RecruitmentRequest{FullName: "Bence", PhoneNumber: &phone}, nil, handler.CreateHandler)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestRecruitmentHandler_GetHandler(t *testing.T) {
	handler, uc := newHandler(t)
	id := uuid.Must(uuid.NewV7())
	uc.On("Get", mock.Anything, id).Return(nil, recruitmentDomain.ErrRecruitmentNotFound).Once()

	w := serve(http.MethodGet, "/v1/recruitment/"+id.String(), nil,
		gin.Params{{Key: "id", Value: id.String()}}, handler.GetHandler)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecruitmentHandler_SearchHandler(t *testing.T) {
	handler, uc := newHandler(t)
	found := &recruitmentDomain.Recruitment{ID: uuid.Must(uuid.NewV7()), Email: "bence@example.com"}
	uc.On("FindByEmail", mock.Anything, "Bence@Example.com").Return(found, nil).Once()

	w := serve(http.MethodGet, "/v1/recruitment/search?email=Bence@Example.com", nil, nil, handler.SearchHandler)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), found.ID.String())
}

func TestRecruitmentHandler_ListHandler(t *testing.T) {
	handler, uc := newHandler(t)

	w := serve(http.MethodGet, "/v1/recruitment?limit=500", nil, nil, handler.ListHandler)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	uc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}
