package integration

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recommendationDTO "github.com/allisson/piivault/internal/recommendation/http/dto"
	userDateDTO "github.com/allisson/piivault/internal/userdate/http/dto"
)

// TestIntegration_UserDates_Flow covers meetings: several per client phone, the
// completion state and lookups by phone in any format.
func TestIntegration_UserDates_Flow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range drivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			first := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
			var created userDateDTO.UserDateResponse

			resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/user-dates", userDateDTO.UserDateRequest{
				MeetDate:     first,
				FullName:     "Ada Lovelace",
				PhoneNumber:  "06 30 123 4567",
				MeetLocation: "Budapest office",
				MeetType:     "needs_assessment",
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
			require.NoError(t, json.Unmarshal(body, &created))
			assert.Equal(t, "+36301234567", created.PhoneNumber)

			// a second meeting with the same client is allowed
			resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/user-dates", userDateDTO.UserDateRequest{
				MeetDate:    first.Add(7 * 24 * time.Hour),
				FullName:    "Ada Lovelace",
				PhoneNumber: "+36 (30) 123-4567",
				MeetType:    "consultation",
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

			resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/user-dates/search?phone=0036301234567", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			var found userDateDTO.ListUserDatesResponse
			require.NoError(t, json.Unmarshal(body, &found))
			assert.Len(t, found.Data, 2)

			resp, body = ctx.makeRequest(t, http.MethodPut, "/v1/user-dates/"+created.ID+"/state", map[string]bool{
				"is_completed": true,
			})
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

			resp, body = ctx.makeRequest(
				t,
				http.MethodGet,
				"/v1/user-dates?from=2026-03-14T00:00:00Z&to=2026-03-15T00:00:00Z",
				nil,
			)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			var window userDateDTO.ListUserDatesResponse
			require.NoError(t, json.Unmarshal(body, &window))
			require.Len(t, window.Data, 1)
			assert.Equal(t, created.ID, window.Data[0].ID)
			assert.True(t, window.Data[0].IsCompleted)
		})
	}
}

// TestIntegration_Recommendations_Flow covers the one-recommendation-per-phone rule
// and the encrypted city.
func TestIntegration_Recommendations_Flow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range drivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			var created recommendationDTO.RecommendationResponse
			resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/recommendations", recommendationDTO.RecommendationRequest{
				FullName:     "Bela Nagy",
				PhoneNumber:  "06 30 111 2222",
				City:         "Szeged",
				ReferralName: "Ada Lovelace",
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
			require.NoError(t, json.Unmarshal(body, &created))
			assert.Equal(t, "Szeged", created.City)

			resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/recommendations", recommendationDTO.RecommendationRequest{
				FullName:    "Someone Else",
				PhoneNumber: "+36 30 111 2222",
				City:        "Pecs",
			})
			assert.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

			var cityAtRest []byte
			require.NoError(t, ctx.db.QueryRow("SELECT city_enc FROM customer_recommendations").Scan(&cityAtRest))
			assert.NotContains(t, string(cityAtRest), "Szeged")

			resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/recommendations/search?phone=%2B36301112222", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			var found recommendationDTO.RecommendationResponse
			require.NoError(t, json.Unmarshal(body, &found))
			assert.Equal(t, created.ID, found.ID)
		})
	}
}
