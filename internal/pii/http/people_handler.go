// Package http exposes cross-table lookups of a person's records by contact value.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/allisson/piivault/internal/httputil"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiUsecase "github.com/allisson/piivault/internal/pii/usecase"
)

// PersonMatch lists the ids of one table whose field equals the searched value.
type PersonMatch struct {
	Table string   `json:"table"`
	IDs   []string `json:"ids"`
}

// PeopleResponse is the result of a cross-table person lookup.
type PeopleResponse struct {
	Field   string        `json:"field"`
	Matches []PersonMatch `json:"matches"`
}

// PeopleHandler joins the records of one person across every registered table.
type PeopleHandler struct {
	store  piiUsecase.FieldStore
	logger *slog.Logger
}

// NewPeopleHandler creates a PeopleHandler.
func NewPeopleHandler(store piiUsecase.FieldStore, logger *slog.Logger) *PeopleHandler {
	return &PeopleHandler{store: store, logger: logger}
}

// FindHandler returns the ids of rows in any table holding the given email or phone.
// GET /v1/people?email=... or ?phone=... - Returns 200 with an empty match list when
// nothing matches.
func (h *PeopleHandler) FindHandler(c *gin.Context) {
	name, value, ok := httputil.ContactQuery(c)
	if !ok {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("exactly one of email or phone is required"), h.logger)
		return
	}

	field := piiDomain.FieldEmail
	if name == "phone" {
		field = piiDomain.FieldPhone
	}

	found, err := h.store.FindPerson(c.Request.Context(), field, value)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := PeopleResponse{Field: string(field), Matches: make([]PersonMatch, 0, len(found))}
	for table, ids := range found {
		match := PersonMatch{Table: table, IDs: make([]string, 0, len(ids))}
		for _, id := range ids {
			match.IDs = append(match.IDs, id.String())
		}
		response.Matches = append(response.Matches, match)
	}
	sort.Slice(response.Matches, func(i, j int) bool {
		return response.Matches[i].Table < response.Matches[j].Table
	})

	c.JSON(http.StatusOK, response)
}
