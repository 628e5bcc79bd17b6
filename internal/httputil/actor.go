package httputil

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ActorHeader carries the id of the agent acting on a record. Authentication happens
// upstream; the header is trusted as set by the gateway.
const ActorHeader = "X-Agent-ID"

const anonymousActor = "anonymous"

// Actor returns the acting agent of a request.
func Actor(c *gin.Context) string {
	if actor := strings.TrimSpace(c.GetHeader(ActorHeader)); actor != "" {
		return actor
	}
	return anonymousActor
}

// ContactQuery reads the email or phone query parameter of a lookup request. Exactly
// one of them must be set; field is "email" or "phone".
func ContactQuery(c *gin.Context) (field, value string, ok bool) {
	email := strings.TrimSpace(c.Query("email"))
	phone := strings.TrimSpace(c.Query("phone"))
	switch {
	case email != "" && phone == "":
		return "email", email, true
	case phone != "" && email == "":
		return "phone", phone, true
	default:
		return "", "", false
	}
}
