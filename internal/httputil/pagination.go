package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultPageSize is small because every listed row is decrypted field by field.
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads the offset and limit query parameters.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("offset must be a non-negative integer")
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil || limit < 1 || limit > MaxPageSize {
		return 0, 0, fmt.Errorf("limit must be between 1 and %d", MaxPageSize)
	}

	return offset, limit, nil
}
