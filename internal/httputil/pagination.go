package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Directory listing page bounds.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// ParsePagination parses and validates the offset and limit query parameters.
// Offset defaults to 0 and limit to DefaultPageLimit; limit cannot exceed MaxPageLimit.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxPageLimit)
	}

	return offset, limit, nil
}
