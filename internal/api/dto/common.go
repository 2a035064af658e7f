package dto

import (
	"time"

	"github.com/stayquote/stayquote/internal/types"
)

// SuccessResponse acknowledges a request that returns no resource
type SuccessResponse struct {
	Message string `json:"message"`
}

// parseRange parses a pair of YYYY-MM-DD dates. The end date is exclusive and
// ordering is checked by the domain validation.
func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := types.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := types.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}
