// Package availability implements the interval algebra behind overlap
// scheduling: participant-tagged time intervals, their canonical reduction,
// per-day selections and the cross-participant aggregation.
package availability

import (
	"errors"

	"github.com/javiermolinar/rendezvous/internal/clock"
)

// Validation errors.
var (
	ErrInvalidArguments   = errors.New("invalid interval arguments")
	ErrCrossDayComparison = errors.New("intervals belong to different days")
	ErrEmptyCollection    = errors.New("interval collection is empty")
)

// ErrorKind maps validation errors to a stable label for logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, clock.ErrInvalidTimeValue):
		return "invalid_time_value"
	case errors.Is(err, ErrInvalidArguments):
		return "invalid_arguments"
	case errors.Is(err, ErrCrossDayComparison):
		return "cross_day_comparison"
	case errors.Is(err, ErrEmptyCollection):
		return "empty_collection"
	default:
		return "internal"
	}
}
