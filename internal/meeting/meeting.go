// Package meeting defines meetings, their storage contract and the service
// that records participant availability against them.
package meeting

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrInvalidDateRange = errors.New("end date must be after start date")
	ErrInvalidWindow    = errors.New("min time must be before max time")
)

// Domain errors.
var (
	ErrNotFound           = errors.New("meeting not found")
	ErrAmbiguousID        = errors.New("meeting id prefix matches several meetings")
	ErrDateOutOfRange     = errors.New("date is outside the meeting range")
	ErrMissingParticipant = errors.New("participant cannot be empty")
)

// Meeting is a date range and daily time window participants mark their
// availability in. EndDate is exclusive.
type Meeting struct {
	ID           string
	Title        string
	StartDate    time.Time
	EndDate      time.Time
	MinTime      clock.Clock
	MaxTime      clock.Clock
	IntervalSize float64
	CreatedAt    time.Time
}

// New creates a Meeting with validation and a fresh id.
func New(title string, start, end time.Time, minTime, maxTime clock.Clock, size float64) (*Meeting, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	start = dateutil.TruncateToDay(start)
	end = dateutil.TruncateToDay(end)
	if !end.After(start) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidDateRange,
			start.Format(dateutil.DateLayout), end.Format(dateutil.DateLayout))
	}
	if !minTime.Before(maxTime) {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidWindow, minTime, maxTime)
	}
	if err := clock.ValidateSize(size); err != nil {
		return nil, err
	}

	return &Meeting{
		ID:           uuid.NewString(),
		Title:        title,
		StartDate:    start,
		EndDate:      end,
		MinTime:      minTime,
		MaxTime:      maxTime,
		IntervalSize: size,
		CreatedAt:    time.Now(),
	}, nil
}

// Window returns the aggregation window of the meeting.
func (m *Meeting) Window() availability.Window {
	return availability.Window{
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		MinTime:      m.MinTime,
		MaxTime:      m.MaxTime,
		IntervalSize: m.IntervalSize,
	}
}

// Days lists the calendar days of the meeting.
func (m *Meeting) Days() []time.Time {
	return dateutil.Days(m.StartDate, m.EndDate)
}

// Contains reports whether date is one of the meeting days.
func (m *Meeting) Contains(date time.Time) bool {
	key := date.Format(dateutil.DateLayout)
	return key >= m.StartDate.Format(dateutil.DateLayout) && key < m.EndDate.Format(dateutil.DateLayout)
}

// ShortID returns the first block of the id, enough to address a meeting
// from the command line.
func (m *Meeting) ShortID() string {
	id, _, _ := strings.Cut(m.ID, "-")
	return id
}
