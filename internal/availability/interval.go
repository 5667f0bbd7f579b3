package availability

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
)

// Interval is an immutable [start, end) range on one calendar day, tagged
// with the participants available during it.
type Interval struct {
	date         time.Time
	start        clock.Clock
	end          clock.Clock
	size         float64  // atomic granularity in hours
	participants []string // sorted, unique
}

// FromRangeAndIDs builds an interval of exactly one size step starting at start.
func FromRangeAndIDs(date time.Time, start clock.Clock, size float64, ids []string) (Interval, error) {
	if err := clock.ValidateSize(size); err != nil {
		return Interval{}, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	end, err := start.Add(size)
	if err != nil {
		return Interval{}, err
	}
	return FromExplicitBounds(date, start, end, size, ids)
}

// FromExplicitBounds builds an interval with explicit bounds.
// size is the granularity the interval was built from, not its length.
func FromExplicitBounds(date time.Time, start, end clock.Clock, size float64, ids []string) (Interval, error) {
	if date.IsZero() {
		return Interval{}, fmt.Errorf("%w: missing date", ErrInvalidArguments)
	}
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidArguments, start, end)
	}
	if err := clock.ValidateSize(size); err != nil {
		return Interval{}, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	return Interval{
		date:         dateutil.TruncateToDay(date),
		start:        start,
		end:          end,
		size:         size,
		participants: normalizeIDs(ids),
	}, nil
}

// normalizeIDs returns a sorted copy of ids without duplicates or blanks.
func normalizeIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// Date returns the calendar day at midnight.
func (i Interval) Date() time.Time { return i.date }

// Start returns the inclusive start.
func (i Interval) Start() clock.Clock { return i.start }

// End returns the exclusive end.
func (i Interval) End() clock.Clock { return i.end }

// Size returns the granularity in hours.
func (i Interval) Size() float64 { return i.size }

// Participants returns a copy of the participant ids in sorted order.
func (i Interval) Participants() []string {
	return slices.Clone(i.participants)
}

// HasParticipant reports whether id is available during the interval.
func (i Interval) HasParticipant(id string) bool {
	_, found := slices.BinarySearch(i.participants, id)
	return found
}

// IsSelected reports whether anyone is available during the interval.
func (i Interval) IsSelected() bool {
	return len(i.participants) > 0
}

// Count returns the number of participants.
func (i Interval) Count() int {
	return len(i.participants)
}

// DurationHours returns end - start in hours.
func (i Interval) DurationHours() float64 {
	return i.end.Hours() - i.start.Hours()
}

// SameDay reports whether both intervals are on the same calendar day.
func (i Interval) SameDay(other Interval) bool {
	return dateutil.SameDay(i.date, other.date)
}

func (i Interval) checkSameDay(other Interval) error {
	if !i.SameDay(other) {
		return fmt.Errorf("%w: %s vs %s", ErrCrossDayComparison,
			i.date.Format(dateutil.DateLayout), other.date.Format(dateutil.DateLayout))
	}
	return nil
}

// IsEncompassedBy reports whether i lies entirely within other.
func (i Interval) IsEncompassedBy(other Interval) (bool, error) {
	if err := i.checkSameDay(other); err != nil {
		return false, err
	}
	return i.encompassedBy(other), nil
}

func (i Interval) encompassedBy(other Interval) bool {
	return !i.start.Before(other.start) && !other.end.Before(i.end)
}

// IsAdjacentTo reports whether i ends exactly where other starts.
func (i Interval) IsAdjacentTo(other Interval) (bool, error) {
	if err := i.checkSameDay(other); err != nil {
		return false, err
	}
	return i.end.Equal(other.start), nil
}

// Overlaps reports whether the two half-open ranges intersect.
func (i Interval) Overlaps(other Interval) (bool, error) {
	if err := i.checkSameDay(other); err != nil {
		return false, err
	}
	return i.start.Before(other.end) && other.start.Before(i.end), nil
}

// HasSameParticipants reports set equality of the participant ids.
func (i Interval) HasSameParticipants(other Interval) bool {
	return slices.Equal(i.participants, other.participants)
}

// WithParticipants returns a copy carrying ids instead.
func (i Interval) WithParticipants(ids []string) Interval {
	i.participants = normalizeIDs(ids)
	return i
}

// WithDate returns a copy moved to date.
func (i Interval) WithDate(date time.Time) Interval {
	i.date = dateutil.TruncateToDay(date)
	return i
}

// WithTimes returns a copy with new bounds.
func (i Interval) WithTimes(start, end clock.Clock) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidArguments, start, end)
	}
	i.start = start
	i.end = end
	i.participants = slices.Clone(i.participants)
	return i, nil
}

// withUnion returns a copy whose participants are the union with ids.
func (i Interval) withUnion(ids []string) Interval {
	if len(ids) == 0 {
		return i
	}
	merged := make([]string, 0, len(i.participants)+len(ids))
	merged = append(merged, i.participants...)
	merged = append(merged, ids...)
	return i.WithParticipants(merged)
}

// withIntersection returns a copy keeping only participants in keep.
func (i Interval) withIntersection(keep map[string]bool) Interval {
	filtered := make([]string, 0, len(i.participants))
	for _, id := range i.participants {
		if keep[id] {
			filtered = append(filtered, id)
		}
	}
	return i.WithParticipants(filtered)
}

// Equal reports whether both intervals have the same day, bounds, size and participants.
func (i Interval) Equal(other Interval) bool {
	return i.SameDay(other) &&
		i.start.Equal(other.start) &&
		i.end.Equal(other.end) &&
		i.size == other.size &&
		i.HasSameParticipants(other)
}

// String renders the interval as "2025-01-10 09:00-11:00 [a b]".
func (i Interval) String() string {
	return fmt.Sprintf("%s %s-%s [%s]", i.date.Format(dateutil.DateLayout), i.start, i.end,
		strings.Join(i.participants, " "))
}
