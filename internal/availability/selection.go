package availability

import (
	"fmt"
	"slices"
	"time"

	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
)

// Range is a raw [Start, End) time range without participants.
type Range struct {
	Start clock.Clock
	End   clock.Clock
}

// NewRange validates start < end.
func NewRange(start, end clock.Clock) (Range, error) {
	if !start.Before(end) {
		return Range{}, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidArguments, start, end)
	}
	return Range{Start: start, End: end}, nil
}

// String renders the range as "09:00-11:00".
func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Source describes how a DaySelection is initially populated.
// It is either a RangeList or a Span.
type Source interface {
	isSource()
}

// RangeList populates a selection from several ranges.
type RangeList []Range

// Span populates a selection from a single start/end pair.
type Span Range

func (RangeList) isSource() {}
func (Span) isSource()      {}

// DaySelection is one participant's chosen ranges for one day, always kept in
// reduced form: sorted, disjoint and never adjacent with equal participants.
// Mutating operations return a new DaySelection and leave the receiver as is.
type DaySelection struct {
	date        time.Time
	size        float64
	participant string
	intervals   []Interval
}

// EmptySelection returns a selection with no ranges.
func EmptySelection(date time.Time, size float64, participant string) (*DaySelection, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: missing date", ErrInvalidArguments)
	}
	if participant == "" {
		return nil, fmt.Errorf("%w: missing participant", ErrInvalidArguments)
	}
	if err := clock.ValidateSize(size); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	return &DaySelection{
		date:        dateutil.TruncateToDay(date),
		size:        size,
		participant: participant,
	}, nil
}

// NewDaySelection builds a selection populated from src.
func NewDaySelection(date time.Time, size float64, participant string, src Source) (*DaySelection, error) {
	sel, err := EmptySelection(date, size, participant)
	if err != nil {
		return nil, err
	}

	var ranges []Range
	switch s := src.(type) {
	case RangeList:
		ranges = s
	case Span:
		ranges = []Range{Range(s)}
	default:
		return nil, fmt.Errorf("%w: unsupported selection source %T", ErrInvalidArguments, src)
	}

	for _, r := range ranges {
		sel, err = sel.AddSelectionRange(r.Start, r.End)
		if err != nil {
			return nil, err
		}
	}
	return sel, nil
}

// Date returns the selection day.
func (s *DaySelection) Date() time.Time { return s.date }

// IntervalSize returns the granularity in hours.
func (s *DaySelection) IntervalSize() float64 { return s.size }

// Participant returns the owner of the selection.
func (s *DaySelection) Participant() string { return s.participant }

// IsEmpty reports whether nothing is selected.
func (s *DaySelection) IsEmpty() bool {
	return len(s.intervals) == 0
}

// Intervals returns a copy of the reduced intervals.
func (s *DaySelection) Intervals() []Interval {
	return slices.Clone(s.intervals)
}

// Ranges returns the selected ranges in ascending order.
func (s *DaySelection) Ranges() []Range {
	ranges := make([]Range, 0, len(s.intervals))
	for _, iv := range s.intervals {
		ranges = append(ranges, Range{Start: iv.start, End: iv.end})
	}
	return ranges
}

func (s *DaySelection) with(intervals []Interval) *DaySelection {
	return &DaySelection{
		date:        s.date,
		size:        s.size,
		participant: s.participant,
		intervals:   intervals,
	}
}

// AddSelectionRange returns a selection that also covers [start, end).
func (s *DaySelection) AddSelectionRange(start, end clock.Clock) (*DaySelection, error) {
	iv, err := FromExplicitBounds(s.date, start, end, s.size, []string{s.participant})
	if err != nil {
		return nil, err
	}
	if s.IsEmpty() {
		return s.with([]Interval{iv}), nil
	}
	merged, err := AddIntervalToSet(s.intervals, iv)
	if err != nil {
		return nil, err
	}
	return s.with(merged), nil
}

// RemoveSelectionRange returns a selection with [start, end) cleared.
func (s *DaySelection) RemoveSelectionRange(start, end clock.Clock) (*DaySelection, error) {
	iv, err := FromExplicitBounds(s.date, start, end, s.size, nil)
	if err != nil {
		return nil, err
	}
	if s.IsEmpty() {
		return s, nil
	}
	remaining, err := RemoveIntervalFromSet(s.intervals, iv)
	if err != nil {
		return nil, err
	}
	return s.with(remaining), nil
}

// SelectedIntervals returns one atomic interval per step of [minTime, maxTime).
// A step is selected when it lies entirely inside a stored range.
func (s *DaySelection) SelectedIntervals(minTime, maxTime clock.Clock) ([]Interval, error) {
	grid, err := BlankRange(s.date, minTime, maxTime, s.size)
	if err != nil {
		return nil, err
	}
	for k, cell := range grid {
		for _, iv := range s.intervals {
			if cell.encompassedBy(iv) {
				grid[k] = cell.WithParticipants(iv.participants)
				break
			}
		}
	}
	return grid, nil
}

// Coverage tiles [minTime, maxTime) with this selection's participant marked
// wherever it is available. Unlike SelectedIntervals, cells are split at range
// boundaries that do not line up with the step size, so no coverage is lost.
func (s *DaySelection) Coverage(minTime, maxTime clock.Clock) ([]Interval, error) {
	blank, err := BlankRange(s.date, minTime, maxTime, s.size)
	if err != nil {
		return nil, err
	}
	clipped := make([]Interval, 0, len(s.intervals))
	for _, iv := range s.intervals {
		start := iv.start.Max(minTime)
		end := iv.end.Min(maxTime)
		if start.Before(end) {
			clipped = append(clipped, iv.withBounds(start, end))
		}
	}
	return MergeSelectionSets(blank, clipped, false)
}

// Covers reports whether [start, end) is entirely selected.
func (s *DaySelection) Covers(start, end clock.Clock) bool {
	for _, iv := range s.intervals {
		if !start.Before(iv.start) && !iv.end.Before(end) {
			return true
		}
	}
	return false
}

// CopyWithDate returns a copy moved to date.
func (s *DaySelection) CopyWithDate(date time.Time) *DaySelection {
	moved := make([]Interval, len(s.intervals))
	for k, iv := range s.intervals {
		moved[k] = iv.WithDate(date)
	}
	out := s.with(moved)
	out.date = dateutil.TruncateToDay(date)
	return out
}

// CopyWithTimes returns a copy whose ranges are replaced by ranges.
func (s *DaySelection) CopyWithTimes(ranges []Range) (*DaySelection, error) {
	return NewDaySelection(s.date, s.size, s.participant, RangeList(ranges))
}

// CopyAsEmpty returns a copy with no ranges.
func (s *DaySelection) CopyAsEmpty() *DaySelection {
	return s.with(nil)
}

// Equal reports value equality.
func (s *DaySelection) Equal(other *DaySelection) bool {
	if s == nil || other == nil {
		return s == other
	}
	return dateutil.SameDay(s.date, other.date) &&
		s.size == other.size &&
		s.participant == other.participant &&
		slices.EqualFunc(s.intervals, other.intervals, Interval.Equal)
}
