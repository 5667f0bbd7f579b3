package availability

import (
	"fmt"
	"slices"
	"time"

	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
)

// DefaultIntervalSize is the granularity used when none is configured.
const DefaultIntervalSize = 1.0

// Window is the date range and daily time window an aggregation covers.
// Dates are half-open: EndDate itself is excluded.
type Window struct {
	StartDate    time.Time
	EndDate      time.Time
	MinTime      clock.Clock
	MaxTime      clock.Clock
	IntervalSize float64
}

// Validate checks the window is well formed.
func (w Window) Validate() error {
	if w.StartDate.IsZero() || w.EndDate.IsZero() {
		return fmt.Errorf("%w: window dates are required", ErrInvalidArguments)
	}
	if w.EndDate.Before(w.StartDate) {
		return fmt.Errorf("%w: end date %s before start date %s", ErrInvalidArguments,
			w.EndDate.Format(dateutil.DateLayout), w.StartDate.Format(dateutil.DateLayout))
	}
	if !w.MinTime.Before(w.MaxTime) {
		return fmt.Errorf("%w: min time %s must be before max time %s", ErrInvalidArguments, w.MinTime, w.MaxTime)
	}
	if err := clock.ValidateSize(w.IntervalSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	return nil
}

// Days lists the calendar days of the window.
func (w Window) Days() []time.Time {
	return dateutil.Days(w.StartDate, w.EndDate)
}

// AggregatedDay is the overlap of every participant for one day. Its intervals
// tile [MinTime, MaxTime) exactly, including intervals nobody selected.
type AggregatedDay struct {
	Date      time.Time
	Intervals []Interval
}

// MaxCount returns the highest participant count of the day.
func (d AggregatedDay) MaxCount() int {
	best := 0
	for _, iv := range d.Intervals {
		best = max(best, iv.Count())
	}
	return best
}

// Participants returns everyone available at some point of the day.
func (d AggregatedDay) Participants() []string {
	var ids []string
	for _, iv := range d.Intervals {
		ids = append(ids, iv.participants...)
	}
	return normalizeIDs(ids)
}

// At returns the interval containing t.
func (d AggregatedDay) At(t clock.Clock) (Interval, bool) {
	for _, iv := range d.Intervals {
		if !t.Before(iv.start) && t.Before(iv.end) {
			return iv, true
		}
	}
	return Interval{}, false
}

// Aggregate combines the selections of every participant into one
// AggregatedDay per calendar day of the window, in date order. Selections
// outside the window are ignored; a day without selections is all gaps.
func Aggregate(selections []*DaySelection, w Window) ([]AggregatedDay, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	byDay := make(map[string][]*DaySelection)
	for _, sel := range selections {
		if sel == nil || sel.IsEmpty() {
			continue
		}
		key := sel.date.Format(dateutil.DateLayout)
		byDay[key] = append(byDay[key], sel)
	}

	days := w.Days()
	out := make([]AggregatedDay, 0, len(days))
	for _, day := range days {
		agg, err := aggregateDay(day, byDay[day.Format(dateutil.DateLayout)], w)
		if err != nil {
			return nil, fmt.Errorf("aggregating %s: %w", day.Format(dateutil.DateLayout), err)
		}
		out = append(out, agg)
	}
	return out, nil
}

// aggregateDay accumulates at atomic granularity and reduces once at the end.
func aggregateDay(day time.Time, selections []*DaySelection, w Window) (AggregatedDay, error) {
	acc, err := BlankRange(day, w.MinTime, w.MaxTime, w.IntervalSize)
	if err != nil {
		return AggregatedDay{}, err
	}

	for _, sel := range selections {
		coverage, err := sel.Coverage(w.MinTime, w.MaxTime)
		if err != nil {
			return AggregatedDay{}, fmt.Errorf("participant %s: %w", sel.participant, err)
		}
		acc, err = MergeSelectionSets(acc, coverage, false)
		if err != nil {
			return AggregatedDay{}, fmt.Errorf("participant %s: %w", sel.participant, err)
		}
	}

	return AggregatedDay{Date: day, Intervals: Coalesce(acc)}, nil
}

// ParticipantsOf returns the distinct participants of selections, sorted.
func ParticipantsOf(selections []*DaySelection) []string {
	ids := make([]string, 0, len(selections))
	for _, sel := range selections {
		if sel != nil {
			ids = append(ids, sel.participant)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
