package availability

import (
	"fmt"
	"slices"
	"time"

	"github.com/javiermolinar/rendezvous/internal/clock"
)

// BlankRange returns unselected atomic intervals of the given size tiling
// [minTime, maxTime). The last interval is clipped to maxTime when the window
// is not a whole number of steps.
func BlankRange(date time.Time, minTime, maxTime clock.Clock, size float64) ([]Interval, error) {
	return atomicGrid(date, minTime, maxTime, size, nil)
}

// atomicGrid tiles [minTime, maxTime) with steps of size, additionally cut at
// every clock in cuts that falls strictly inside the window.
func atomicGrid(date time.Time, minTime, maxTime clock.Clock, size float64, cuts []clock.Clock) ([]Interval, error) {
	if !minTime.Before(maxTime) {
		return nil, fmt.Errorf("%w: window %s-%s is empty", ErrInvalidArguments, minTime, maxTime)
	}
	step, err := clock.SizeTicks(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	breaks := make([]int, 0, (maxTime.Ticks()-minTime.Ticks())/step+len(cuts)+2)
	for t := minTime.Ticks(); t < maxTime.Ticks(); t += step {
		breaks = append(breaks, t)
	}
	breaks = append(breaks, maxTime.Ticks())
	for _, c := range cuts {
		if minTime.Before(c) && c.Before(maxTime) {
			breaks = append(breaks, c.Ticks())
		}
	}
	slices.Sort(breaks)
	breaks = slices.Compact(breaks)

	grid := make([]Interval, 0, len(breaks)-1)
	for k := 0; k+1 < len(breaks); k++ {
		start, _ := clock.FromTicks(breaks[k])
		end, _ := clock.FromTicks(breaks[k+1])
		cell, err := FromExplicitBounds(date, start, end, size, nil)
		if err != nil {
			return nil, err
		}
		grid = append(grid, cell)
	}
	return grid, nil
}

// MergeSelectionSets returns the participant union of two same-day interval
// collections. The result is expressed at the finest granularity found in
// either input and, when reduce is true, canonicalized with Reduce.
func MergeSelectionSets(first, second []Interval, reduce bool) ([]Interval, error) {
	all := make([]Interval, 0, len(first)+len(second))
	all = append(all, first...)
	all = append(all, second...)
	if len(all) == 0 {
		return nil, ErrEmptyCollection
	}

	anchor := all[0]
	minStart, maxEnd, finest := anchor.start, anchor.end, anchor.size
	cuts := make([]clock.Clock, 0, 2*len(all))
	for _, iv := range all {
		if err := anchor.checkSameDay(iv); err != nil {
			return nil, err
		}
		minStart = minStart.Min(iv.start)
		maxEnd = maxEnd.Max(iv.end)
		finest = min(finest, iv.size)
		cuts = append(cuts, iv.start, iv.end)
	}

	grid, err := atomicGrid(anchor.date, minStart, maxEnd, finest, cuts)
	if err != nil {
		return nil, err
	}

	for _, src := range all {
		if !src.IsSelected() {
			continue
		}
		for k := range grid {
			if grid[k].encompassedBy(src) {
				grid[k] = grid[k].withUnion(src.participants)
			}
		}
	}

	if reduce {
		return Reduce(grid), nil
	}
	return grid, nil
}

// AddIntervalToSet folds toAdd into existing.
func AddIntervalToSet(existing []Interval, toAdd Interval) ([]Interval, error) {
	return MergeSelectionSets(existing, []Interval{toAdd}, true)
}
