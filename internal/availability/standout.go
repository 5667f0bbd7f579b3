package availability

import "slices"

// StandoutThreshold is the flattened interval count at or below which no
// standouts are reported.
const StandoutThreshold = 5

// StandoutIntervals returns the topN intervals with the most participants
// across all days, counting only the participants in included. Ties keep
// their chronological order. Check the result with Suggestable before
// presenting it.
func StandoutIntervals(days []AggregatedDay, included []string, topN int) []Interval {
	keep := make(map[string]bool, len(included))
	for _, id := range included {
		keep[id] = true
	}

	var flat []Interval
	for _, day := range days {
		filtered := make([]Interval, 0, len(day.Intervals))
		for _, iv := range day.Intervals {
			filtered = append(filtered, iv.withIntersection(keep))
		}
		flat = append(flat, Reduce(filtered)...)
	}

	if len(flat) <= StandoutThreshold || topN <= 0 {
		return []Interval{}
	}

	slices.SortStableFunc(flat, func(a, b Interval) int {
		return b.Count() - a.Count()
	})
	return flat[:min(topN, len(flat))]
}

// Suggestable reports whether the leading standout has at least two
// participants. A single person's availability is not a meeting time.
func Suggestable(standouts []Interval) bool {
	return len(standouts) > 0 && standouts[0].Count() > 1
}
