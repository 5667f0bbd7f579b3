package availability

// Reduce canonicalizes a day- and start-ordered sequence. Unselected intervals
// are dropped and terminate the current run; adjacent intervals with exactly
// the same participants are merged into one longer interval.
func Reduce(ordered []Interval) []Interval {
	return reduce(ordered, false)
}

// Coalesce is like Reduce but keeps unselected runs, so a sequence that tiles
// a window still tiles it afterwards.
func Coalesce(ordered []Interval) []Interval {
	return reduce(ordered, true)
}

func reduce(ordered []Interval, keepGaps bool) []Interval {
	out := make([]Interval, 0, len(ordered))
	var (
		current    Interval
		hasCurrent bool
	)
	flush := func() {
		if hasCurrent {
			out = append(out, current)
			hasCurrent = false
		}
	}

	for _, next := range ordered {
		if !next.IsSelected() && !keepGaps {
			flush()
			continue
		}
		if hasCurrent && mergeable(current, next) {
			current.end = next.end
			continue
		}
		flush()
		current = next
		hasCurrent = true
	}
	flush()
	return out
}

// mergeable reports whether b extends a without changing who is available.
func mergeable(a, b Interval) bool {
	return a.SameDay(b) && a.end.Equal(b.start) && a.HasSameParticipants(b)
}
