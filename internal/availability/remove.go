package availability

import "github.com/javiermolinar/rendezvous/internal/clock"

// RemoveIntervalFromSet cuts the time range of toRemove out of every interval
// in existing, regardless of participants. Fully covered intervals become
// unselected rather than disappearing so the reduction still sees the gap.
// The result is reduced.
func RemoveIntervalFromSet(existing []Interval, toRemove Interval) ([]Interval, error) {
	out := make([]Interval, 0, len(existing)+1)
	r := toRemove

	for _, i := range existing {
		if err := i.checkSameDay(r); err != nil {
			return nil, err
		}

		switch {
		case !r.start.Before(i.end) || !i.start.Before(r.end):
			// no intersection
			out = append(out, i)
		case !i.start.Before(r.start) && !r.end.Before(i.end):
			// r covers i
			out = append(out, i.WithParticipants(nil))
		case !i.start.Before(r.start):
			// r clips the head of i
			out = append(out, i.withBounds(r.end, i.end))
		case !r.end.Before(i.end):
			// r clips the tail of i
			out = append(out, i.withBounds(i.start, r.start))
		default:
			// r sits strictly inside i
			out = append(out, i.withBounds(i.start, r.start), i.withBounds(r.end, i.end))
		}
	}

	return Reduce(out), nil
}

// withBounds is WithTimes for bounds already known to be ordered.
func (i Interval) withBounds(start, end clock.Clock) Interval {
	i.start = start
	i.end = end
	return i
}
