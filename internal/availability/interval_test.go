package availability

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/rendezvous/internal/clock"
)

var (
	testDay  = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	otherDay = time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
)

// iv builds an interval on testDay with one hour granularity.
func iv(t *testing.T, start, end string, ids ...string) Interval {
	t.Helper()
	return ivSize(t, testDay, start, end, 1, ids...)
}

func ivSize(t *testing.T, date time.Time, start, end string, size float64, ids ...string) Interval {
	t.Helper()
	out, err := FromExplicitBounds(date, clock.MustParse(start), clock.MustParse(end), size, ids)
	if err != nil {
		t.Fatalf("FromExplicitBounds(%s, %s): %v", start, end, err)
	}
	return out
}

// describe renders intervals as "09:00-11:00[a,b] ..." for compact assertions.
func describe(intervals []Interval) string {
	parts := make([]string, 0, len(intervals))
	for _, i := range intervals {
		parts = append(parts, fmt.Sprintf("%s-%s[%s]", i.Start(), i.End(), strings.Join(i.Participants(), ",")))
	}
	return strings.Join(parts, " ")
}

func TestFromRangeAndIDs(t *testing.T) {
	got, err := FromRangeAndIDs(testDay, clock.MustParse("09:00"), 1.5, []string{"bob", "alice", "bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.End().String() != "10:30" {
		t.Errorf("End() = %s, want 10:30", got.End())
	}
	if got.Count() != 2 {
		t.Errorf("Count() = %d, want 2 (duplicates removed)", got.Count())
	}
	if ids := got.Participants(); ids[0] != "alice" || ids[1] != "bob" {
		t.Errorf("Participants() = %v, want sorted [alice bob]", ids)
	}

	t.Run("end past midnight", func(t *testing.T) {
		_, err := FromRangeAndIDs(testDay, clock.MustParse("23:30"), 1, nil)
		if !errors.Is(err, clock.ErrInvalidTimeValue) {
			t.Errorf("got %v, want ErrInvalidTimeValue", err)
		}
	})

	t.Run("bad size", func(t *testing.T) {
		_, err := FromRangeAndIDs(testDay, clock.MustParse("09:00"), 0, nil)
		if !errors.Is(err, ErrInvalidArguments) {
			t.Errorf("got %v, want ErrInvalidArguments", err)
		}
	})
}

func TestFromExplicitBounds_Errors(t *testing.T) {
	nine := clock.MustParse("09:00")
	ten := clock.MustParse("10:00")

	tests := []struct {
		name       string
		date       time.Time
		start, end clock.Clock
		size       float64
	}{
		{name: "start equals end", date: testDay, start: nine, end: nine, size: 1},
		{name: "start after end", date: testDay, start: ten, end: nine, size: 1},
		{name: "zero size", date: testDay, start: nine, end: ten, size: 0},
		{name: "missing date", start: nine, end: ten, size: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromExplicitBounds(tt.date, tt.start, tt.end, tt.size, nil)
			if !errors.Is(err, ErrInvalidArguments) {
				t.Errorf("got %v, want ErrInvalidArguments", err)
			}
		})
	}
}

func TestIntervalPredicates(t *testing.T) {
	outer := iv(t, "09:00", "12:00", "a")
	inner := iv(t, "10:00", "11:00", "a")
	next := iv(t, "12:00", "13:00", "b")

	if ok, err := inner.IsEncompassedBy(outer); err != nil || !ok {
		t.Errorf("inner.IsEncompassedBy(outer) = %v, %v; want true", ok, err)
	}
	if ok, _ := outer.IsEncompassedBy(inner); ok {
		t.Error("outer should not be encompassed by inner")
	}
	if ok, _ := outer.IsEncompassedBy(outer); !ok {
		t.Error("interval should encompass itself")
	}
	if ok, err := outer.IsAdjacentTo(next); err != nil || !ok {
		t.Errorf("outer.IsAdjacentTo(next) = %v, %v; want true", ok, err)
	}
	if ok, _ := next.IsAdjacentTo(outer); ok {
		t.Error("adjacency is directional: next does not end where outer starts")
	}
	if ok, _ := outer.Overlaps(next); ok {
		t.Error("half-open ranges touching at 12:00 must not overlap")
	}
}

func TestIntervalCrossDay(t *testing.T) {
	a := iv(t, "09:00", "10:00", "a")
	b := ivSize(t, otherDay, "09:00", "10:00", 1, "a")

	if _, err := a.IsEncompassedBy(b); !errors.Is(err, ErrCrossDayComparison) {
		t.Errorf("IsEncompassedBy: got %v, want ErrCrossDayComparison", err)
	}
	if _, err := a.IsAdjacentTo(b); !errors.Is(err, ErrCrossDayComparison) {
		t.Errorf("IsAdjacentTo: got %v, want ErrCrossDayComparison", err)
	}
	if _, err := a.Overlaps(b); !errors.Is(err, ErrCrossDayComparison) {
		t.Errorf("Overlaps: got %v, want ErrCrossDayComparison", err)
	}
}

func TestHasSameParticipants(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want bool
	}{
		{name: "order irrelevant", a: []string{"a", "b"}, b: []string{"b", "a"}, want: true},
		{name: "subset", a: []string{"a"}, b: []string{"a", "b"}, want: false},
		{name: "superset", a: []string{"a", "b"}, b: []string{"a"}, want: false},
		{name: "both empty", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := iv(t, "09:00", "10:00", tt.a...)
			b := iv(t, "09:00", "10:00", tt.b...)
			if got := a.HasSameParticipants(b); got != tt.want {
				t.Errorf("HasSameParticipants = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalCopiesDoNotMutate(t *testing.T) {
	orig := iv(t, "09:00", "10:00", "a")

	changed := orig.WithParticipants([]string{"b", "c"})
	moved := orig.WithDate(otherDay)
	retimed, err := orig.WithTimes(clock.MustParse("11:00"), clock.MustParse("12:00"))
	if err != nil {
		t.Fatalf("WithTimes: %v", err)
	}

	ids := orig.Participants()
	ids[0] = "mutated"

	if !orig.HasParticipant("a") || orig.Count() != 1 {
		t.Errorf("original participants changed: %v", orig.Participants())
	}
	if !orig.Date().Equal(testDay) || orig.Start().String() != "09:00" {
		t.Errorf("original changed: %s", orig)
	}
	if changed.Count() != 2 || !moved.Date().Equal(otherDay) || retimed.Start().String() != "11:00" {
		t.Errorf("copies wrong: %s / %s / %s", changed, moved, retimed)
	}
	if orig.IsSelected() == orig.WithParticipants(nil).IsSelected() {
		t.Error("clearing participants should unselect the copy only")
	}
}
