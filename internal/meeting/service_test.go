package meeting

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	meetings   map[string]*Meeting
	selections map[string]*availability.DaySelection
	saves      int
}

func newMemRepo() *memRepo {
	return &memRepo{
		meetings:   make(map[string]*Meeting),
		selections: make(map[string]*availability.DaySelection),
	}
}

func selKey(meetingID, participant string, date time.Time) string {
	return meetingID + "|" + date.Format(dateutil.DateLayout) + "|" + participant
}

func (r *memRepo) CreateMeeting(_ context.Context, m *Meeting) error {
	r.meetings[m.ID] = m
	return nil
}

func (r *memRepo) GetMeeting(_ context.Context, id string) (*Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (r *memRepo) ListMeetings(_ context.Context) ([]*Meeting, error) {
	var out []*Meeting
	for _, m := range r.meetings {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *Meeting) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *memRepo) DeleteMeeting(_ context.Context, id string) error {
	if _, ok := r.meetings[id]; !ok {
		return ErrNotFound
	}
	delete(r.meetings, id)
	for k := range r.selections {
		if strings.HasPrefix(k, id+"|") {
			delete(r.selections, k)
		}
	}
	return nil
}

func (r *memRepo) GetSelection(_ context.Context, meetingID, participant string, date time.Time) (*availability.DaySelection, error) {
	return r.selections[selKey(meetingID, participant, date)], nil
}

func (r *memRepo) SaveSelection(_ context.Context, meetingID string, sel *availability.DaySelection) error {
	r.saves++
	key := selKey(meetingID, sel.Participant(), sel.Date())
	if sel.IsEmpty() {
		delete(r.selections, key)
		return nil
	}
	r.selections[key] = sel
	return nil
}

func (r *memRepo) SaveSelections(ctx context.Context, meetingID string, sels []*availability.DaySelection) error {
	for _, sel := range sels {
		if err := r.SaveSelection(ctx, meetingID, sel); err != nil {
			return err
		}
	}
	return nil
}

func (r *memRepo) DeleteSelection(_ context.Context, meetingID, participant string, date time.Time) error {
	delete(r.selections, selKey(meetingID, participant, date))
	return nil
}

func (r *memRepo) ListSelections(_ context.Context, meetingID string) ([]*availability.DaySelection, error) {
	var keys []string
	for k := range r.selections {
		if strings.HasPrefix(k, meetingID+"|") {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	out := make([]*availability.DaySelection, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.selections[k])
	}
	return out, nil
}

func (r *memRepo) ListParticipantSelections(ctx context.Context, meetingID, participant string) ([]*availability.DaySelection, error) {
	all, _ := r.ListSelections(ctx, meetingID)
	var out []*availability.DaySelection
	for _, sel := range all {
		if sel.Participant() == participant {
			out = append(out, sel)
		}
	}
	return out, nil
}

func (r *memRepo) Close() error { return nil }

var (
	day1 = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	day2 = day1.AddDate(0, 0, 1)
)

func newTestService(t *testing.T) (*Service, *memRepo, *Meeting) {
	t.Helper()
	repo := newMemRepo()
	svc := NewService(repo, nil)
	m, err := svc.CreateMeeting(context.Background(), "Planning", day1, day1.AddDate(0, 0, 2),
		clock.MustParse("09:00"), clock.MustParse("14:00"), 1)
	if err != nil {
		t.Fatalf("CreateMeeting: %v", err)
	}
	return svc, repo, m
}

func TestNew(t *testing.T) {
	nine, five := clock.MustParse("09:00"), clock.MustParse("17:00")

	m, err := New("  Retro  ", day1, day2, nine, five, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Title != "Retro" {
		t.Errorf("expected trimmed title, got %q", m.Title)
	}
	if m.ID == "" || len(m.ShortID()) != 8 {
		t.Errorf("unexpected id %q (short %q)", m.ID, m.ShortID())
	}
	if len(m.Days()) != 1 {
		t.Errorf("expected 1 day, got %d", len(m.Days()))
	}
	if !m.Contains(day1) || m.Contains(day2) {
		t.Error("end date must be exclusive")
	}

	tests := []struct {
		name       string
		title      string
		start, end time.Time
		min, max   clock.Clock
		size       float64
		wantErr    error
	}{
		{name: "empty title", title: " ", start: day1, end: day2, min: nine, max: five, size: 1, wantErr: ErrEmptyTitle},
		{name: "same day", title: "x", start: day1, end: day1, min: nine, max: five, size: 1, wantErr: ErrInvalidDateRange},
		{name: "inverted window", title: "x", start: day1, end: day2, min: five, max: nine, size: 1, wantErr: ErrInvalidWindow},
		{name: "bad size", title: "x", start: day1, end: day2, min: nine, max: five, size: 0.2, wantErr: clock.ErrInvalidTimeValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.title, tt.start, tt.end, tt.min, tt.max, tt.size)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddAndRemoveRange(t *testing.T) {
	svc, repo, m := newTestService(t)
	ctx := context.Background()

	sel, err := svc.AddRange(ctx, m, "alice", day1, clock.MustParse("09:00"), clock.MustParse("12:00"))
	if err != nil {
		t.Fatalf("AddRange: %v", err)
	}
	if len(sel.Ranges()) != 1 {
		t.Fatalf("expected 1 range, got %v", sel.Ranges())
	}

	sel, err = svc.RemoveRange(ctx, m, "alice", day1, clock.MustParse("10:00"), clock.MustParse("11:00"))
	if err != nil {
		t.Fatalf("RemoveRange: %v", err)
	}
	if got := sel.Ranges(); len(got) != 2 || got[0].String() != "09:00-10:00" || got[1].String() != "11:00-12:00" {
		t.Errorf("unexpected ranges after remove: %v", got)
	}

	if _, err := svc.RemoveRange(ctx, m, "alice", day1, clock.MustParse("09:00"), clock.MustParse("12:00")); err != nil {
		t.Fatalf("RemoveRange: %v", err)
	}
	if len(repo.selections) != 0 {
		t.Errorf("empty selection should not be stored, have %d", len(repo.selections))
	}
}

func TestAddRange_Errors(t *testing.T) {
	svc, _, m := newTestService(t)
	ctx := context.Background()
	nine, ten := clock.MustParse("09:00"), clock.MustParse("10:00")

	tests := []struct {
		name        string
		participant string
		date        time.Time
		start, end  clock.Clock
		wantErr     error
	}{
		{name: "date after range", participant: "a", date: day1.AddDate(0, 0, 2), start: nine, end: ten, wantErr: ErrDateOutOfRange},
		{name: "date before range", participant: "a", date: day1.AddDate(0, 0, -1), start: nine, end: ten, wantErr: ErrDateOutOfRange},
		{name: "no participant", participant: "", date: day1, start: nine, end: ten, wantErr: ErrMissingParticipant},
		{name: "inverted range", participant: "a", date: day1, start: ten, end: nine, wantErr: availability.ErrInvalidArguments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddRange(ctx, m, tt.participant, tt.date, tt.start, tt.end)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOverlapAndStandouts(t *testing.T) {
	svc, _, m := newTestService(t)
	ctx := context.Background()

	add := func(participant string, date time.Time, start, end string) {
		t.Helper()
		if _, err := svc.AddRange(ctx, m, participant, date, clock.MustParse(start), clock.MustParse(end)); err != nil {
			t.Fatalf("AddRange: %v", err)
		}
	}
	add("A", day1, "09:00", "12:00")
	add("B", day1, "11:00", "14:00")
	add("A", day2, "09:00", "10:00")
	add("C", day2, "12:00", "13:00")
	add("B", day2, "13:00", "14:00")

	days, err := svc.Overlap(ctx, m)
	if err != nil {
		t.Fatalf("Overlap: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if got := len(days[0].Intervals); got != 3 {
		t.Errorf("day one: expected 3 intervals, got %d", got)
	}
	if iv, ok := days[0].At(clock.MustParse("11:00")); !ok || iv.Count() != 2 {
		t.Errorf("expected A and B at 11:00, got %v", iv)
	}

	participants, err := svc.Participants(ctx, m)
	if err != nil {
		t.Fatalf("Participants: %v", err)
	}
	if !slices.Equal(participants, []string{"A", "B", "C"}) {
		t.Errorf("Participants() = %v", participants)
	}

	standouts, err := svc.Standouts(ctx, m, nil, 1)
	if err != nil {
		t.Fatalf("Standouts: %v", err)
	}
	if len(standouts) != 1 || standouts[0].Count() != 2 || standouts[0].Start().String() != "11:00" {
		t.Errorf("unexpected standouts: %v", standouts)
	}
}

func TestSelections_FillsMissingDays(t *testing.T) {
	svc, _, m := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddRange(ctx, m, "alice", day2, clock.MustParse("09:00"), clock.MustParse("10:00")); err != nil {
		t.Fatalf("AddRange: %v", err)
	}

	sels, err := svc.Selections(ctx, m, "alice")
	if err != nil {
		t.Fatalf("Selections: %v", err)
	}
	if len(sels) != 2 {
		t.Fatalf("expected one selection per day, got %d", len(sels))
	}
	if !sels[0].IsEmpty() || sels[1].IsEmpty() {
		t.Errorf("expected empty first day and filled second day")
	}
}

func TestImportExport(t *testing.T) {
	svc, _, m := newTestService(t)
	ctx := context.Background()

	data := []byte(`[
		{"date": "2025-03-10", "ranges": [{"startTime": 9, "endTime": 11}], "intervalSize": 1, "participantId": "alice"},
		{"date": "2025-03-11", "ranges": [{"startTime": 13, "endTime": 14}], "intervalSize": 1, "participantId": "bob"}
	]`)

	n, err := svc.Import(ctx, m, data)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}

	out, err := svc.Export(ctx, m)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	sels, err := availability.ParseRecords(out)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(sels) != 2 || sels[0].Participant() != "alice" || sels[1].Participant() != "bob" {
		t.Errorf("unexpected export: %s", out)
	}

	t.Run("outside range", func(t *testing.T) {
		bad := []byte(`[{"date": "2025-04-01", "ranges": [], "intervalSize": 1, "participantId": "x"}]`)
		if _, err := svc.Import(ctx, m, bad); !errors.Is(err, ErrDateOutOfRange) {
			t.Errorf("got %v, want ErrDateOutOfRange", err)
		}
	})
}

func TestResolve(t *testing.T) {
	svc, repo, m := newTestService(t)
	ctx := context.Background()

	got, err := svc.Resolve(ctx, m.ShortID())
	if err != nil || got.ID != m.ID {
		t.Fatalf("Resolve(short id) = %v, %v", got, err)
	}

	if _, err := svc.Resolve(ctx, "zzzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	repo.meetings["abc-1"] = &Meeting{ID: "abc-1"}
	repo.meetings["abc-2"] = &Meeting{ID: "abc-2"}
	if _, err := svc.Resolve(ctx, "abc"); !errors.Is(err, ErrAmbiguousID) {
		t.Errorf("got %v, want ErrAmbiguousID", err)
	}
	if got, err := svc.Resolve(ctx, "abc-2"); err != nil || got.ID != "abc-2" {
		t.Errorf("exact id should win: %v, %v", got, err)
	}
}
