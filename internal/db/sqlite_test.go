package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
	"github.com/javiermolinar/rendezvous/internal/meeting"
)

var (
	day1 = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	day2 = day1.AddDate(0, 0, 1)
)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func newTestMeeting(t *testing.T, repo *SQLite, title string) *meeting.Meeting {
	t.Helper()

	m, err := meeting.New(title, day1, day1.AddDate(0, 0, 3), clock.MustParse("09:00"), clock.MustParse("17:00"), 0.5)
	if err != nil {
		t.Fatalf("meeting.New failed: %v", err)
	}
	if err := repo.CreateMeeting(context.Background(), m); err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}
	return m
}

func newTestSelection(t *testing.T, participant string, date time.Time, ranges ...string) *availability.DaySelection {
	t.Helper()

	list := availability.RangeList{}
	for k := 0; k < len(ranges); k += 2 {
		r, err := availability.NewRange(clock.MustParse(ranges[k]), clock.MustParse(ranges[k+1]))
		if err != nil {
			t.Fatalf("NewRange failed: %v", err)
		}
		list = append(list, r)
	}
	sel, err := availability.NewDaySelection(date, 0.5, participant, list)
	if err != nil {
		t.Fatalf("NewDaySelection failed: %v", err)
	}
	return sel
}

func TestCreateAndGetMeeting(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	original := newTestMeeting(t, repo, "Sprint planning")

	got, err := repo.GetMeeting(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetMeeting failed: %v", err)
	}

	if got.Title != original.Title {
		t.Errorf("expected title %q, got %q", original.Title, got.Title)
	}
	if got.StartDate.Format(dateutil.DateLayout) != "2025-01-15" {
		t.Errorf("expected start 2025-01-15, got %v", got.StartDate)
	}
	if got.EndDate.Format(dateutil.DateLayout) != "2025-01-18" {
		t.Errorf("expected end 2025-01-18, got %v", got.EndDate)
	}
	if !got.MinTime.Equal(original.MinTime) || !got.MaxTime.Equal(original.MaxTime) {
		t.Errorf("expected window %s-%s, got %s-%s", original.MinTime, original.MaxTime, got.MinTime, got.MaxTime)
	}
	if got.IntervalSize != 0.5 {
		t.Errorf("expected interval size 0.5, got %v", got.IntervalSize)
	}
	if got.CreatedAt.Unix() != original.CreatedAt.Unix() {
		t.Errorf("expected created at %v, got %v", original.CreatedAt, got.CreatedAt)
	}
}

func TestGetMeeting_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetMeeting(context.Background(), "missing")
	if !errors.Is(err, meeting.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateMeeting_DuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	m := newTestMeeting(t, repo, "Once")

	if err := repo.CreateMeeting(context.Background(), m); err == nil {
		t.Error("expected error inserting the same id twice")
	}
}

func TestListMeetings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	meetings, err := repo.ListMeetings(ctx)
	if err != nil {
		t.Fatalf("ListMeetings failed: %v", err)
	}
	if len(meetings) != 0 {
		t.Errorf("expected no meetings, got %d", len(meetings))
	}

	newTestMeeting(t, repo, "First")
	newTestMeeting(t, repo, "Second")

	meetings, err = repo.ListMeetings(ctx)
	if err != nil {
		t.Fatalf("ListMeetings failed: %v", err)
	}
	if len(meetings) != 2 {
		t.Errorf("expected 2 meetings, got %d", len(meetings))
	}
}

func TestSaveAndGetSelection(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	m := newTestMeeting(t, repo, "Sync")

	sel := newTestSelection(t, "alice", day1, "09:00", "11:30", "14:00", "15:00")
	if err := repo.SaveSelection(ctx, m.ID, sel); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}

	got, err := repo.GetSelection(ctx, m.ID, "alice", day1)
	if err != nil {
		t.Fatalf("GetSelection failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a stored selection")
	}
	if !got.Equal(sel) {
		t.Errorf("expected %v, got %v", sel.Ranges(), got.Ranges())
	}

	missing, err := repo.GetSelection(ctx, m.ID, "alice", day2)
	if err != nil {
		t.Fatalf("GetSelection failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for a day without selection, got %v", missing.Ranges())
	}
}

func TestSaveSelection_Upsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	m := newTestMeeting(t, repo, "Sync")

	first := newTestSelection(t, "alice", day1, "09:00", "10:00")
	second := newTestSelection(t, "alice", day1, "13:00", "16:00")

	if err := repo.SaveSelection(ctx, m.ID, first); err != nil {
		t.Fatalf("SaveSelection (first) failed: %v", err)
	}
	if err := repo.SaveSelection(ctx, m.ID, second); err != nil {
		t.Fatalf("SaveSelection (second) failed: %v", err)
	}

	sels, err := repo.ListSelections(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListSelections failed: %v", err)
	}
	if len(sels) != 1 {
		t.Fatalf("expected 1 row after upsert, got %d", len(sels))
	}
	if !sels[0].Equal(second) {
		t.Errorf("expected %v, got %v", second.Ranges(), sels[0].Ranges())
	}
}

func TestSaveSelection_EmptyDeletes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	m := newTestMeeting(t, repo, "Sync")

	sel := newTestSelection(t, "alice", day1, "09:00", "10:00")
	if err := repo.SaveSelection(ctx, m.ID, sel); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}
	if err := repo.SaveSelection(ctx, m.ID, sel.CopyAsEmpty()); err != nil {
		t.Fatalf("SaveSelection (empty) failed: %v", err)
	}

	got, err := repo.GetSelection(ctx, m.ID, "alice", day1)
	if err != nil {
		t.Fatalf("GetSelection failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected row to be deleted, got %v", got.Ranges())
	}
}

func TestSaveSelection_UnknownMeeting(t *testing.T) {
	repo := newTestRepo(t)

	sel := newTestSelection(t, "alice", day1, "09:00", "10:00")
	if err := repo.SaveSelection(context.Background(), "nope", sel); err == nil {
		t.Error("expected foreign key error for unknown meeting")
	}
}

func TestSaveSelections(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	m := newTestMeeting(t, repo, "Sync")

	sels := []*availability.DaySelection{
		newTestSelection(t, "bob", day2, "10:00", "12:00"),
		newTestSelection(t, "alice", day1, "09:00", "10:00"),
		newTestSelection(t, "alice", day2, "15:00", "16:00"),
	}
	if err := repo.SaveSelections(ctx, m.ID, sels); err != nil {
		t.Fatalf("SaveSelections failed: %v", err)
	}

	all, err := repo.ListSelections(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListSelections failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 selections, got %d", len(all))
	}
	// ordered by date then participant
	want := []string{"alice 2025-01-15", "alice 2025-01-16", "bob 2025-01-16"}
	for k, sel := range all {
		got := sel.Participant() + " " + sel.Date().Format(dateutil.DateLayout)
		if got != want[k] {
			t.Errorf("row %d: expected %q, got %q", k, want[k], got)
		}
	}

	alice, err := repo.ListParticipantSelections(ctx, m.ID, "alice")
	if err != nil {
		t.Fatalf("ListParticipantSelections failed: %v", err)
	}
	if len(alice) != 2 {
		t.Errorf("expected 2 selections for alice, got %d", len(alice))
	}
}

func TestSaveSelections_RollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	m := newTestMeeting(t, repo, "Sync")

	good := newTestSelection(t, "alice", day1, "09:00", "10:00")
	if err := repo.SaveSelections(ctx, "nope", []*availability.DaySelection{good}); err == nil {
		t.Fatal("expected error for unknown meeting")
	}

	all, err := repo.ListSelections(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListSelections failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected nothing stored, got %d", len(all))
	}
}

func TestDeleteSelection(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	m := newTestMeeting(t, repo, "Sync")

	if err := repo.SaveSelection(ctx, m.ID, newTestSelection(t, "alice", day1, "09:00", "10:00")); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}
	if err := repo.DeleteSelection(ctx, m.ID, "alice", day1); err != nil {
		t.Fatalf("DeleteSelection failed: %v", err)
	}

	all, err := repo.ListSelections(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListSelections failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no selections, got %d", len(all))
	}
}

func TestDeleteMeeting_Cascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	m := newTestMeeting(t, repo, "Sync")

	if err := repo.SaveSelection(ctx, m.ID, newTestSelection(t, "alice", day1, "09:00", "10:00")); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}
	if err := repo.DeleteMeeting(ctx, m.ID); err != nil {
		t.Fatalf("DeleteMeeting failed: %v", err)
	}

	if _, err := repo.GetMeeting(ctx, m.ID); !errors.Is(err, meeting.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	all, err := repo.ListSelections(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListSelections failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected selections to be deleted, got %d", len(all))
	}

	if err := repo.DeleteMeeting(ctx, m.ID); !errors.Is(err, meeting.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestServiceOverSQLite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	svc := meeting.NewService(repo, nil)

	m, err := svc.CreateMeeting(ctx, "Offsite", day1, day2, clock.MustParse("09:00"), clock.MustParse("14:00"), 1)
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}
	if _, err := svc.AddRange(ctx, m, "A", day1, clock.MustParse("09:00"), clock.MustParse("12:00")); err != nil {
		t.Fatalf("AddRange failed: %v", err)
	}
	if _, err := svc.AddRange(ctx, m, "B", day1, clock.MustParse("11:00"), clock.MustParse("14:00")); err != nil {
		t.Fatalf("AddRange failed: %v", err)
	}

	days, err := svc.Overlap(ctx, m)
	if err != nil {
		t.Fatalf("Overlap failed: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}

	want := []struct {
		start, end string
		count      int
	}{
		{"09:00", "11:00", 1},
		{"11:00", "12:00", 2},
		{"12:00", "14:00", 1},
	}
	if len(days[0].Intervals) != len(want) {
		t.Fatalf("expected %d intervals, got %d", len(want), len(days[0].Intervals))
	}
	for k, iv := range days[0].Intervals {
		if iv.Start().String() != want[k].start || iv.End().String() != want[k].end || iv.Count() != want[k].count {
			t.Errorf("interval %d: expected %s-%s x%d, got %s", k, want[k].start, want[k].end, want[k].count, iv)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "2025-01-15", want: "2025-01-15"},
		{input: "2025-01-15T00:00:00Z", want: "2025-01-15"},
		{input: "2025-01-15T10:30:00+02:00", want: "2025-01-15"},
		{input: "2025-01-15 10:30:00", want: "2025-01-15"},
		{input: "15/01/2025", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parseDate(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseDate(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if !tc.wantErr && got.Format(dateutil.DateLayout) != tc.want {
				t.Errorf("parseDate(%q) = %v, want %s", tc.input, got, tc.want)
			}
		})
	}
}
