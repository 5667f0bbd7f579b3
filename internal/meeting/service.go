package meeting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
	"github.com/javiermolinar/rendezvous/internal/logging"
)

// DefaultTopN is the number of standout intervals reported by default.
const DefaultTopN = 3

// Service records availability against meetings and computes overlaps.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a Service. A nil logger falls back to the context logger
// or slog.Default.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return logging.For(ctx, s.logger, "meeting").With(append([]any{"operation", operation}, attrs...)...)
}

// CreateMeeting validates and stores a new meeting.
func (s *Service) CreateMeeting(ctx context.Context, title string, start, end time.Time, minTime, maxTime clock.Clock, size float64) (*Meeting, error) {
	m, err := New(title, start, end, minTime, maxTime, size)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateMeeting(ctx, m); err != nil {
		return nil, err
	}
	s.log(ctx, "create", "meeting", m.ID).Info("meeting created", "title", m.Title)
	return m, nil
}

// Meetings lists every stored meeting.
func (s *Service) Meetings(ctx context.Context) ([]*Meeting, error) {
	return s.repo.ListMeetings(ctx)
}

// Resolve finds a meeting by full id or unique id prefix.
func (s *Service) Resolve(ctx context.Context, ref string) (*Meeting, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNotFound
	}

	m, err := s.repo.GetMeeting(ctx, ref)
	if err == nil {
		return m, nil
	}

	all, err := s.repo.ListMeetings(ctx)
	if err != nil {
		return nil, err
	}
	var match *Meeting
	for _, candidate := range all {
		if !strings.HasPrefix(candidate.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousID, ref)
		}
		match = candidate
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return match, nil
}

// DeleteMeeting removes a meeting and its selections.
func (s *Service) DeleteMeeting(ctx context.Context, id string) error {
	if err := s.repo.DeleteMeeting(ctx, id); err != nil {
		return err
	}
	s.log(ctx, "delete", "meeting", id).Info("meeting deleted")
	return nil
}

// Selection returns the selection of participant on date, empty if nothing
// has been stored yet.
func (s *Service) Selection(ctx context.Context, m *Meeting, participant string, date time.Time) (*availability.DaySelection, error) {
	if err := checkTarget(m, participant, date); err != nil {
		return nil, err
	}
	sel, err := s.repo.GetSelection(ctx, m.ID, participant, date)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		return availability.EmptySelection(date, m.IntervalSize, participant)
	}
	return sel, nil
}

// Selections returns the selections of participant across every meeting day,
// one per day, empty where nothing has been stored.
func (s *Service) Selections(ctx context.Context, m *Meeting, participant string) ([]*availability.DaySelection, error) {
	stored, err := s.repo.ListParticipantSelections(ctx, m.ID, participant)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]*availability.DaySelection, len(stored))
	for _, sel := range stored {
		byDay[sel.Date().Format(dateutil.DateLayout)] = sel
	}

	days := m.Days()
	out := make([]*availability.DaySelection, 0, len(days))
	for _, day := range days {
		if sel, ok := byDay[day.Format(dateutil.DateLayout)]; ok {
			out = append(out, sel)
			continue
		}
		empty, err := availability.EmptySelection(day, m.IntervalSize, participant)
		if err != nil {
			return nil, err
		}
		out = append(out, empty)
	}
	return out, nil
}

// AllSelections returns every stored selection of the meeting.
func (s *Service) AllSelections(ctx context.Context, m *Meeting) ([]*availability.DaySelection, error) {
	return s.repo.ListSelections(ctx, m.ID)
}

// AddRange marks participant available over [start, end) on date.
func (s *Service) AddRange(ctx context.Context, m *Meeting, participant string, date time.Time, start, end clock.Clock) (*availability.DaySelection, error) {
	logger := s.log(ctx, "add_range", "meeting", m.ID, "participant", participant,
		"date", date.Format(dateutil.DateLayout), "start", start, "end", end)

	sel, err := s.Selection(ctx, m, participant, date)
	if err != nil {
		return nil, err
	}
	updated, err := sel.AddSelectionRange(start, end)
	if err != nil {
		logger.Warn("add range rejected", "kind", availability.ErrorKind(err), "error", err)
		return nil, err
	}
	if err := s.repo.SaveSelection(ctx, m.ID, updated); err != nil {
		return nil, err
	}
	logger.Debug("range added", "ranges", len(updated.Ranges()))
	return updated, nil
}

// RemoveRange clears [start, end) on date for participant.
func (s *Service) RemoveRange(ctx context.Context, m *Meeting, participant string, date time.Time, start, end clock.Clock) (*availability.DaySelection, error) {
	logger := s.log(ctx, "remove_range", "meeting", m.ID, "participant", participant,
		"date", date.Format(dateutil.DateLayout), "start", start, "end", end)

	sel, err := s.Selection(ctx, m, participant, date)
	if err != nil {
		return nil, err
	}
	updated, err := sel.RemoveSelectionRange(start, end)
	if err != nil {
		logger.Warn("remove range rejected", "kind", availability.ErrorKind(err), "error", err)
		return nil, err
	}
	if err := s.repo.SaveSelection(ctx, m.ID, updated); err != nil {
		return nil, err
	}
	logger.Debug("range removed", "ranges", len(updated.Ranges()))
	return updated, nil
}

// SaveSelections stores edited selections in one batch.
func (s *Service) SaveSelections(ctx context.Context, m *Meeting, sels []*availability.DaySelection) error {
	for _, sel := range sels {
		if err := checkTarget(m, sel.Participant(), sel.Date()); err != nil {
			return err
		}
	}
	if err := s.repo.SaveSelections(ctx, m.ID, sels); err != nil {
		return err
	}
	s.log(ctx, "save", "meeting", m.ID).Debug("selections saved", "count", len(sels))
	return nil
}

// Participants returns everyone who stored a selection for the meeting.
func (s *Service) Participants(ctx context.Context, m *Meeting) ([]string, error) {
	sels, err := s.repo.ListSelections(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return availability.ParticipantsOf(sels), nil
}

// Overlap aggregates every participant's availability per meeting day.
func (s *Service) Overlap(ctx context.Context, m *Meeting) ([]availability.AggregatedDay, error) {
	sels, err := s.repo.ListSelections(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	days, err := availability.Aggregate(sels, m.Window())
	if err != nil {
		s.log(ctx, "overlap", "meeting", m.ID).Error("aggregation failed",
			"kind", availability.ErrorKind(err), "error", err)
		return nil, fmt.Errorf("aggregating meeting %s: %w", m.ShortID(), err)
	}
	s.log(ctx, "overlap", "meeting", m.ID).Debug("aggregated", "selections", len(sels), "days", len(days))
	return days, nil
}

// Standouts returns the topN intervals with the most participants among
// included. An empty included means everyone who responded.
func (s *Service) Standouts(ctx context.Context, m *Meeting, included []string, topN int) ([]availability.Interval, error) {
	days, err := s.Overlap(ctx, m)
	if err != nil {
		return nil, err
	}
	if len(included) == 0 {
		for _, day := range days {
			included = append(included, day.Participants()...)
		}
	}
	return availability.StandoutIntervals(days, included, topN), nil
}

// Import stores selection records for the meeting and returns how many were
// stored. Records dated outside the meeting are rejected.
func (s *Service) Import(ctx context.Context, m *Meeting, data []byte) (int, error) {
	sels, err := availability.ParseRecords(data)
	if err != nil {
		return 0, err
	}
	if err := s.SaveSelections(ctx, m, sels); err != nil {
		return 0, err
	}
	s.log(ctx, "import", "meeting", m.ID).Info("selections imported", "count", len(sels))
	return len(sels), nil
}

// Export returns every selection of the meeting as JSON records.
func (s *Service) Export(ctx context.Context, m *Meeting) ([]byte, error) {
	sels, err := s.repo.ListSelections(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return availability.MarshalRecords(sels)
}

func checkTarget(m *Meeting, participant string, date time.Time) error {
	if strings.TrimSpace(participant) == "" {
		return ErrMissingParticipant
	}
	if !m.Contains(date) {
		return fmt.Errorf("%w: %s not in %s to %s", ErrDateOutOfRange,
			date.Format(dateutil.DateLayout),
			m.StartDate.Format(dateutil.DateLayout),
			m.EndDate.AddDate(0, 0, -1).Format(dateutil.DateLayout))
	}
	return nil
}
