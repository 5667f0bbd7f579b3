// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
	"github.com/javiermolinar/rendezvous/internal/meeting"
)

// SQLite implements meeting.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ meeting.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	// foreign_keys is per connection; the DSN pragma applies it to every one.
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreateMeeting stores a new meeting.
func (s *SQLite) CreateMeeting(ctx context.Context, m *meeting.Meeting) error {
	query := `
		INSERT INTO meetings (
			id, title, start_date, end_date, min_time, max_time, interval_size, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		m.ID,
		m.Title,
		m.StartDate.Format(dateutil.DateLayout),
		m.EndDate.Format(dateutil.DateLayout),
		m.MinTime.String(),
		m.MaxTime.String(),
		m.IntervalSize,
		m.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting meeting: %w", err)
	}

	return nil
}

const meetingColumns = `id, title, start_date, end_date, min_time, max_time, interval_size, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*meeting.Meeting, error) {
	var (
		m                  meeting.Meeting
		startDate, endDate string
		minTime, maxTime   string
		createdAt          string
	)

	if err := row.Scan(&m.ID, &m.Title, &startDate, &endDate, &minTime, &maxTime, &m.IntervalSize, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if m.StartDate, err = parseDate(startDate); err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}
	if m.EndDate, err = parseDate(endDate); err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}
	if m.MinTime, err = clock.Parse(minTime); err != nil {
		return nil, fmt.Errorf("parsing min time: %w", err)
	}
	if m.MaxTime, err = clock.Parse(maxTime); err != nil {
		return nil, fmt.Errorf("parsing max time: %w", err)
	}
	if m.CreatedAt, err = parseDate(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &m, nil
}

// GetMeeting retrieves a meeting by id.
func (s *SQLite) GetMeeting(ctx context.Context, id string) (*meeting.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = ?`

	m, err := scanMeeting(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", meeting.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying meeting: %w", err)
	}
	return m, nil
}

// ListMeetings returns all meetings, newest first.
func (s *SQLite) ListMeetings(ctx context.Context) ([]*meeting.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying meetings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var meetings []*meeting.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning meeting: %w", err)
		}
		meetings = append(meetings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meetings: %w", err)
	}

	return meetings, nil
}

// DeleteMeeting removes a meeting; its selections go with it.
func (s *SQLite) DeleteMeeting(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting meeting: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %q", meeting.ErrNotFound, id)
	}

	return nil
}

const selectionColumns = `participant_id, date, ranges, interval_size`

func scanSelection(row rowScanner) (*availability.DaySelection, error) {
	var (
		rec    availability.SelectionRecord
		date   string
		ranges string
	)

	if err := row.Scan(&rec.ParticipantID, &date, &ranges, &rec.IntervalSize); err != nil {
		return nil, err
	}

	day, err := parseDate(date)
	if err != nil {
		return nil, fmt.Errorf("parsing selection date: %w", err)
	}
	rec.Date = day.Format(dateutil.DateLayout)

	if err := json.Unmarshal([]byte(ranges), &rec.Ranges); err != nil {
		return nil, fmt.Errorf("decoding ranges: %w", err)
	}

	return availability.ParseSelection(rec)
}

// GetSelection returns the stored selection or nil.
func (s *SQLite) GetSelection(ctx context.Context, meetingID, participant string, date time.Time) (*availability.DaySelection, error) {
	query := `
		SELECT ` + selectionColumns + `
		FROM selections
		WHERE meeting_id = ? AND participant_id = ? AND date = ?
	`

	sel, err := scanSelection(s.db.QueryRowContext(ctx, query, meetingID, participant, date.Format(dateutil.DateLayout)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying selection: %w", err)
	}
	return sel, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func saveSelection(ctx context.Context, ex execer, meetingID string, sel *availability.DaySelection) error {
	if sel.IsEmpty() {
		return deleteSelection(ctx, ex, meetingID, sel.Participant(), sel.Date())
	}

	rec := sel.Record()
	ranges, err := json.Marshal(rec.Ranges)
	if err != nil {
		return fmt.Errorf("encoding ranges: %w", err)
	}

	query := `
		INSERT INTO selections (meeting_id, participant_id, date, ranges, interval_size, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (meeting_id, participant_id, date) DO UPDATE SET
			ranges = excluded.ranges,
			interval_size = excluded.interval_size,
			updated_at = excluded.updated_at
	`

	_, err = ex.ExecContext(ctx, query,
		meetingID,
		rec.ParticipantID,
		rec.Date,
		string(ranges),
		rec.IntervalSize,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving selection for %s on %s: %w", rec.ParticipantID, rec.Date, err)
	}

	return nil
}

func deleteSelection(ctx context.Context, ex execer, meetingID, participant string, date time.Time) error {
	query := `DELETE FROM selections WHERE meeting_id = ? AND participant_id = ? AND date = ?`

	if _, err := ex.ExecContext(ctx, query, meetingID, participant, date.Format(dateutil.DateLayout)); err != nil {
		return fmt.Errorf("deleting selection: %w", err)
	}
	return nil
}

// SaveSelection upserts a selection; an empty one deletes the row.
func (s *SQLite) SaveSelection(ctx context.Context, meetingID string, sel *availability.DaySelection) error {
	return saveSelection(ctx, s.db, meetingID, sel)
}

// SaveSelections upserts several selections in one transaction.
func (s *SQLite) SaveSelections(ctx context.Context, meetingID string, sels []*availability.DaySelection) error {
	if len(sels) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, sel := range sels {
		if err := saveSelection(ctx, tx, meetingID, sel); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// DeleteSelection removes the selection of a participant for one day.
func (s *SQLite) DeleteSelection(ctx context.Context, meetingID, participant string, date time.Time) error {
	return deleteSelection(ctx, s.db, meetingID, participant, date)
}

// ListSelections returns every selection of a meeting.
func (s *SQLite) ListSelections(ctx context.Context, meetingID string) ([]*availability.DaySelection, error) {
	query := `
		SELECT ` + selectionColumns + `
		FROM selections
		WHERE meeting_id = ?
		ORDER BY date, participant_id
	`
	return s.listSelections(ctx, query, meetingID)
}

// ListParticipantSelections returns the selections of one participant.
func (s *SQLite) ListParticipantSelections(ctx context.Context, meetingID, participant string) ([]*availability.DaySelection, error) {
	query := `
		SELECT ` + selectionColumns + `
		FROM selections
		WHERE meeting_id = ? AND participant_id = ?
		ORDER BY date
	`
	return s.listSelections(ctx, query, meetingID, participant)
}

func (s *SQLite) listSelections(ctx context.Context, query string, args ...any) ([]*availability.DaySelection, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying selections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sels []*availability.DaySelection
	for rows.Next() {
		sel, err := scanSelection(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning selection: %w", err)
		}
		sels = append(sels, sel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating selections: %w", err)
	}

	return sels, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// parseDate parses the date and timestamp shapes SQLite hands back.
// DATE columns may come back as "2006-01-02" or "2006-01-02T00:00:00Z"; both
// are read as calendar days in UTC to match decoded selection records.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateutil.DateLayout, s); err == nil {
		return t, nil
	}

	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' && s[11:19] == "00:00:00" {
		if t, err := time.Parse(dateutil.DateLayout, s[:10]); err == nil {
			return t, nil
		}
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}
