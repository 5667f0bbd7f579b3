package meeting

import (
	"context"
	"time"

	"github.com/javiermolinar/rendezvous/internal/availability"
)

// Repository defines the storage interface for meetings and selections.
type Repository interface {
	// CreateMeeting stores a new meeting.
	CreateMeeting(ctx context.Context, m *Meeting) error

	// GetMeeting retrieves a meeting by id. Returns ErrNotFound if absent.
	GetMeeting(ctx context.Context, id string) (*Meeting, error)

	// ListMeetings returns all meetings, newest first.
	ListMeetings(ctx context.Context) ([]*Meeting, error)

	// DeleteMeeting removes a meeting and every selection made for it.
	DeleteMeeting(ctx context.Context, id string) error

	// GetSelection returns the stored selection of a participant for one day,
	// or nil if there is none.
	GetSelection(ctx context.Context, meetingID, participant string, date time.Time) (*availability.DaySelection, error)

	// SaveSelection upserts a selection. Empty selections delete the row.
	SaveSelection(ctx context.Context, meetingID string, sel *availability.DaySelection) error

	// SaveSelections upserts several selections atomically.
	SaveSelections(ctx context.Context, meetingID string, sels []*availability.DaySelection) error

	// DeleteSelection removes the selection of a participant for one day.
	DeleteSelection(ctx context.Context, meetingID, participant string, date time.Time) error

	// ListSelections returns every selection of a meeting ordered by date and participant.
	ListSelections(ctx context.Context, meetingID string) ([]*availability.DaySelection, error)

	// ListParticipantSelections returns the selections of one participant ordered by date.
	ListParticipantSelections(ctx context.Context, meetingID, participant string) ([]*availability.DaySelection, error)

	// Close releases any resources held by the repository.
	Close() error
}
