// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/meeting"
)

// SelectionsLoadedMsg is sent when the picker data is loaded.
type SelectionsLoadedMsg struct {
	// Mine holds one selection per meeting day for the local participant.
	Mine []*availability.DaySelection
	// Others holds every stored selection of the other participants.
	Others []*availability.DaySelection
}

// SelectionsSavedMsg is sent when edited selections were stored.
type SelectionsSavedMsg struct {
	Saved []*availability.DaySelection
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// StatusTimeout is how long a status message stays visible.
const StatusTimeout = 3 * time.Second

// LoadSelections loads the participant's selections and everybody else's.
func LoadSelections(svc *meeting.Service, m *meeting.Meeting, participant string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		mine, err := svc.Selections(ctx, m, participant)
		if err != nil {
			return ErrMsg{Err: err}
		}

		all, err := svc.AllSelections(ctx, m)
		if err != nil {
			return ErrMsg{Err: err}
		}

		others := make([]*availability.DaySelection, 0, len(all))
		for _, sel := range all {
			if sel.Participant() != participant {
				others = append(others, sel)
			}
		}

		return SelectionsLoadedMsg{Mine: mine, Others: others}
	}
}

// SaveSelections stores the edited days in one batch.
func SaveSelections(svc *meeting.Service, m *meeting.Meeting, sels []*availability.DaySelection) tea.Cmd {
	return func() tea.Msg {
		if err := svc.SaveSelections(context.Background(), m, sels); err != nil {
			return ErrMsg{Err: err}
		}
		return SelectionsSavedMsg{Saved: sels}
	}
}

// ShowStatus returns a command that emits a status message.
func ShowStatus(msg string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsgCmd{Msg: msg}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
