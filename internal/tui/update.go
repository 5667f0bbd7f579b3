package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/rendezvous/internal/dateutil"
	"github.com/javiermolinar/rendezvous/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.prompt.Width = max(msg.Width-6, 10)
		m.ensureCursorVisible()
		return m, nil

	case commands.SelectionsLoadedMsg:
		m.setSelections(msg.Mine, msg.Others)
		m.focusToday()
		return m, nil

	case commands.SelectionsSavedMsg:
		for _, sel := range msg.Saved {
			for k, day := range m.days {
				if dateutil.SameDay(day, sel.Date()) {
					m.saved[k] = sel
				}
			}
		}
		m.confirmQuit = false
		return m.withStatus(fmt.Sprintf("saved %d day(s)", len(msg.Saved)))

	case commands.ErrMsg:
		m.loading = false
		return m.withError(msg.Err)

	case commands.StatusMsgCmd:
		return m.withStatus(msg.Msg)

	case commands.ClearStatusMsg:
		m.statusMsg = ""
		m.err = nil
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// focusToday moves the cursor to today's column when the meeting covers it.
func (m *Model) focusToday() {
	today := m.nowFunc()
	for k, day := range m.days {
		if dateutil.SameDay(day, today) {
			m.cursor.Day = k
			m.ensureCursorVisible()
			return
		}
	}
}
