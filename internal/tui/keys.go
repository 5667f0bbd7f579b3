package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
	"github.com/javiermolinar/rendezvous/internal/tui/commands"
	"github.com/javiermolinar/rendezvous/internal/tui/input"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Toggle   key.Binding
	FillDay  key.Binding
	ClearDay key.Binding
	Heat     key.Binding
	Save     key.Binding
	Prompt   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "earlier")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "later")),
		Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "prev day")),
		Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next day")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first slot")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last slot")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		FillDay:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "whole day")),
		ClearDay: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear day")),
		Heat:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "overlap")),
		Save:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Prompt:   key.NewBinding(key.WithKeys("/", ":"), key.WithHelp("/", "command")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Save, k.Heat, k.Prompt, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom},
		{k.Toggle, k.FillDay, k.ClearDay},
		{k.Heat, k.Save, k.Prompt, k.Help, k.Quit},
	}
}

var promptCommands = []input.PromptCommand{
	{Name: "/add", Description: "HH:MM-HH:MM mark a range on the current day"},
	{Name: "/remove", Description: "HH:MM-HH:MM clear a range on the current day"},
	{Name: "/fill", Description: "mark the whole current day"},
	{Name: "/clear", Description: "clear the current day"},
	{Name: "/goto", Description: "today|tomorrow|<weekday>|YYYY-MM-DD"},
	{Name: "/save", Description: "store edited days"},
}

var errNoSuchDay = errors.New("day is not part of the meeting")

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg, m.mode)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.mode == ModePrompt {
		return m.handlePromptKeys(msg)
	}
	if m.loading {
		return m, nil
	}
	return m.handleNormalKeys(msg)
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Quit) {
		m.confirmQuit = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.IsDirty() && !m.confirmQuit {
			m.confirmQuit = true
			return m.withStatus("unsaved changes: s saves, q again discards")
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1, "up")
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1, "down")
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0, "left")
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0, "right")
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(0, -len(m.slots), "top")
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(0, len(m.slots), "bottom")

	case key.Matches(msg, m.keys.Toggle):
		if err := m.toggleCell(); err != nil {
			return m.withError(err)
		}
	case key.Matches(msg, m.keys.FillDay):
		if err := m.fillDay(); err != nil {
			return m.withError(err)
		}
	case key.Matches(msg, m.keys.ClearDay):
		m.clearDay()

	case key.Matches(msg, m.keys.Heat):
		m.showHeat = !m.showHeat

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Prompt):
		LogModeChange(m.mode, ModePrompt, msg.String())
		m.mode = ModePrompt
		m.prompt.SetValue("/")
		m.prompt.CursorEnd()
		m.prompt.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leavePrompt("cancel")
		return m, nil
	case "enter":
		value := m.prompt.Value()
		m.leavePrompt("submit")
		return m.handlePromptSubmit(value)
	case "tab":
		if completion, ok := input.PromptAutocomplete(m.prompt.Value(), promptCommands); ok {
			m.prompt.SetValue(completion)
			m.prompt.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) leavePrompt(reason string) {
	LogModeChange(m.mode, ModeNormal, reason)
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.SetValue("")
}

// handlePromptSubmit processes the submitted prompt.
func (m Model) handlePromptSubmit(value string) (tea.Model, tea.Cmd) {
	name, arg := input.SplitPrompt(value)

	switch name {
	case "", "/":
		return m, nil
	case "/add", "/remove":
		start, end, err := input.ParseRange(arg)
		if err != nil {
			return m.withError(err)
		}
		sel := m.mine[m.cursor.Day]
		var updated *availability.DaySelection
		if name == "/add" {
			updated, err = sel.AddSelectionRange(start, end)
		} else {
			updated, err = sel.RemoveSelectionRange(start, end)
		}
		if err != nil {
			return m.withError(err)
		}
		m.setDay(m.cursor.Day, updated)
		LogSelection(updated, name)
		return m, nil
	case "/fill":
		if err := m.fillDay(); err != nil {
			return m.withError(err)
		}
		return m, nil
	case "/clear":
		m.clearDay()
		return m, nil
	case "/goto":
		day, err := dateutil.ParseRelativeDate(arg, m.nowFunc())
		if err != nil {
			return m.withError(err)
		}
		if err := m.gotoDay(day.Format(dateutil.DateLayout)); err != nil {
			return m.withError(err)
		}
		return m, nil
	case "/save":
		return m.save()
	}

	return m.withError(fmt.Errorf("unknown command %q", name))
}

func (m *Model) moveCursor(dDay, dSlot int, reason string) {
	m.cursor.Day = clamp(m.cursor.Day+dDay, 0, len(m.days)-1)
	m.cursor.Slot = clamp(m.cursor.Slot+dSlot, 0, len(m.slots)-1)
	m.ensureCursorVisible()
	LogCursorMove(m.cursor, reason)
}

func (m *Model) gotoDay(date string) error {
	for k, day := range m.days {
		if day.Format(dateutil.DateLayout) == date {
			m.moveCursor(k-m.cursor.Day, 0, "goto")
			return nil
		}
	}
	return fmt.Errorf("%w: %s", errNoSuchDay, date)
}

// toggleCell flips the slot under the cursor.
func (m *Model) toggleCell() error {
	if len(m.slots) == 0 || len(m.mine) == 0 {
		return nil
	}
	s := m.slots[m.cursor.Slot]
	sel := m.mine[m.cursor.Day]

	var (
		updated *availability.DaySelection
		err     error
		action  string
	)
	if sel.Covers(s.start, s.end) {
		updated, err = sel.RemoveSelectionRange(s.start, s.end)
		action = "remove"
	} else {
		updated, err = sel.AddSelectionRange(s.start, s.end)
		action = "add"
	}
	if err != nil {
		return err
	}
	m.setDay(m.cursor.Day, updated)
	LogSelection(updated, action)
	return nil
}

func (m *Model) fillDay() error {
	if len(m.mine) == 0 {
		return nil
	}
	updated, err := m.mine[m.cursor.Day].AddSelectionRange(m.meeting.MinTime, m.meeting.MaxTime)
	if err != nil {
		return err
	}
	m.setDay(m.cursor.Day, updated)
	LogSelection(updated, "fill")
	return nil
}

func (m *Model) clearDay() {
	if len(m.mine) == 0 {
		return
	}
	cleared := m.mine[m.cursor.Day].CopyAsEmpty()
	m.setDay(m.cursor.Day, cleared)
	LogSelection(cleared, "clear")
}

func (m Model) save() (tea.Model, tea.Cmd) {
	dirty := m.dirtyDays()
	if len(dirty) == 0 {
		return m.withStatus("nothing to save")
	}
	if m.svc == nil {
		return m.withError(errors.New("no storage attached"))
	}
	return m, commands.SaveSelections(m.svc, m.meeting, dirty)
}

func (m Model) withStatus(msg string) (tea.Model, tea.Cmd) {
	m.statusMsg = msg
	m.err = nil
	return m, commands.ClearStatusAfter(commands.StatusTimeout)
}

func (m Model) withError(err error) (tea.Model, tea.Cmd) {
	LogError("key", err)
	m.err = err
	m.statusMsg = strings.TrimSpace(err.Error())
	return m, commands.ClearStatusAfter(commands.StatusTimeout)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
