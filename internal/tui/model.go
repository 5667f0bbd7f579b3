package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/clock"
	"github.com/javiermolinar/rendezvous/internal/config"
	"github.com/javiermolinar/rendezvous/internal/meeting"
	"github.com/javiermolinar/rendezvous/internal/tui/commands"
	"github.com/javiermolinar/rendezvous/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	// ModeNormal is the default grid navigation mode.
	ModeNormal Mode = iota
	// ModePrompt is the command input mode.
	ModePrompt
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModePrompt:
		return "Prompt"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Position is a cursor location: a meeting day column and a slot row.
type Position struct {
	Day  int
	Slot int
}

// slot is one row of the grid, [start, end) on every day.
type slot struct {
	start clock.Clock
	end   clock.Clock
}

// Model is the main TUI model.
type Model struct {
	svc         *meeting.Service
	meeting     *meeting.Meeting
	participant string
	config      *config.Config
	theme       *theme.Theme
	styles      *Styles

	mode   Mode
	keys   keyMap
	help   help.Model
	prompt textinput.Model

	days  []time.Time
	slots []slot

	// mine holds the working copy being edited, one per day; saved mirrors
	// what is stored so unsaved days can be detected.
	mine    []*availability.DaySelection
	saved   []*availability.DaySelection
	others  []*availability.DaySelection
	overlap []availability.AggregatedDay
	// responders counts everyone taking part, the local participant included.
	responders int

	cursor      Position
	dayOffset   int
	slotOffset  int
	showHeat    bool
	loading     bool
	confirmQuit bool

	width  int
	height int

	statusMsg string
	err       error
	nowFunc   func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithNow overrides the clock used to find today's column.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.nowFunc = now
	}
}

// New creates a picker for participant on meeting mt.
func New(svc *meeting.Service, mt *meeting.Meeting, participant string, cfg *config.Config, opts ...ModelOption) *Model {
	ti := textinput.New()
	ti.Placeholder = "/add 09:00-12:00"
	ti.CharLimit = 64

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t = theme.Default()
	}

	m := &Model{
		svc:         svc,
		meeting:     mt,
		participant: participant,
		config:      cfg,
		theme:       t,
		styles:      NewStyles(t),
		mode:        ModeNormal,
		keys:        newKeyMap(),
		help:        help.New(),
		prompt:      ti,
		days:        mt.Days(),
		slots:       buildSlots(mt),
		showHeat:    true,
		loading:     true,
		responders:  1,
		nowFunc:     time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// buildSlots lists the rows of the grid from the meeting window.
func buildSlots(mt *meeting.Meeting) []slot {
	cells, err := availability.BlankRange(mt.StartDate, mt.MinTime, mt.MaxTime, mt.IntervalSize)
	if err != nil {
		return nil
	}
	slots := make([]slot, len(cells))
	for k, c := range cells {
		slots[k] = slot{start: c.Start(), end: c.End()}
	}
	return slots
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadSelections(m.svc, m.meeting, m.participant)
}

// Run starts the picker.
func Run(svc *meeting.Service, mt *meeting.Meeting, participant string, cfg *config.Config) error {
	return RunWithDebug(svc, mt, participant, cfg, false)
}

// RunWithDebug starts the picker with optional debug logging.
func RunWithDebug(svc *meeting.Service, mt *meeting.Meeting, participant string, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(svc, mt, participant, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.IsDirty() {
		debugLog.Debug("quit with unsaved days", "count", len(fm.dirtyDays()))
	}
	return err
}

// setSelections installs freshly loaded data.
func (m *Model) setSelections(mine, others []*availability.DaySelection) {
	m.mine = mine
	m.saved = append([]*availability.DaySelection(nil), mine...)
	m.others = others
	m.loading = false
	m.recomputeOverlap()
}

// setDay replaces the working selection of one day.
func (m *Model) setDay(day int, sel *availability.DaySelection) {
	m.mine[day] = sel
	m.confirmQuit = false
	m.recomputeOverlap()
}

// recomputeOverlap aggregates the working copy with everybody else's
// stored selections so the heat map tracks edits live.
func (m *Model) recomputeOverlap() {
	all := make([]*availability.DaySelection, 0, len(m.others)+len(m.mine))
	all = append(all, m.others...)
	all = append(all, m.mine...)

	overlap, err := availability.Aggregate(all, m.meeting.Window())
	if err != nil {
		m.err = err
		LogError("aggregate", err)
		return
	}
	m.overlap = overlap

	responders := availability.ParticipantsOf(m.others)
	m.responders = len(responders) + 1
	for _, id := range responders {
		if id == m.participant {
			m.responders--
			break
		}
	}
}

// dirtyDays returns the working selections that differ from what is stored.
func (m Model) dirtyDays() []*availability.DaySelection {
	var dirty []*availability.DaySelection
	for k, sel := range m.mine {
		if !sel.Equal(m.saved[k]) {
			dirty = append(dirty, sel)
		}
	}
	return dirty
}

// IsDirty reports whether there are unsaved edits.
func (m Model) IsDirty() bool {
	return len(m.dirtyDays()) > 0
}

// Selections returns the working selections, one per meeting day.
func (m Model) Selections() []*availability.DaySelection {
	return m.mine
}

// Cursor returns the cursor position.
func (m Model) Cursor() Position {
	return m.cursor
}

// Mode returns the current mode.
func (m Model) Mode() Mode {
	return m.mode
}

// StatusMessage returns the status line text.
func (m Model) StatusMessage() string {
	return m.statusMsg
}

// cellCount returns how many participants are available over slot s of day.
func (m Model) cellCount(day int, s slot) int {
	if day >= len(m.overlap) {
		return 0
	}
	iv, ok := m.overlap[day].At(s.start)
	if !ok {
		return 0
	}
	return iv.Count()
}

// best returns the top standout interval across the meeting, if any.
func (m Model) best() (availability.Interval, bool) {
	if len(m.overlap) == 0 {
		return availability.Interval{}, false
	}
	included := availability.ParticipantsOf(append(append([]*availability.DaySelection(nil), m.others...), m.mine...))
	top := availability.StandoutIntervals(m.overlap, included, 1)
	if !availability.Suggestable(top) {
		return availability.Interval{}, false
	}
	return top[0], true
}
