package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/rendezvous/internal/dateutil"
	"github.com/javiermolinar/rendezvous/internal/tui/input"
	"github.com/javiermolinar/rendezvous/internal/tui/theme"
	"github.com/javiermolinar/rendezvous/internal/tui/view"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// title and day header rows above the grid
	chromeRows = 2
)

// View renders the UI.
func (m Model) View() string {
	w, h := m.size()
	bg := m.styles.Bg()

	if m.loading {
		msg := "Loading..."
		if m.err != nil {
			msg = m.err.Error()
		}
		return view.PlaceBox(w, h, lipgloss.Center, msg, bg)
	}

	footerState := m.footerState(w)
	footerH := view.FooterHeight(footerState)

	var b strings.Builder
	b.WriteString(m.renderTitle(w))
	b.WriteString("\n")
	b.WriteString(m.renderHeader())
	for _, row := range m.renderRows() {
		b.WriteString("\n")
		b.WriteString(row)
	}

	body := view.PlaceBox(w, max(h-footerH, 1), lipgloss.Top, b.String(), bg)
	return body + "\n" + view.RenderFooter(footerState)
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// visibleDays is how many day columns fit the terminal.
func (m Model) visibleDays() int {
	w, _ := m.size()
	return clamp((w-timeColWidth)/minColWidth, 1, max(len(m.days), 1))
}

func (m Model) colWidth() int {
	w, _ := m.size()
	return clamp((w-timeColWidth)/m.visibleDays(), 1, maxColWidth)
}

// visibleSlots is how many slot rows fit between the header and the footer.
func (m Model) visibleSlots() int {
	w, h := m.size()
	footerH := view.FooterHeight(m.footerState(w))
	return max(h-chromeRows-footerH, 1)
}

// ensureCursorVisible scrolls so the cursor cell is on screen.
func (m *Model) ensureCursorVisible() {
	nd := m.visibleDays()
	if m.cursor.Day < m.dayOffset {
		m.dayOffset = m.cursor.Day
	}
	if m.cursor.Day >= m.dayOffset+nd {
		m.dayOffset = m.cursor.Day - nd + 1
	}
	m.dayOffset = clamp(m.dayOffset, 0, max(len(m.days)-nd, 0))

	ns := m.visibleSlots()
	if m.cursor.Slot < m.slotOffset {
		m.slotOffset = m.cursor.Slot
	}
	if m.cursor.Slot >= m.slotOffset+ns {
		m.slotOffset = m.cursor.Slot - ns + 1
	}
	m.slotOffset = clamp(m.slotOffset, 0, max(len(m.slots)-ns, 0))
}

func (m Model) renderTitle(width int) string {
	last := m.meeting.EndDate.AddDate(0, 0, -1)
	title := fmt.Sprintf("%s · %s · %s to %s",
		m.meeting.Title,
		m.participant,
		m.meeting.StartDate.Format(dateutil.DateLayout),
		last.Format(dateutil.DateLayout))

	modified := ""
	if m.IsDirty() {
		modified = m.styles.ModifiedStyle.Render(" [modified]")
	}
	titleWidth := max(width-lipgloss.Width(modified), 0)
	return view.FitLine(titleWidth, m.styles.TitleStyle, title) + modified
}

func (m Model) renderHeader() string {
	cw := m.colWidth()
	labels, todayCols := view.HeaderLabels(m.visibleDayDates(), m.nowFunc())

	var b strings.Builder
	b.WriteString(m.styles.TimeColumnStyle.Render(""))
	for i, label := range labels {
		style := m.styles.DayHeaderStyle
		if todayCols[i] {
			style = m.styles.DayHeaderTodayStyle
		}
		b.WriteString(style.Width(cw).Render(ansi.Truncate(label, cw, "")))
	}
	return b.String()
}

func (m Model) visibleDayDates() []time.Time {
	end := min(m.dayOffset+m.visibleDays(), len(m.days))
	return m.days[m.dayOffset:end]
}

func (m Model) renderRows() []string {
	cw := m.colWidth()
	endDay := min(m.dayOffset+m.visibleDays(), len(m.days))
	endSlot := min(m.slotOffset+m.visibleSlots(), len(m.slots))

	rows := make([]string, 0, endSlot-m.slotOffset)
	for si := m.slotOffset; si < endSlot; si++ {
		s := m.slots[si]

		var b strings.Builder
		b.WriteString(m.styles.TimeColumnStyle.Render(" " + view.TimeLabel(s.start, m.config.UI.TwelveHour)))
		for d := m.dayOffset; d < endDay; d++ {
			b.WriteString(m.renderCell(d, si, cw))
		}
		rows = append(rows, b.String())
	}
	return rows
}

func (m Model) renderCell(day, si, cw int) string {
	s := m.slots[si]
	mine := day < len(m.mine) && m.mine[day].Covers(s.start, s.end)
	cursor := m.cursor.Day == day && m.cursor.Slot == si

	count, total, shade := 0, 0, 0
	if m.showHeat {
		count = m.cellCount(day, s)
		total = m.responders
		shade = theme.HeatShade(count, total)
	}

	text := " " + view.CellText(mine, count, total)
	style := m.styles.CellStyle(mine, shade, m.showHeat, cursor)
	return style.Width(cw).Render(ansi.Truncate(text, cw, ""))
}

func (m Model) footerState(width int) view.FooterViewState {
	state := view.FooterViewState{
		InnerW:     width,
		LegendLine: view.FitLine(width, m.styles.LegendStyle, m.legendText()),
		StatusLine: m.renderStatus(width),
		HelpLine:   m.styles.HelpStyle.Render(m.help.View(m.keys)),
		Bg:         m.styles.Bg(),
	}
	if m.mode == ModePrompt {
		state.PromptLine = view.FitLine(width, m.styles.PromptStyle, m.promptText())
	}
	return state
}

func (m Model) legendText() string {
	if !m.showHeat {
		return "● your availability"
	}

	var b strings.Builder
	b.WriteString("nobody ")
	for k := range theme.HeatLevels {
		b.WriteString(m.styles.HeatStyles[k].Render("  "))
	}
	b.WriteString(fmt.Sprintf(" all %d", m.responders))

	if best, ok := m.best(); ok {
		b.WriteString(fmt.Sprintf("   best: %s %s-%s (%d)",
			view.DayLabel(best.Date()),
			view.TimeLabel(best.Start(), m.config.UI.TwelveHour),
			view.TimeLabel(best.End(), m.config.UI.TwelveHour),
			best.Count()))
	}
	return b.String()
}

func (m Model) renderStatus(width int) string {
	if m.err != nil {
		return view.FitLine(width, m.styles.ErrorStyle, m.statusMsg)
	}
	msg := m.statusMsg
	if msg == "" {
		if n := len(m.dirtyDays()); n > 0 {
			msg = fmt.Sprintf("%d unsaved day(s)", n)
		} else {
			msg = " "
		}
	}
	return view.FitLine(width, m.styles.StatusStyle, msg)
}

func (m Model) promptText() string {
	text := m.prompt.View()
	matches := input.PromptMatchingCommands(m.prompt.Value(), promptCommands)
	if len(matches) == 0 {
		return text
	}
	names := make([]string, 0, len(matches))
	for _, cmd := range matches {
		names = append(names, cmd.Name)
	}
	return text + "  " + strings.Join(names, " ")
}
