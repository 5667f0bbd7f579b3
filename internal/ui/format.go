package ui

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
	"github.com/javiermolinar/rendezvous/internal/meeting"
	"github.com/javiermolinar/rendezvous/internal/tui/view"
)

const (
	timeColWidth = 9
	dayColWidth  = 8
)

// OverlapOpts configures the overlap grid.
type OverlapOpts struct {
	Included   []string // Participants counted; empty means everyone
	TwelveHour bool     // 12-hour time labels
	Width      int      // Output width; 0 detects the terminal
}

// participants returns the counted participants for days.
func (o OverlapOpts) participants(days []availability.AggregatedDay) []string {
	if len(o.Included) > 0 {
		ids := slices.Clone(o.Included)
		slices.Sort(ids)
		return slices.Compact(ids)
	}
	var ids []string
	for _, day := range days {
		ids = append(ids, day.Participants()...)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// countIncluded counts the participants of iv that are in included.
func countIncluded(iv availability.Interval, included []string) int {
	n := 0
	for _, id := range iv.Participants() {
		if _, ok := slices.BinarySearch(included, id); ok {
			n++
		}
	}
	return n
}

// PrintOverlapGrid prints one row per slot and one shaded column per day.
// Days that do not fit the width wrap into further blocks.
func PrintOverlapGrid(w io.Writer, m *meeting.Meeting, days []availability.AggregatedDay, opts OverlapOpts) error {
	slots, err := availability.BlankRange(m.StartDate, m.MinTime, m.MaxTime, m.IntervalSize)
	if err != nil {
		return err
	}
	included := opts.participants(days)
	total := len(included)

	width := opts.Width
	if width <= 0 {
		width = termWidth()
	}
	perBlock := max((width-timeColWidth)/dayColWidth, 1)

	for from := 0; from < len(days); from += perBlock {
		block := days[from:min(from+perBlock, len(days))]
		if from > 0 {
			fmt.Fprintln(w)
		}

		var header strings.Builder
		header.WriteString(strings.Repeat(" ", timeColWidth))
		for _, day := range block {
			header.WriteString(fmt.Sprintf("%-*s", dayColWidth, view.DayLabel(day.Date)))
		}
		fmt.Fprintln(w, formatHeader(strings.TrimRight(header.String(), " ")))

		for _, cell := range slots {
			var row strings.Builder
			row.WriteString(formatMuted(fmt.Sprintf("%-*s", timeColWidth, view.TimeLabel(cell.Start(), opts.TwelveHour))))
			for _, day := range block {
				count := 0
				if iv, ok := day.At(cell.Start()); ok {
					count = countIncluded(iv, included)
				}
				label := "·"
				if count > 0 {
					label = view.CountLabel(count, total)
				}
				text := fmt.Sprintf(" %-*s", dayColWidth-2, label)
				row.WriteString(formatHeat(text, count, total))
				row.WriteString(" ")
			}
			fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
		}
	}
	return nil
}

// PrintStandouts prints the best intervals as a numbered list.
func PrintStandouts(w io.Writer, standouts []availability.Interval, total int, twelveHour bool) {
	if !availability.Suggestable(standouts) {
		fmt.Fprintln(w, formatMuted("  Not enough overlap to suggest a time yet."))
		return
	}
	for k, iv := range standouts {
		fmt.Fprintf(w, "  %d. %s  %s  %s  %s\n",
			k+1,
			formatHeader(iv.Date().Format("Mon Jan 2")),
			formatInsight(timeRange(iv, twelveHour)),
			AvailabilityBar(iv.Count(), total, 10),
			formatMuted(strings.Join(iv.Participants(), ", ")))
	}
}

// PlainStandouts renders standouts without color, one per line.
func PlainStandouts(standouts []availability.Interval, twelveHour bool) string {
	var b strings.Builder
	for _, iv := range standouts {
		fmt.Fprintf(&b, "%s %s (%s)\n",
			iv.Date().Format("Mon Jan 2"),
			timeRange(iv, twelveHour),
			strings.Join(iv.Participants(), ", "))
	}
	return b.String()
}

// AvailabilityBar draws a fixed-width bar of count out of total.
func AvailabilityBar(count, total, width int) string {
	if total == 0 {
		return "[" + strings.Repeat("░", width) + "]"
	}
	count = min(count, total)
	filled := (count * width) / total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatSelected(bar), formatStats(fmt.Sprintf("%d/%d", count, total)))
}

// PrintMeetingRow prints a one-line summary of a meeting.
func PrintMeetingRow(w io.Writer, m *meeting.Meeting) {
	fmt.Fprintf(w, "  %s  %-24s  %s  %s\n",
		formatMuted(m.ShortID()),
		m.Title,
		dateSpan(m),
		formatMuted(fmt.Sprintf("%s-%s every %s", m.MinTime, m.MaxTime, FormatDuration(int(m.IntervalSize*60)))))
}

// PrintMeetingDetails prints a meeting and who has responded.
func PrintMeetingDetails(w io.Writer, m *meeting.Meeting, participants []string) {
	fmt.Fprintf(w, "  %s\n", formatHeader(m.Title))
	fmt.Fprintf(w, "  id:           %s\n", m.ID)
	fmt.Fprintf(w, "  dates:        %s (%d days)\n", dateSpan(m), len(m.Days()))
	fmt.Fprintf(w, "  window:       %s-%s\n", m.MinTime, m.MaxTime)
	fmt.Fprintf(w, "  interval:     %s\n", FormatDuration(int(m.IntervalSize*60)))
	if len(participants) == 0 {
		fmt.Fprintf(w, "  participants: %s\n", formatMuted("none yet"))
		return
	}
	fmt.Fprintf(w, "  participants: %s\n", strings.Join(participants, ", "))
}

// PrintSelections prints one line per day with the selected ranges.
func PrintSelections(w io.Writer, sels []*availability.DaySelection) {
	for _, sel := range sels {
		day := sel.Date().Format("Mon Jan 2")
		if sel.IsEmpty() {
			fmt.Fprintf(w, "  %-11s %s\n", day, formatMuted("-"))
			continue
		}
		fmt.Fprintf(w, "  %-11s %s\n", day, formatSelected(FormatRanges(sel.Ranges())))
	}
}

// FormatRanges joins ranges as "09:00-12:00, 14:00-15:00".
func FormatRanges(ranges []availability.Range) string {
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ", ")
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

func timeRange(iv availability.Interval, twelveHour bool) string {
	return view.TimeLabel(iv.Start(), twelveHour) + "-" + view.TimeLabel(iv.End(), twelveHour)
}

func dateSpan(m *meeting.Meeting) string {
	last := m.EndDate.AddDate(0, 0, -1)
	if dateutil.SameDay(m.StartDate, last) {
		return m.StartDate.Format(dateutil.DateLayout)
	}
	return m.StartDate.Format(dateutil.DateLayout) + " to " + last.Format(dateutil.DateLayout)
}
