// Package view provides rendering helpers for the TUI.
package view

import (
	"fmt"
	"time"

	"github.com/javiermolinar/rendezvous/internal/clock"
)

// TimeLabel formats c for the time column.
func TimeLabel(c clock.Clock, twelveHour bool) string {
	if !twelveHour {
		return c.String()
	}
	suffix := "am"
	if c.IsPM() {
		suffix = "pm"
	}
	return c.Format12() + suffix
}

// DayLabel formats a meeting day as "Mon 10".
func DayLabel(day time.Time) string {
	return day.Format("Mon 2")
}

// CountLabel formats how many of total participants are available.
// It is empty when nobody else responded.
func CountLabel(count, total int) string {
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", count, total)
}

// CellText composes a grid cell: a mark when the local participant is
// available followed by the participant count.
func CellText(mine bool, count, total int) string {
	mark := " "
	if mine {
		mark = "●"
	}
	label := CountLabel(count, total)
	if label == "" {
		return mark
	}
	return mark + " " + label
}
