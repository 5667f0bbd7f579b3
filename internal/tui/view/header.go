package view

import (
	"time"

	"github.com/javiermolinar/rendezvous/internal/dateutil"
)

// HeaderLabels builds the day column labels and marks today's column.
func HeaderLabels(days []time.Time, today time.Time) ([]string, map[int]bool) {
	labels := make([]string, 0, len(days))
	todayCols := make(map[int]bool)

	for i, day := range days {
		label := DayLabel(day)
		if dateutil.SameDay(day, today) {
			label = "*" + label + "*"
			todayCols[i] = true
		}
		labels = append(labels, label)
	}

	return labels, todayCols
}
