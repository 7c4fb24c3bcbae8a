// Package events implements the event-generation pipeline: prompt
// construction, provider invocation, response normalization, deduplicated
// ingestion, and the scheduling policy that drives them.
package events

import "time"

// weekKeyLayout is the ISO date format used for the week_start store column.
const weekKeyLayout = "2006-01-02"

// longDateLayout is the human-readable form used in prompts,
// e.g. "December 1 2025".
const longDateLayout = "January 2 2006"

// WeekStart returns the Monday of the week containing t, at midnight in t's
// location.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// UpcomingWeekStart returns the Monday of the week after the one
// containing t.
func UpcomingWeekStart(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 7)
}

// WeekKey formats a week start as the ISO date string stored alongside
// events.
func WeekKey(weekStart time.Time) string {
	return weekStart.Format(weekKeyLayout)
}

// formatLongDate renders a date in long human-readable form.
func formatLongDate(t time.Time) string {
	return t.Format(longDateLayout)
}
