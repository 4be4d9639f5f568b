package record

import (
	"math"
	"strings"
	"time"
)

// dateLayouts are tried in order. The export normally emits ISO dates, the
// rest cover cells that were typed by hand.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"1/2/2006",
	"01/02/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a sheet date into local midnight in loc.
// Returns time.Time{} (zero value) if no layout matches.
func ParseDate(dateText string, loc *time.Location) time.Time {
	dateText = strings.TrimSpace(dateText)
	if dateText == "" {
		return time.Time{}
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, dateText, loc); err == nil {
			return t
		}
	}

	return time.Time{}
}

// Midnight truncates t to 00:00 in its own location
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole-day difference to-from after normalizing both
// to midnight in from's location. Rounding absorbs DST transitions.
func DaysBetween(from, to time.Time) int {
	a := Midnight(from)
	b := Midnight(to.In(from.Location()))
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// Status is the display state of a game relative to today
type Status string

const (
	StatusToday    Status = "today"
	StatusUpcoming Status = "upcoming"
	StatusPast     Status = "past"
)
