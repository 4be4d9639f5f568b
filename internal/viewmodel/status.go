package viewmodel

import (
	"time"

	"github.com/gogoref/gogoref/internal/record"
)

// ClassifyStatus compares a game date with now by whole local days.
// A zero date (unparseable in the sheet) is treated as past.
func ClassifyStatus(date, now time.Time) record.Status {
	if date.IsZero() {
		return record.StatusPast
	}

	diff := record.DaysBetween(now, date)
	switch {
	case diff == 0:
		return record.StatusToday
	case diff > 0:
		return record.StatusUpcoming
	default:
		return record.StatusPast
	}
}

// ClassifyDate parses a sheet date in now's location and classifies it
func ClassifyDate(dateText string, now time.Time) record.Status {
	return ClassifyStatus(record.ParseDate(dateText, now.Location()), now)
}
