// Package calendar exports refereed games as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/gogoref/gogoref/internal/record"
)

// DefaultDuration is used when a game lists only a start time
const DefaultDuration = 2 * time.Hour

var clockLayouts = []string{
	"15:04",
	"15.04",
	"3:04PM",
	"3:04pm",
	"3PM",
	"3pm",
}

// GenerateICS generates one iCalendar (.ics) document holding every game
// with a parseable date. Times are read in loc; a game whose time cell
// cannot be read becomes an all-day event.
func GenerateICS(games []record.Game, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//GoGoRef//gogoref//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString("X-WR-CALNAME:GoGoRef Games\r\n")

	stamp := formatICSTime(time.Now())
	for _, g := range games {
		writeEvent(&ics, g, loc, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, g record.Game, loc *time.Location, stamp string) {
	day := record.ParseDate(g.Date, loc)
	if day.IsZero() {
		return
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(ics, "UID:%s@gogoref\r\n", g.ID())
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", stamp)

	if start, end, ok := ParseTimeRange(g.Time); ok {
		startAt := day.Add(start)
		endAt := day.Add(end)
		fmt.Fprintf(ics, "DTSTART:%s\r\n", formatICSTime(startAt))
		fmt.Fprintf(ics, "DTEND:%s\r\n", formatICSTime(endAt))
	} else {
		fmt.Fprintf(ics, "DTSTART;VALUE=DATE:%s\r\n", day.Format("20060102"))
		fmt.Fprintf(ics, "DTEND;VALUE=DATE:%s\r\n", day.AddDate(0, 0, 1).Format("20060102"))
	}

	summary := "Referee assignment"
	if g.GameType != "" {
		summary = g.GameType
	}
	if g.Venue != "" {
		summary += " @ " + g.Venue
	}
	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(summary))

	var desc []string
	if g.Time != "" {
		desc = append(desc, "Time: "+g.Time)
	}
	if g.Referees != "" {
		desc = append(desc, "Referees: "+g.Referees)
	}
	if g.Notes != "" {
		desc = append(desc, "Notes: "+g.Notes)
	}
	if len(desc) > 0 {
		fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(strings.Join(desc, "\n")))
	}

	if g.Venue != "" {
		fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(g.Venue))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// ParseTimeRange reads "19:00", "19:00-21:00", "7:00 PM - 9:00 PM" and
// similar cells into offsets from midnight. A lone start time lasts
// DefaultDuration. An end before the start is taken to be past midnight.
func ParseTimeRange(s string) (start, end time.Duration, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}

	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, " to ", "-")
	parts := strings.SplitN(s, "-", 2)

	start, ok = parseClock(parts[0])
	if !ok {
		return 0, 0, false
	}
	if len(parts) == 1 {
		return start, start + DefaultDuration, true
	}

	end, ok = parseClock(parts[1])
	if !ok {
		return start, start + DefaultDuration, true
	}
	if end <= start {
		end += 24 * time.Hour
	}
	return start, end, true
}

func parseClock(s string) (time.Duration, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
		}
	}
	return 0, false
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
