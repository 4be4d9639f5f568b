package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/i18n"
	"github.com/gogoref/gogoref/internal/record"
	"github.com/gogoref/gogoref/internal/storage"
	"github.com/gogoref/gogoref/internal/viewmodel"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// textWriter is implemented by every result a command prints
type textWriter interface {
	writeText(w io.Writer, verbose bool) error
}

// GamesResult is the output of the games command
type GamesResult struct {
	Lang      i18n.Lang `json:"lang"`
	CheckedAt time.Time `json:"checked_at"`
	viewmodel.GamesSnapshot
}

// TimetableResult is the output of the timetable command
type TimetableResult struct {
	Lang      i18n.Lang `json:"lang"`
	CheckedAt time.Time `json:"checked_at"`
	viewmodel.TimetableSnapshot
}

// BookingResult is the output of the book command
type BookingResult struct {
	Lang i18n.Lang `json:"lang"`
	*booking.Confirmation
}

// BookingsResult is the output of the bookings command
type BookingsResult struct {
	Lang     i18n.Lang       `json:"lang"`
	Bookings []storage.Entry `json:"bookings"`
	Count    int             `json:"count"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result textWriter, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return result.writeText(w, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func displayDate(lang i18n.Lang, text string) string {
	if d := record.ParseDate(text, time.UTC); !d.IsZero() {
		return i18n.FormatLongDate(lang, d)
	}
	return text
}

func (r *GamesResult) writeText(w io.Writer, verbose bool) error {
	if r.Shown == 0 {
		fmt.Fprintln(w, i18n.T(r.Lang, "games.noResults"))
		return nil
	}

	for _, g := range r.Games {
		fmt.Fprintf(w, "%s  %s  %s [%s]\n",
			displayDate(r.Lang, g.Date), g.Time, g.Venue, i18n.T(r.Lang, "status."+string(g.Status)))
		if g.GameType != "" || g.Referees != "" {
			fmt.Fprintf(w, "     %s  %s %s\n", g.GameType, i18n.T(r.Lang, "games.referees"), g.Referees)
		}
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", g.ID)
			if g.Notes != "" {
				fmt.Fprintf(w, "     %s %s\n", i18n.T(r.Lang, "games.notes"), g.Notes)
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d/%d %s\n", r.Shown, r.Total, i18n.T(r.Lang, "games.total"))
	return nil
}

func (r *TimetableResult) writeText(w io.Writer, verbose bool) error {
	for i, day := range r.Days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", i18n.T(r.Lang, "timetable.days."+day.Key), day.SheetName)

		if len(day.Slots) == 0 {
			fmt.Fprintf(w, "  %s\n", i18n.T(r.Lang, "timetable.noEvents"))
			continue
		}
		for _, slot := range day.Slots {
			mark := " "
			if slot.Highlight {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %-13s %s", mark, slot.Time, slot.Activity)
			if slot.Category != "" {
				fmt.Fprintf(w, " [%s]", slot.Category)
			}
			if verbose {
				fmt.Fprintf(w, " %s", slot.Color)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

func (r *BookingResult) writeText(w io.Writer, verbose bool) error {
	fmt.Fprintln(w, i18n.T(r.Lang, "modal.summary"))
	for _, line := range r.Summary {
		fmt.Fprintf(w, "  %s %s\n", line.Label, line.Value)
	}

	fmt.Fprintf(w, "\n%s\n", i18n.T(r.Lang, "modal.success"))
	fmt.Fprintf(w, "%s %s\n", i18n.T(r.Lang, "modal.whatsapp"), r.ClientLink)

	if verbose {
		if r.LedgerKey != "" {
			fmt.Fprintf(w, "\nLedger key: %s\n", r.LedgerKey)
		}
		fmt.Fprintf(w, "\nAdmin link: %s\n", r.AdminLink)
		fmt.Fprintf(w, "\n%s\n", r.ClientMessage)
	}
	return nil
}

func (r *BookingsResult) writeText(w io.Writer, verbose bool) error {
	if r.Count == 0 {
		fmt.Fprintln(w, "No bookings found.")
		return nil
	}

	for _, e := range r.Bookings {
		b := e.Booking
		venue := b.VenueName
		if venue == "" {
			venue = b.VenueAddress
		}
		fmt.Fprintf(w, "%s  %s %s  %s  %s (%s)\n",
			b.ID, b.Date, b.TimeSlot(), venue, b.ClientName, b.ClientPhone)
		if verbose {
			fmt.Fprintf(w, "     Key: %s\n", e.Key)
			fmt.Fprintf(w, "     %s, %d/%d\n", b.GameType.Label(r.Lang), b.Referees, b.Tables)
			fmt.Fprintf(w, "     Submitted: %s\n", i18n.FormatTimestamp(r.Lang, b.SubmittedAt.In(booking.HongKong())))
		}
	}

	fmt.Fprintf(w, "\nTotal: %d bookings\n", r.Count)
	return nil
}
