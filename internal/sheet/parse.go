package sheet

import (
	"strings"

	"github.com/gogoref/gogoref/internal/logger"
	"github.com/gogoref/gogoref/internal/record"
)

const (
	MinGameFields     = 6
	MinScheduleFields = 2
)

// ParseLine splits one CSV row into fields.
//
// A double quote toggles the inside-quotes state and is dropped; a comma ends
// the current field only outside quotes. Doubled quotes are not collapsed and
// an unbalanced quote keeps every later comma in the same field. The last
// field is always appended, even when empty.
func ParseLine(line string) []string {
	fields := make([]string, 0, 8)
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	fields = append(fields, current.String())
	return fields
}

// CleanField strips one leading and one trailing double quote, then trims spaces
func CleanField(field string) string {
	field = strings.TrimPrefix(field, `"`)
	field = strings.TrimSuffix(field, `"`)
	return strings.TrimSpace(field)
}

// dataRows yields the fields of every non-blank row after the header
func dataRows(rows []string, fn func(fields []string)) {
	for i := 1; i < len(rows); i++ {
		line := strings.TrimSpace(rows[i])
		if line == "" {
			continue
		}
		fn(ParseLine(line))
	}
}

// ParseGames maps export rows to games: date, time, venue, game type,
// referees, notes. Rows with fewer than MinGameFields fields are dropped.
func ParseGames(rows []string) []record.Game {
	games := make([]record.Game, 0, len(rows))
	dropped := 0

	dataRows(rows, func(fields []string) {
		if len(fields) < MinGameFields {
			dropped++
			return
		}
		games = append(games, record.Game{
			Date:     CleanField(fields[0]),
			Time:     CleanField(fields[1]),
			Venue:    CleanField(fields[2]),
			GameType: CleanField(fields[3]),
			Referees: CleanField(fields[4]),
			Notes:    CleanField(fields[5]),
		})
	})

	if dropped > 0 {
		logger.Debug("Dropped short game rows", logger.Fields{"dropped": dropped})
	}
	return games
}

// ParseSchedule maps export rows to timetable slots: time, activity and the
// category cell when present. Rows with fewer than MinScheduleFields fields
// are dropped.
func ParseSchedule(rows []string) []record.ScheduleEvent {
	events := make([]record.ScheduleEvent, 0, len(rows))
	dropped := 0

	dataRows(rows, func(fields []string) {
		if len(fields) < MinScheduleFields {
			dropped++
			return
		}
		category := ""
		if len(fields) > 2 {
			category = CleanField(fields[2])
		}
		events = append(events, record.NewScheduleEvent(
			CleanField(fields[0]),
			CleanField(fields[1]),
			category,
		))
	})

	if dropped > 0 {
		logger.Debug("Dropped short schedule rows", logger.Fields{"dropped": dropped})
	}
	return events
}
