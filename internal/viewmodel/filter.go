package viewmodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogoref/gogoref/internal/record"
)

// All is the filter value that disables a filter
const All = "all"

// Filter selects games by exact date and venue. An empty or "all" value
// matches everything.
type Filter struct {
	Date  string `json:"date"`
	Venue string `json:"venue"`
}

// Normalize replaces empty values with All
func (f Filter) Normalize() Filter {
	if strings.TrimSpace(f.Date) == "" {
		f.Date = All
	}
	if strings.TrimSpace(f.Venue) == "" {
		f.Venue = All
	}
	return f
}

// IsEmpty reports whether the filter matches every game
func (f Filter) IsEmpty() bool {
	f = f.Normalize()
	return f.Date == All && f.Venue == All
}

// Matches reports whether g passes every active criterion
func (f Filter) Matches(g record.Game) bool {
	f = f.Normalize()
	if f.Date != All && g.Date != f.Date {
		return false
	}
	if f.Venue != All && g.Venue != f.Venue {
		return false
	}
	return true
}

// FilterGames returns the games matching dateFilter and venueFilter, in order
func FilterGames(games []record.Game, dateFilter, venueFilter string) []record.Game {
	f := Filter{Date: dateFilter, Venue: venueFilter}
	out := make([]record.Game, 0, len(games))
	for _, g := range games {
		if f.Matches(g) {
			out = append(out, g)
		}
	}
	return out
}

// Field names a Game column that can feed a filter option list
type Field string

const (
	FieldDate     Field = "date"
	FieldTime     Field = "time"
	FieldVenue    Field = "venue"
	FieldGameType Field = "game_type"
	FieldReferees Field = "referees"
)

// ParseField validates a field name
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FieldDate, FieldTime, FieldVenue, FieldGameType, FieldReferees:
		return f, nil
	}
	return "", fmt.Errorf("unknown field: %q", s)
}

// Value returns the column of g named by f
func (f Field) Value(g record.Game) string {
	switch f {
	case FieldDate:
		return g.Date
	case FieldTime:
		return g.Time
	case FieldVenue:
		return g.Venue
	case FieldGameType:
		return g.GameType
	case FieldReferees:
		return g.Referees
	}
	return ""
}

// UniqueSortedValues collects the distinct values of field, sorted
// lexicographically. Empty values are kept, matching what the sheet holds.
func UniqueSortedValues(games []record.Game, field Field) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, g := range games {
		v := field.Value(g)
		if seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
