package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gogoref/gogoref/internal/record"
	"github.com/gogoref/gogoref/internal/viewmodel"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByVenue SortOrder = "venue"
	SortByTime  SortOrder = "time"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByDate, SortByVenue, SortByTime:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'venue' or 'time')", s)
}

// sortGames reorders games that are already newest first. SortByDate keeps
// that order, SortByVenue groups by venue with each group newest first, and
// SortByTime orders each day by kick-off time.
func sortGames(games []viewmodel.GameCard, order SortOrder) {
	switch order {
	case SortByVenue:
		sort.SliceStable(games, func(i, j int) bool {
			return strings.ToLower(games[i].Venue) < strings.ToLower(games[j].Venue)
		})
	case SortByTime:
		sort.SliceStable(games, func(i, j int) bool {
			di := record.ParseDate(games[i].Date, time.UTC)
			dj := record.ParseDate(games[j].Date, time.UTC)
			if !di.Equal(dj) {
				if di.IsZero() || dj.IsZero() {
					return dj.IsZero() && !di.IsZero()
				}
				return di.After(dj)
			}
			return games[i].Time < games[j].Time
		})
	}
}
