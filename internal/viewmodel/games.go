package viewmodel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gogoref/gogoref/internal/logger"
	"github.com/gogoref/gogoref/internal/record"
)

// GamesSource provides the rows of the games tab
type GamesSource interface {
	Games(ctx context.Context, sheetName string) ([]record.Game, error)
}

// GameCard is one game as the games page shows it
type GameCard struct {
	record.Game
	ID     string        `json:"id"`
	Status record.Status `json:"status"`
}

// GamesSnapshot is a consistent copy of a GamesView's state
type GamesSnapshot struct {
	State        LoadState  `json:"state"`
	Error        string     `json:"error,omitempty"`
	Filter       Filter     `json:"filter"`
	Games        []GameCard `json:"games"`
	Shown        int        `json:"shown"`
	Total        int        `json:"total"`
	DateOptions  []string   `json:"date_options"`
	VenueOptions []string   `json:"venue_options"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// GamesView owns the games that were loaded last, the active filter and the
// load state. It is safe for concurrent use.
type GamesView struct {
	source    GamesSource
	sheetName string
	now       func() time.Time

	mu        sync.RWMutex
	state     LoadState
	err       error
	all       []record.Game
	filtered  []record.Game
	filter    Filter
	updatedAt time.Time
}

// NewGamesView creates a view reading sheetName from source
func NewGamesView(source GamesSource, sheetName string, opts ...Option) *GamesView {
	o := buildOptions(opts)
	return &GamesView{
		source:    source,
		sheetName: sheetName,
		now:       o.now,
		state:     StateLoading,
		filter:    Filter{}.Normalize(),
	}
}

// Load fetches the games tab and replaces the loaded games. The active
// filter is re-applied to the new data. On failure the view enters the
// failed state and keeps no games until the next successful load. A
// cancelled ctx leaves the view unchanged.
func (v *GamesView) Load(ctx context.Context) error {
	start := time.Now()
	games, err := v.source.Games(ctx, v.sheetName)
	if err != nil && ctx.Err() != nil {
		logger.Warn("Games load cancelled", logger.Fields{"sheet": v.sheetName})
		return fmt.Errorf("loading games: %w", ctx.Err())
	}
	if err != nil {
		v.mu.Lock()
		v.state = StateFailed
		v.err = err
		v.all = nil
		v.filtered = nil
		v.mu.Unlock()

		logger.Error("Failed to load games", logger.Fields{"sheet": v.sheetName}, err)
		logger.IncrCounter("games.load_error")
		return fmt.Errorf("loading games: %w", err)
	}

	SortByDateDescending(games)

	v.mu.Lock()
	v.all = games
	v.filtered = FilterGames(games, v.filter.Date, v.filter.Venue)
	v.state = StateLoaded
	v.err = nil
	v.updatedAt = v.now()
	v.mu.Unlock()

	logger.Info("Games loaded", logger.Fields{
		"sheet": v.sheetName,
		"count": len(games),
	})
	logger.IncrCounter("games.loaded")
	logger.SetGauge("games.count", float64(len(games)))
	logger.RecordTiming("games.load", time.Since(start))
	return nil
}

// ApplyFilter activates f and re-filters the loaded games without fetching
func (v *GamesView) ApplyFilter(f Filter) {
	f = f.Normalize()

	v.mu.Lock()
	v.filter = f
	v.filtered = FilterGames(v.all, f.Date, f.Venue)
	shown := len(v.filtered)
	v.mu.Unlock()

	logger.Debug("Games filtered", logger.Fields{
		"date":  f.Date,
		"venue": f.Venue,
		"shown": shown,
	})
	logger.IncrCounter("games.filtered")
}

// ResetFilter clears both filters
func (v *GamesView) ResetFilter() {
	v.ApplyFilter(Filter{})
}

// State returns the current load state
func (v *GamesView) State() LoadState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Snapshot returns the games matching the active filter with their status,
// classified against the view's clock, together with the filter option lists.
func (v *GamesView) Snapshot() GamesSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshot(v.filter, v.filtered)
}

// View is Snapshot for a one-off filter. The active filter is left alone, so
// concurrent callers can each look at their own selection.
func (v *GamesView) View(f Filter) GamesSnapshot {
	f = f.Normalize()

	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshot(f, FilterGames(v.all, f.Date, f.Venue))
}

func (v *GamesView) snapshot(f Filter, games []record.Game) GamesSnapshot {
	now := v.now()
	snap := GamesSnapshot{
		State:        v.state,
		Filter:       f,
		Games:        make([]GameCard, 0, len(games)),
		Total:        len(v.all),
		DateOptions:  UniqueSortedValues(v.all, FieldDate),
		VenueOptions: UniqueSortedValues(v.all, FieldVenue),
		UpdatedAt:    v.updatedAt,
	}
	if v.err != nil {
		snap.Error = v.err.Error()
	}

	for _, g := range games {
		snap.Games = append(snap.Games, GameCard{
			Game:   g,
			ID:     g.ID(),
			Status: ClassifyDate(g.Date, now),
		})
	}
	snap.Shown = len(snap.Games)

	return snap
}

// Records returns the games of a snapshot without their display fields
func (s GamesSnapshot) Records() []record.Game {
	out := make([]record.Game, len(s.Games))
	for i, c := range s.Games {
		out[i] = c.Game
	}
	return out
}
