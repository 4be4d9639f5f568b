package cli

import (
	"testing"

	"github.com/gogoref/gogoref/internal/record"
	"github.com/gogoref/gogoref/internal/viewmodel"
)

func cards(games ...record.Game) []viewmodel.GameCard {
	out := make([]viewmodel.GameCard, len(games))
	for i, g := range games {
		out[i] = viewmodel.GameCard{Game: g}
	}
	return out
}

func TestSortGames(t *testing.T) {
	// Input is newest first, as the games view returns it
	input := func() []viewmodel.GameCard {
		return cards(
			record.Game{Date: "2025-02-08", Time: "20:30", Venue: "CourtY"},
			record.Game{Date: "2025-02-08", Time: "18:00", Venue: "courtA"},
			record.Game{Date: "2025-02-01", Time: "21:00", Venue: "CourtY"},
			record.Game{Date: "2025-02-01", Time: "19:00", Venue: "CourtX"},
			record.Game{Date: "TBD", Time: "10:00", Venue: "CourtX"},
		)
	}

	tests := []struct {
		name  string
		order SortOrder
		want  []string
	}{
		{"date keeps order", SortByDate, []string{"CourtY 20:30", "courtA 18:00", "CourtY 21:00", "CourtX 19:00", "CourtX 10:00"}},
		{"venue groups newest first", SortByVenue, []string{"courtA 18:00", "CourtX 19:00", "CourtX 10:00", "CourtY 20:30", "CourtY 21:00"}},
		{"time within each day", SortByTime, []string{"courtA 18:00", "CourtY 20:30", "CourtX 19:00", "CourtY 21:00", "CourtX 10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games := input()
			sortGames(games, tt.order)

			if len(games) != len(tt.want) {
				t.Fatalf("got %d games, want %d", len(games), len(tt.want))
			}
			for i, g := range games {
				got := g.Venue + " " + g.Time
				if got != tt.want[i] {
					t.Errorf("position %d: got %q, want %q", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input   string
		want    SortOrder
		wantErr bool
	}{
		{"date", SortByDate, false},
		{" Venue ", SortByVenue, false},
		{"TIME", SortByTime, false},
		{"title", "", true},
	}

	for _, tt := range tests {
		got, err := parseSortOrder(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSortOrder(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSortOrder(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
