package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogoref/gogoref/internal/record"
)

func dates(games []record.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.Date
	}
	return out
}

func TestSortByDateDescending(t *testing.T) {
	tests := []struct {
		name  string
		input []record.Game
		want  []string
	}{
		{
			name: "newest first",
			input: []record.Game{
				{Date: "2025-01-01"},
				{Date: "2025-03-01"},
				{Date: "2025-02-01"},
			},
			want: []string{"2025-03-01", "2025-02-01", "2025-01-01"},
		},
		{
			name: "unparseable dates go last in sheet order",
			input: []record.Game{
				{Date: "TBC"},
				{Date: "2025-01-01"},
				{Date: ""},
				{Date: "2025-06-01"},
			},
			want: []string{"2025-06-01", "2025-01-01", "TBC", ""},
		},
		{
			name: "mixed date formats",
			input: []record.Game{
				{Date: "1/2/2025"},
				{Date: "2025-01-03"},
			},
			want: []string{"2025-01-03", "1/2/2025"},
		},
		{
			name:  "empty",
			input: []record.Game{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortByDateDescending(tt.input)
			assert.Equal(t, tt.want, dates(tt.input))
		})
	}
}

func TestSortByDateDescending_Stable(t *testing.T) {
	games := []record.Game{
		{Date: "2025-01-01", Venue: "A"},
		{Date: "2025-02-01", Venue: "B"},
		{Date: "2025-01-01", Venue: "C"},
		{Date: "2025-01-01", Venue: "D"},
	}

	SortByDateDescending(games)

	venues := []string{games[0].Venue, games[1].Venue, games[2].Venue, games[3].Venue}
	assert.Equal(t, []string{"B", "A", "C", "D"}, venues)
}
