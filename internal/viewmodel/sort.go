package viewmodel

import (
	"sort"
	"time"

	"github.com/gogoref/gogoref/internal/record"
)

// SortByDateDescending sorts games newest first, in place. The sort is stable:
// games on the same date keep their sheet order. Games whose date cannot be
// parsed go after every dated game, in sheet order.
func SortByDateDescending(games []record.Game) {
	keys := make([]time.Time, len(games))
	for i, g := range games {
		keys[i] = record.ParseDate(g.Date, time.UTC)
	}

	idx := make([]int, len(games))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		switch {
		case ka.IsZero():
			return false
		case kb.IsZero():
			return true
		default:
			return ka.After(kb)
		}
	})

	sorted := make([]record.Game, len(games))
	for i, j := range idx {
		sorted[i] = games[j]
	}
	copy(games, sorted)
}
