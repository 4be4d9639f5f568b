package viewmodel

import "github.com/gogoref/gogoref/internal/record"

// DeriveCategory carries categories forward through a timetable.
//
// current is the category in effect before the first event. Each event with a
// non-empty category replaces it; events without one inherit it. The returned
// slice is a copy and the second result is the category in effect after the
// last event, so a caller can continue the fold across batches.
func DeriveCategory(events []record.ScheduleEvent, current string) ([]record.ScheduleEvent, string) {
	out := make([]record.ScheduleEvent, len(events))
	for i, evt := range events {
		if evt.Category != "" {
			current = evt.Category
		} else {
			evt.Category = current
		}
		out[i] = evt
	}
	return out, current
}
