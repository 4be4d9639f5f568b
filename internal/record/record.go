package record

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// Game represents one refereed game row from the games tab
type Game struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Venue    string `json:"venue"`
	GameType string `json:"game_type"`
	Referees string `json:"referees"`
	Notes    string `json:"notes,omitempty"`
}

// ID returns a deterministic identifier built from the fields that locate a game
func (g Game) ID() string {
	h := sha1.New()
	h.Write([]byte(g.Date + "|" + g.Time + "|" + g.Venue))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ScheduleEvent represents one slot of a timetable tab
type ScheduleEvent struct {
	Time      string `json:"time"`
	Activity  string `json:"activity"`
	Category  string `json:"category,omitempty"`
	Highlight bool   `json:"highlight"`
}

// HighlightKeywords mark ceremonies and headline matches in a timetable
var HighlightKeywords = []string{"Ceremony", "AXA Family", "Grand"}

// IsHighlight reports whether an activity contains one of HighlightKeywords.
// Matching is case-sensitive.
func IsHighlight(activity string) bool {
	for _, kw := range HighlightKeywords {
		if strings.Contains(activity, kw) {
			return true
		}
	}
	return false
}

// NewScheduleEvent creates a ScheduleEvent with Highlight derived from the activity
func NewScheduleEvent(time, activity, category string) ScheduleEvent {
	return ScheduleEvent{
		Time:      time,
		Activity:  activity,
		Category:  category,
		Highlight: IsHighlight(activity),
	}
}

const defaultCategoryColor = "#667eea"

var categoryColors = map[string]string{
	"U8":  "#ffb6c1",
	"U10": "#87ceeb",
	"U12": "#98d8c8",
	"U14": "#f4d03f",
}

// CategoryColor returns the display colour for an age-group category
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return defaultCategoryColor
}
