package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gogoref/gogoref/internal/record"
)

func TestClassifyStatus(t *testing.T) {
	loc := time.FixedZone("HKT", 8*3600)
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, loc)

	tests := []struct {
		name string
		date time.Time
		want record.Status
	}{
		{"same day", time.Date(2025, 3, 10, 0, 0, 0, 0, loc), record.StatusToday},
		{"same day later hour", time.Date(2025, 3, 10, 23, 0, 0, 0, loc), record.StatusToday},
		{"tomorrow", time.Date(2025, 3, 11, 0, 0, 0, 0, loc), record.StatusUpcoming},
		{"next month", time.Date(2025, 4, 1, 0, 0, 0, 0, loc), record.StatusUpcoming},
		{"yesterday", time.Date(2025, 3, 9, 0, 0, 0, 0, loc), record.StatusPast},
		{"last year", time.Date(2024, 3, 10, 0, 0, 0, 0, loc), record.StatusPast},
		{"zero date", time.Time{}, record.StatusPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.date, now))
		})
	}
}

func TestClassifyDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		dateText string
		want     record.Status
	}{
		{"2025-03-10", record.StatusToday},
		{"2025-03-11", record.StatusUpcoming},
		{"2025-03-09", record.StatusPast},
		{"not a date", record.StatusPast},
	}

	for _, tt := range tests {
		t.Run(tt.dateText, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDate(tt.dateText, now))
		})
	}
}
