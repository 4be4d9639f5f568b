package viewmodel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gogoref/gogoref/internal/logger"
	"github.com/gogoref/gogoref/internal/record"
)

// ScheduleSource provides the rows of a timetable tab
type ScheduleSource interface {
	Schedule(ctx context.Context, sheetName string) ([]record.ScheduleEvent, error)
}

// Tab maps a day key such as "saturday" to the sheet tab holding that day
type Tab struct {
	Key       string `json:"key" yaml:"key"`
	SheetName string `json:"sheet" yaml:"sheet"`
}

// Slot is one timetable event as the timetable page shows it
type Slot struct {
	record.ScheduleEvent
	Color string `json:"color"`
}

// DaySchedule is the timetable of one tab
type DaySchedule struct {
	Key       string `json:"key"`
	SheetName string `json:"sheet"`
	Slots     []Slot `json:"slots"`
}

// TimetableSnapshot is a consistent copy of a TimetableView's state
type TimetableSnapshot struct {
	State     LoadState     `json:"state"`
	Error     string        `json:"error,omitempty"`
	Days      []DaySchedule `json:"days"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TimetableView owns the most recently loaded timetable of every day tab.
// It is safe for concurrent use.
type TimetableView struct {
	source ScheduleSource
	tabs   []Tab
	now    func() time.Time

	mu        sync.RWMutex
	state     LoadState
	err       error
	days      map[string][]record.ScheduleEvent
	updatedAt time.Time
}

// NewTimetableView creates a view over tabs, shown in the given order
func NewTimetableView(source ScheduleSource, tabs []Tab, opts ...Option) *TimetableView {
	o := buildOptions(opts)
	return &TimetableView{
		source: source,
		tabs:   append([]Tab(nil), tabs...),
		now:    o.now,
		state:  StateLoading,
		days:   make(map[string][]record.ScheduleEvent),
	}
}

// Tabs returns the configured day tabs in display order
func (v *TimetableView) Tabs() []Tab {
	return append([]Tab(nil), v.tabs...)
}

// HasDay reports whether key names a configured tab
func (v *TimetableView) HasDay(key string) bool {
	for _, t := range v.tabs {
		if t.Key == key {
			return true
		}
	}
	return false
}

// Load fetches every day tab. Categories are carried forward within each day
// starting from an empty category. If any tab fails, the whole load fails.
// A cancelled ctx leaves the view unchanged.
func (v *TimetableView) Load(ctx context.Context) error {
	start := time.Now()
	days := make(map[string][]record.ScheduleEvent, len(v.tabs))

	for _, tab := range v.tabs {
		events, err := v.source.Schedule(ctx, tab.SheetName)
		if err != nil && ctx.Err() != nil {
			logger.Warn("Timetable load cancelled", logger.Fields{"day": tab.Key})
			return fmt.Errorf("loading timetable %s: %w", tab.Key, ctx.Err())
		}
		if err != nil {
			v.mu.Lock()
			v.state = StateFailed
			v.err = err
			v.days = make(map[string][]record.ScheduleEvent)
			v.mu.Unlock()

			logger.Error("Failed to load timetable", logger.Fields{
				"day":   tab.Key,
				"sheet": tab.SheetName,
			}, err)
			logger.IncrCounter("timetable.load_error")
			return fmt.Errorf("loading timetable %s: %w", tab.Key, err)
		}

		days[tab.Key], _ = DeriveCategory(events, "")
	}

	v.mu.Lock()
	v.days = days
	v.state = StateLoaded
	v.err = nil
	v.updatedAt = v.now()
	v.mu.Unlock()

	logger.Info("Timetable loaded", logger.Fields{"days": len(days)})
	logger.IncrCounter("timetable.loaded")
	logger.RecordTiming("timetable.load", time.Since(start))
	return nil
}

// State returns the current load state
func (v *TimetableView) State() LoadState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Day returns the events of one day tab
func (v *TimetableView) Day(key string) ([]record.ScheduleEvent, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	events, ok := v.days[key]
	if !ok {
		return nil, false
	}
	return append([]record.ScheduleEvent(nil), events...), true
}

// Snapshot returns every day in tab order with display colours
func (v *TimetableView) Snapshot() TimetableSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	snap := TimetableSnapshot{
		State:     v.state,
		Days:      make([]DaySchedule, 0, len(v.tabs)),
		UpdatedAt: v.updatedAt,
	}
	if v.err != nil {
		snap.Error = v.err.Error()
	}

	for _, tab := range v.tabs {
		events, ok := v.days[tab.Key]
		if !ok {
			continue
		}
		day := DaySchedule{
			Key:       tab.Key,
			SheetName: tab.SheetName,
			Slots:     make([]Slot, 0, len(events)),
		}
		for _, evt := range events {
			day.Slots = append(day.Slots, Slot{
				ScheduleEvent: evt,
				Color:         record.CategoryColor(evt.Category),
			})
		}
		snap.Days = append(snap.Days, day)
	}

	return snap
}
