package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/i18n"
	"github.com/gogoref/gogoref/internal/record"
	"github.com/gogoref/gogoref/internal/storage"
	"github.com/gogoref/gogoref/internal/viewmodel"
)

type fakeSheet struct {
	games []record.Game
	days  map[string][]record.ScheduleEvent
	err   error
}

func (f *fakeSheet) Games(ctx context.Context, _ string) ([]record.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]record.Game(nil), f.games...), nil
}

func (f *fakeSheet) Schedule(ctx context.Context, sheetName string) ([]record.ScheduleEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]record.ScheduleEvent(nil), f.days[sheetName]...), nil
}

const adminToken = "s3cret-admin-token"

func clock() time.Time {
	return time.Date(2025, 2, 1, 4, 0, 0, 0, time.UTC)
}

func newSheet() *fakeSheet {
	return &fakeSheet{
		games: []record.Game{
			{Date: "2025-02-01", Time: "19:00", Venue: "CourtX", GameType: "5v5", Referees: "2"},
			{Date: "2025-02-08", Time: "20:30-22:00", Venue: "CourtY", GameType: "3x3", Referees: "1"},
			{Date: "2025-01-15", Time: "19:00", Venue: "CourtX", GameType: "5v5", Referees: "3"},
		},
		days: map[string][]record.ScheduleEvent{
			"Sat": {
				record.NewScheduleEvent("09:00", "Opening Ceremony", ""),
				record.NewScheduleEvent("09:30", "Game 1", "U10"),
			},
			"Sun": {
				record.NewScheduleEvent("10:00", "Final", "U12"),
			},
		},
	}
}

type testEnv struct {
	engine *gin.Engine
	ledger *storage.Ledger
	games  *viewmodel.GamesView
}

func setup(t *testing.T, src *fakeSheet, withLedger bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	games := viewmodel.NewGamesView(src, "Sheet1", viewmodel.WithClock(clock))
	timetable := viewmodel.NewTimetableView(src, []viewmodel.Tab{
		{Key: "saturday", SheetName: "Sat"},
		{Key: "sunday", SheetName: "Sun"},
	}, viewmodel.WithClock(clock))
	_ = games.Load(context.Background())
	_ = timetable.Load(context.Background())

	env := &testEnv{games: games}
	cfg := booking.DeskConfig{
		BusinessPhone: "85293211378",
		AdminPhone:    "85260000000",
		Now:           clock,
	}
	opts := EngineOptions{
		HTTPOptions: HTTPOptions{
			Games:        games,
			Timetable:    timetable,
			BusinessName: "GoGoRef",
			Location:     time.UTC,
			AdminToken:   adminToken,
		},
		CORSHosts: []string{"https://gogoref.example"},
	}
	if withLedger {
		ledger, err := storage.Open(filepath.Join(t.TempDir(), "ledger.db"), nil)
		require.NoError(t, err)
		t.Cleanup(func() { ledger.Close() })
		env.ledger = ledger
		cfg.Recorder = ledger
		opts.Ledger = ledger
	}
	opts.Desk = booking.NewDesk(cfg)

	engine, err := NewEngine(opts)
	require.NoError(t, err)
	env.engine = engine
	return env
}

func (e *testEnv) do(method, path string, body []byte, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	env := setup(t, newSheet(), false)

	rec := env.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "loaded", body["games"])
	assert.Equal(t, "loaded", body["timetable"])
}

func TestListGames(t *testing.T) {
	env := setup(t, newSheet(), false)

	tests := []struct {
		name  string
		query string
		shown int
	}{
		{"all", "", 3},
		{"by venue", "?venue=CourtX", 2},
		{"by date", "?date=2025-02-08", 1},
		{"explicit all", "?date=all&venue=all", 3},
		{"no match", "?venue=Nowhere", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, "/api/games"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var snap viewmodel.GamesSnapshot
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
			assert.Equal(t, tt.shown, snap.Shown)
			assert.Equal(t, 3, snap.Total)
			assert.Equal(t, []string{"2025-01-15", "2025-02-01", "2025-02-08"}, snap.DateOptions)
		})
	}
}

func TestListGames_Order(t *testing.T) {
	env := setup(t, newSheet(), false)

	rec := env.do(http.MethodGet, "/api/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap viewmodel.GamesSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Games, 3)
	assert.Equal(t, "2025-02-08", snap.Games[0].Date)
	assert.Equal(t, record.StatusUpcoming, snap.Games[0].Status)
	assert.Equal(t, record.StatusToday, snap.Games[1].Status)
	assert.Equal(t, record.StatusPast, snap.Games[2].Status)
}

func TestListGames_LoadFailed(t *testing.T) {
	src := newSheet()
	src.err = errors.New("sheet unavailable")
	env := setup(t, src, false)

	rec := env.do(http.MethodGet, "/api/games?lang=en", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "sheet unavailable")
	assert.Equal(t, i18n.T(i18n.EN, "page.error"), body["message"])
}

func TestRefreshGames(t *testing.T) {
	src := newSheet()
	env := setup(t, src, false)

	src.games = src.games[:1]
	rec := env.do(http.MethodPost, "/api/games/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.games.Snapshot().Total)

	src.err = errors.New("boom")
	rec = env.do(http.MethodPost, "/api/games/refresh", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, viewmodel.StateFailed, env.games.State())
}

func TestGamesCalendar(t *testing.T) {
	env := setup(t, newSheet(), false)

	rec := env.do(http.MethodGet, "/api/games.ics?venue=CourtY", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))

	body := rec.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "CourtY")
}

func TestTimetable(t *testing.T) {
	env := setup(t, newSheet(), false)

	rec := env.do(http.MethodGet, "/api/timetable", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap viewmodel.TimetableSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Days, 2)
	assert.Equal(t, "saturday", snap.Days[0].Key)
	assert.True(t, snap.Days[0].Slots[0].Highlight)
	assert.Equal(t, "#87ceeb", snap.Days[0].Slots[1].Color)
}

func TestTimetableDay(t *testing.T) {
	env := setup(t, newSheet(), false)

	rec := env.do(http.MethodGet, "/api/timetable/sunday", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Day viewmodel.DaySchedule `json:"day"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Day.Slots, 1)
	assert.Equal(t, "Final", body.Day.Slots[0].Activity)

	rec = env.do(http.MethodGet, "/api/timetable/monday", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func bookingBody(t *testing.T, overrides map[string]interface{}) []byte {
	t.Helper()
	body := map[string]interface{}{
		"date":         "2025-02-10",
		"start_time":   "19:00",
		"end_time":     "21:00",
		"venue_name":   "Southorn Playground",
		"game_type":    "5v5-full",
		"referees":     2,
		"tables":       1,
		"client_name":  "Chan Tai Man",
		"client_phone": "+852 9123 4567",
	}
	for k, v := range overrides {
		body[k] = v
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return data
}

func TestSubmitBooking(t *testing.T) {
	env := setup(t, newSheet(), true)

	rec := env.do(http.MethodPost, "/api/bookings", bookingBody(t, nil), "Accept-Language", "en-US")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var conf booking.Confirmation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conf))
	assert.True(t, strings.HasPrefix(conf.Booking.ID, "BK"))
	assert.Equal(t, i18n.EN, conf.Booking.Language)
	assert.NotEmpty(t, conf.LedgerKey)
	assert.True(t, strings.HasPrefix(conf.ClientLink, "https://wa.me/85293211378?text="))
	assert.True(t, strings.HasPrefix(conf.AdminLink, "https://wa.me/85260000000?text="))

	n, err := env.ledger.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec = env.do(http.MethodGet, "/api/bookings", nil, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Bookings []storage.Entry `json:"bookings"`
		Count    int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Chan Tai Man", list.Bookings[0].Booking.ClientName)
}

func TestSubmitBooking_Invalid(t *testing.T) {
	env := setup(t, newSheet(), true)

	tests := []struct {
		name      string
		overrides map[string]interface{}
		field     string
	}{
		{"missing name", map[string]interface{}{"client_name": ""}, "clientName"},
		{"end before start", map[string]interface{}{"end_time": "18:00"}, "endTime"},
		{"no venue", map[string]interface{}{"venue_name": ""}, "venueName"},
		{"bad phone", map[string]interface{}{"client_phone": "123"}, "clientPhone"},
		{"in the past", map[string]interface{}{"date": "2025-01-01"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/bookings?lang=en", bookingBody(t, tt.overrides))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var verr booking.ValidationError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}

	n, err := env.ledger.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRefreshGames_ClientGoneKeepsGames(t *testing.T) {
	src := newSheet()
	env := setup(t, src, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/games/refresh", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap viewmodel.GamesSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, viewmodel.StateLoaded, env.games.State())
}

func TestRefreshTimetable_ClientGoneKeepsDays(t *testing.T) {
	env := setup(t, newSheet(), false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/timetable/refresh", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/timetable/saturday", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitBooking_MalformedBody(t *testing.T) {
	env := setup(t, newSheet(), true)

	rec := env.do(http.MethodPost, "/api/bookings", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBookings_NoLedger(t *testing.T) {
	env := setup(t, newSheet(), false)

	rec := env.do(http.MethodGet, "/api/bookings", nil, "Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBookings_BadLimit(t *testing.T) {
	env := setup(t, newSheet(), true)

	rec := env.do(http.MethodGet, "/api/bookings?limit=abc", nil, "Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBookings_RequiresAdminToken(t *testing.T) {
	env := setup(t, newSheet(), true)

	rec := env.do(http.MethodPost, "/api/bookings", bookingBody(t, nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	tests := []struct {
		name    string
		headers []string
	}{
		{"no header", nil},
		{"wrong token", []string{"Authorization", "Bearer wrong-token-value"}},
		{"not bearer", []string{"Authorization", "Basic " + adminToken}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, "/api/bookings", nil, tt.headers...)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.NotContains(t, rec.Body.String(), "Chan Tai Man")
		})
	}
}

func TestListBookings_NoTokenConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/bookings", requireAdmin(""), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, header := range []string{"", "Bearer ", "Bearer anything"} {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestMetrics(t *testing.T) {
	env := setup(t, newSheet(), false)

	rec := env.do(http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "counters")
}

func TestGamesPage(t *testing.T) {
	env := setup(t, newSheet(), false)

	rec := env.do(http.MethodGet, "/games?lang=en&venue=CourtY", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Game Schedule")
	assert.Contains(t, body, "CourtY")
	assert.Contains(t, body, "Saturday, February 8, 2025")
	assert.Contains(t, body, "Upcoming")
	assert.NotContains(t, body, "game-"+record.Game{Date: "2025-01-15", Time: "19:00", Venue: "CourtX"}.ID())
}

func TestGamesPage_DefaultsToChinese(t *testing.T) {
	env := setup(t, newSheet(), false)

	rec := env.do(http.MethodGet, "/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lang="zh"`)
}

func TestTimetablePage(t *testing.T) {
	env := setup(t, newSheet(), false)

	rec := env.do(http.MethodGet, "/timetable?lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Opening Ceremony")
	assert.Contains(t, body, "highlight")
	assert.NotContains(t, body, "Final")

	rec = env.do(http.MethodGet, "/timetable?day=sunday&lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Final")

	rec = env.do(http.MethodGet, "/timetable?day=monday", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := setup(t, newSheet(), false)

	rec := env.do(http.MethodOptions, "/api/games", nil,
		"Origin", "https://gogoref.example",
		"Access-Control-Request-Method", "GET",
	)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://gogoref.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
