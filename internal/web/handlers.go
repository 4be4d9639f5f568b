package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/calendar"
	"github.com/gogoref/gogoref/internal/i18n"
	"github.com/gogoref/gogoref/internal/logger"
	"github.com/gogoref/gogoref/internal/sheet"
	"github.com/gogoref/gogoref/internal/viewmodel"
)

const defaultBookingLimit = 50

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) lang(c *gin.Context) i18n.Lang {
	query, accept := c.Query("lang"), c.GetHeader("Accept-Language")
	if query == "" && accept == "" && h.DefaultLang != "" {
		return h.DefaultLang
	}
	return i18n.Negotiate(query, accept)
}

func filterFromQuery(c *gin.Context) viewmodel.Filter {
	return viewmodel.Filter{
		Date:  c.Query("date"),
		Venue: c.Query("venue"),
	}.Normalize()
}

// loadFailed answers 502 with the view's error and the localized message
func (h *httpHandler) loadFailed(c *gin.Context, detail string) {
	c.JSON(http.StatusBadGateway, gin.H{
		"error":   detail,
		"message": i18n.T(h.lang(c), "page.error"),
	})
}

func (h *httpHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"games":     h.Games.State(),
		"timetable": h.Timetable.State(),
	})
}

func (h *httpHandler) listGames(c *gin.Context) {
	f := filterFromQuery(c)
	if !f.IsEmpty() {
		logger.IncrCounter("games.filtered")
	}

	snap := h.Games.View(f)
	if snap.State == viewmodel.StateFailed {
		h.loadFailed(c, snap.Error)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// refreshContext outlives the request so a client that disconnects does not
// abort a reload shared by every visitor.
func refreshContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request.Context()), sheet.Timeout)
}

func (h *httpHandler) refreshGames(c *gin.Context) {
	ctx, cancel := refreshContext(c)
	defer cancel()
	if err := h.Games.Load(ctx); err != nil {
		h.loadFailed(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.Games.View(filterFromQuery(c)))
}

func (h *httpHandler) gamesCalendar(c *gin.Context) {
	snap := h.Games.View(filterFromQuery(c))
	if snap.State == viewmodel.StateFailed {
		h.loadFailed(c, snap.Error)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="games.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8",
		[]byte(calendar.GenerateICS(snap.Records(), h.Location)))
}

func (h *httpHandler) timetable(c *gin.Context) {
	snap := h.Timetable.Snapshot()
	if snap.State == viewmodel.StateFailed {
		h.loadFailed(c, snap.Error)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *httpHandler) timetableDay(c *gin.Context) {
	key := c.Param("day")
	if !h.Timetable.HasDay(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown day: " + key})
		return
	}
	logger.IncrCounter("timetable.tab_changed")

	snap := h.Timetable.Snapshot()
	if snap.State == viewmodel.StateFailed {
		h.loadFailed(c, snap.Error)
		return
	}

	day := viewmodel.DaySchedule{Key: key, Slots: []viewmodel.Slot{}}
	for _, d := range snap.Days {
		if d.Key == key {
			day = d
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state":      snap.State,
		"updated_at": snap.UpdatedAt,
		"day":        day,
	})
}

func (h *httpHandler) refreshTimetable(c *gin.Context) {
	ctx, cancel := refreshContext(c)
	defer cancel()
	if err := h.Timetable.Load(ctx); err != nil {
		h.loadFailed(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.Timetable.Snapshot())
}

func (h *httpHandler) submitBooking(c *gin.Context) {
	b := booking.New()
	b.Language = h.lang(c)
	if err := c.ShouldBindJSON(b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking request: " + err.Error()})
		return
	}
	if lang, err := i18n.ParseLang(string(b.Language)); err == nil {
		b.Language = lang
	} else {
		b.Language = h.lang(c)
	}

	conf, err := h.Desk.Submit(c.Request.Context(), b)
	if err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, verr)
			return
		}
		logger.Error("Failed to submit booking", logger.Fields{"path": c.FullPath()}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, conf)
}

func (h *httpHandler) listBookings(c *gin.Context) {
	if h.Ledger == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking ledger is not configured"})
		return
	}

	limit := defaultBookingLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit: " + s})
			return
		}
		limit = n
	}

	entries, err := h.Ledger.ListBookings(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": entries, "count": len(entries)})
}

func (h *httpHandler) metrics(c *gin.Context) {
	c.JSON(http.StatusOK, logger.GetMetricsSnapshot())
}
