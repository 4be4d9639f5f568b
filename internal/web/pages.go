package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gogoref/gogoref/internal/i18n"
	"github.com/gogoref/gogoref/internal/record"
	"github.com/gogoref/gogoref/internal/viewmodel"
)

var templateFuncs = template.FuncMap{
	"t": i18n.T,
	"longDate": func(lang i18n.Lang, text string) string {
		if d := record.ParseDate(text, time.UTC); !d.IsZero() {
			return i18n.FormatLongDate(lang, d)
		}
		return text
	},
	"timestamp": func(lang i18n.Lang, t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return i18n.FormatTimestamp(lang, t)
	},
	"statusKey": func(s record.Status) string {
		return "status." + string(s)
	},
	"dayKey": func(key string) string {
		return "timetable.days." + key
	},
}

// GamesPage is the data of the games page
type GamesPage struct {
	Lang         i18n.Lang
	BusinessName string
	Snapshot     viewmodel.GamesSnapshot
	Failed       bool
}

// TimetablePage is the data of the timetable page
type TimetablePage struct {
	Lang         i18n.Lang
	BusinessName string
	Tabs         []viewmodel.Tab
	Active       string
	Day          viewmodel.DaySchedule
	UpdatedAt    time.Time
	Failed       bool
}

func (h *httpHandler) gamesPage(c *gin.Context) {
	snap := h.Games.View(filterFromQuery(c))
	page := GamesPage{
		Lang:         h.lang(c),
		BusinessName: h.BusinessName,
		Snapshot:     snap,
		Failed:       snap.State == viewmodel.StateFailed,
	}

	status := http.StatusOK
	if page.Failed {
		status = http.StatusBadGateway
	}
	c.HTML(status, "games.html", page)
}

func (h *httpHandler) timetablePage(c *gin.Context) {
	tabs := h.Timetable.Tabs()
	active := c.Query("day")
	if active == "" && len(tabs) > 0 {
		active = tabs[0].Key
	}
	if !h.Timetable.HasDay(active) {
		c.String(http.StatusNotFound, "unknown day: %s", active)
		return
	}

	snap := h.Timetable.Snapshot()
	page := TimetablePage{
		Lang:         h.lang(c),
		BusinessName: h.BusinessName,
		Tabs:         tabs,
		Active:       active,
		Day:          viewmodel.DaySchedule{Key: active},
		UpdatedAt:    snap.UpdatedAt,
		Failed:       snap.State == viewmodel.StateFailed,
	}
	for _, d := range snap.Days {
		if d.Key == active {
			page.Day = d
		}
	}

	status := http.StatusOK
	if page.Failed {
		status = http.StatusBadGateway
	}
	c.HTML(status, "timetable.html", page)
}
