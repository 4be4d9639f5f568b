package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/i18n"
	"github.com/gogoref/gogoref/internal/logger"
	"github.com/gogoref/gogoref/internal/storage"
	"github.com/gogoref/gogoref/internal/viewmodel"
)

//go:embed templates/*
var templates embed.FS

// Router is the subset of gin routing the handlers register on
type Router interface {
	GET(string, ...gin.HandlerFunc) gin.IRoutes
	POST(string, ...gin.HandlerFunc) gin.IRoutes
	Use(...gin.HandlerFunc) gin.IRoutes
	Group(string, ...gin.HandlerFunc) *gin.RouterGroup
}

// BookingLister reads the booking ledger
type BookingLister interface {
	ListBookings(limit int) ([]storage.Entry, error)
}

// HTTPOptions holds what the handlers serve. Ledger may be nil when no
// booking ledger is configured. The ledger listing requires AdminToken as a
// bearer token; with an empty AdminToken it is closed to every request.
type HTTPOptions struct {
	Games        *viewmodel.GamesView
	Timetable    *viewmodel.TimetableView
	Desk         *booking.Desk
	Ledger       BookingLister
	Location     *time.Location
	BusinessName string
	DefaultLang  i18n.Lang
	AdminToken   string
	Router       Router
}

// NewHTTPHandler registers every route on opts.Router
func NewHTTPHandler(opts HTTPOptions) {
	if opts.Location == nil {
		opts.Location = booking.HongKong()
	}
	h := &httpHandler{opts}

	opts.Router.GET("/healthz", h.health)
	opts.Router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/games")
	})
	opts.Router.GET("/games", h.gamesPage)
	opts.Router.GET("/timetable", h.timetablePage)

	api := opts.Router.Group("/api")
	api.GET("/games", h.listGames)
	api.POST("/games/refresh", h.refreshGames)
	api.GET("/games.ics", h.gamesCalendar)
	api.GET("/timetable", h.timetable)
	api.GET("/timetable/:day", h.timetableDay)
	api.POST("/timetable/refresh", h.refreshTimetable)
	api.POST("/bookings", h.submitBooking)
	api.GET("/bookings", requireAdmin(opts.AdminToken), h.listBookings)
	api.GET("/metrics", h.metrics)
}

// EngineOptions configures NewEngine
type EngineOptions struct {
	HTTPOptions
	CORSHosts []string
}

// NewEngine builds a gin engine with logging, recovery, CORS and the page
// templates, and registers the handlers on it.
func NewEngine(opts EngineOptions) (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	if len(opts.CORSHosts) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = opts.CORSHosts
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		engine.Use(cors.New(corsConfig))
	}

	engine.SetHTMLTemplate(tmpl)

	opts.Router = engine
	NewHTTPHandler(opts.HTTPOptions)
	return engine, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logger.Fields{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("HTTP request failed", fields)
		} else {
			logger.Debug("HTTP request", fields)
		}
		logger.IncrCounter("http.requests")
	}
}

// Server runs the engine until its context is cancelled
type Server struct {
	srv *http.Server
}

// NewServer creates a server for handler on addr, e.g. ":8080"
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting web server", logger.Fields{"addr": s.srv.Addr})
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	logger.Info("Web server stopped", nil)
	return nil
}
