package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/logger"
	"github.com/gogoref/gogoref/internal/refresh"
	"github.com/gogoref/gogoref/internal/viewmodel"
	"github.com/gogoref/gogoref/internal/web"
)

var flagServePort string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Serve the games and timetable pages, their JSON API and the booking
endpoint. Both sheets reload on the configured interval; SIGHUP reloads them
immediately.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagServePort, "port", "", "Listen port (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !flagVerbose {
		gin.SetMode(gin.ReleaseMode)
	}

	client := newSheetClient()
	games := viewmodel.NewGamesView(client, cfg.Sheet.GamesTab, viewmodel.WithClock(hongKongNow))
	timetable := viewmodel.NewTimetableView(client, cfg.Sheet.Timetable, viewmodel.WithClock(hongKongNow))

	notifiers, err := bookingNotifiers(cmd)
	if err != nil {
		return err
	}
	deskCfg := booking.DeskConfig{
		BusinessPhone: cfg.Business.WhatsApp,
		AdminPhone:    cfg.Business.AdminWhatsApp,
		Notifiers:     notifiers,
	}
	opts := web.EngineOptions{
		HTTPOptions: web.HTTPOptions{
			Games:        games,
			Timetable:    timetable,
			Location:     booking.HongKong(),
			BusinessName: cfg.Business.Name,
			DefaultLang:  lang,
			AdminToken:   cfg.Web.AdminToken,
		},
		CORSHosts: cfg.Web.CORSHosts,
	}

	ledger, err := openLedger()
	if err != nil {
		return err
	}
	if ledger != nil {
		defer ledger.Close()
		deskCfg.Recorder = ledger
		opts.Ledger = ledger
	}
	opts.Desk = booking.NewDesk(deskCfg)

	engine, err := web.NewEngine(opts)
	if err != nil {
		return err
	}

	interval := cfg.GetRefreshInterval()
	gamesRefresh := refresh.New("games", interval, games.Load)
	timetableRefresh := refresh.New("timetable", interval, timetable.Load)
	gamesRefresh.Start(ctx)
	defer gamesRefresh.Stop()
	timetableRefresh.Start(ctx)
	defer timetableRefresh.Stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				logger.Info("Reload requested", nil)
				gamesRefresh.Trigger()
				timetableRefresh.Trigger()
			}
		}
	}()

	port := cfg.Web.Port
	if flagServePort != "" {
		port = flagServePort
	}

	logger.Info("Serving", logger.Fields{
		"port":     port,
		"ledger":   ledger != nil,
		"email":    cfg.EmailEnabled(),
		"interval": interval.String(),
	})
	return web.NewServer(":"+port, engine).Run(ctx)
}
