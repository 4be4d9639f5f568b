package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/calendar"
	"github.com/gogoref/gogoref/internal/refresh"
	"github.com/gogoref/gogoref/internal/viewmodel"
)

var (
	flagGamesDate   string
	flagGamesVenue  string
	flagGamesFormat string
	flagGamesSort   string
	flagGamesICS    string
	flagGamesWatch  bool
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List the game schedule",
		Long: `List the games of the schedule tab, newest first, with their status
relative to today. --watch keeps reloading on the configured refresh interval.`,
		Args: cobra.NoArgs,
		RunE: runGames,
	}

	cmd.Flags().StringVar(&flagGamesDate, "date", viewmodel.All, "Only games on this date (as written in the sheet) or 'all'")
	cmd.Flags().StringVar(&flagGamesVenue, "venue", viewmodel.All, "Only games at this venue or 'all'")
	cmd.Flags().StringVar(&flagGamesFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagGamesSort, "sort", "date", "Sort order: date, venue or time")
	cmd.Flags().StringVar(&flagGamesICS, "ics", "", "Also write the listed games to this iCalendar file")
	cmd.Flags().BoolVar(&flagGamesWatch, "watch", false, "Reload and print on every refresh until interrupted")

	return cmd
}

func runGames(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagGamesFormat)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(flagGamesSort)
	if err != nil {
		return err
	}

	view := viewmodel.NewGamesView(newSheetClient(), cfg.Sheet.GamesTab, viewmodel.WithClock(hongKongNow))
	view.ApplyFilter(viewmodel.Filter{Date: flagGamesDate, Venue: flagGamesVenue})

	show := func(ctx context.Context) error {
		if err := view.Load(ctx); err != nil {
			return err
		}
		snap := view.Snapshot()
		sortGames(snap.Games, order)

		if flagGamesICS != "" {
			ics := calendar.GenerateICS(snap.Records(), booking.HongKong())
			if err := os.WriteFile(flagGamesICS, []byte(ics), 0644); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			if flagVerbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d games to %s\n", snap.Shown, flagGamesICS)
			}
		}

		result := &GamesResult{
			Lang:          lang,
			CheckedAt:     time.Now().UTC(),
			GamesSnapshot: snap,
		}
		if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}

	if !flagGamesWatch {
		return show(cmd.Context())
	}
	return watch(cmd, "games", show)
}

// watch runs task on the refresh schedule until SIGINT or SIGTERM. SIGHUP
// forces an immediate run. Output from overlapping runs is serialized.
func watch(cmd *cobra.Command, name string, task refresh.Task) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	r := refresh.New(name, cfg.GetRefreshInterval(), func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		return task(ctx)
	})

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	r.Start(ctx)
	defer r.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			r.Trigger()
		}
	}
}
