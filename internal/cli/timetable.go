package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogoref/gogoref/internal/viewmodel"
)

var (
	flagTimetableDay    string
	flagTimetableFormat string
)

func newTimetableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Show the tournament timetable",
		Args:  cobra.NoArgs,
		RunE:  runTimetable,
	}

	cmd.Flags().StringVar(&flagTimetableDay, "day", "", "Only this day, e.g. saturday (default: every day)")
	cmd.Flags().StringVar(&flagTimetableFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runTimetable(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagTimetableFormat)
	if err != nil {
		return err
	}

	view := viewmodel.NewTimetableView(newSheetClient(), cfg.Sheet.Timetable, viewmodel.WithClock(hongKongNow))
	day := strings.TrimSpace(flagTimetableDay)
	if day != "" && !view.HasDay(day) {
		keys := make([]string, 0, len(cfg.Sheet.Timetable))
		for _, tab := range view.Tabs() {
			keys = append(keys, tab.Key)
		}
		return fmt.Errorf("unknown day: %s (configured: %s)", flagTimetableDay, strings.Join(keys, ", "))
	}

	if err := view.Load(cmd.Context()); err != nil {
		return err
	}

	snap := view.Snapshot()
	if day != "" {
		days := snap.Days[:0]
		for _, d := range snap.Days {
			if d.Key == day {
				days = append(days, d)
			}
		}
		snap.Days = days
	}

	result := &TimetableResult{
		Lang:              lang,
		CheckedAt:         time.Now().UTC(),
		TimetableSnapshot: snap,
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
