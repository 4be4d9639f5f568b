package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogoref/gogoref/internal/booking"
)

var (
	flagBookDate     string
	flagBookStart    string
	flagBookEnd      string
	flagBookVenue    string
	flagBookAddress  string
	flagBookType     string
	flagBookReferees int
	flagBookTables   int
	flagBookServices string
	flagBookName     string
	flagBookPhone    string
	flagBookFormat   string
	flagBookNotify   bool

	flagBookingsLimit  int
	flagBookingsFormat string
)

func newBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Submit a referee booking request",
		Long: `Validate a referee booking request and print its summary with the
WhatsApp links for the client and the admin. The booking is recorded in the
ledger when one is configured. Exits with status 2 when the request is invalid.`,
		Args: cobra.NoArgs,
		RunE: runBook,
	}

	cmd.Flags().StringVar(&flagBookDate, "date", "", "Game date, YYYY-MM-DD")
	cmd.Flags().StringVar(&flagBookStart, "start", "", "Start time, HH:MM")
	cmd.Flags().StringVar(&flagBookEnd, "end", "", "End time, HH:MM")
	cmd.Flags().StringVar(&flagBookVenue, "venue", "", "Sports center name")
	cmd.Flags().StringVar(&flagBookAddress, "address", "", "Full address of another venue")
	cmd.Flags().StringVar(&flagBookType, "type", string(booking.FullCourt), "Game type: 5v5-full or 3x3-half")
	cmd.Flags().IntVar(&flagBookReferees, "referees", booking.DefaultReferees, "Number of referees")
	cmd.Flags().IntVar(&flagBookTables, "tables", booking.DefaultTables, "Number of scoring table staff")
	cmd.Flags().StringVar(&flagBookServices, "services", "", "Additional services, e.g. photography")
	cmd.Flags().StringVar(&flagBookName, "name", "", "Client name")
	cmd.Flags().StringVar(&flagBookPhone, "phone", "", "Client phone number")
	cmd.Flags().StringVar(&flagBookFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagBookNotify, "notify", false, "Notify the admin (email when configured, otherwise printed to stderr)")

	return cmd
}

func runBook(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagBookFormat)
	if err != nil {
		return err
	}

	b := booking.New()
	b.Date = flagBookDate
	b.StartTime = flagBookStart
	b.EndTime = flagBookEnd
	b.VenueName = flagBookVenue
	b.VenueAddress = flagBookAddress
	b.GameType = booking.GameType(flagBookType)
	if gt, err := booking.ParseGameType(flagBookType); err == nil {
		b.GameType = gt
	}
	b.Referees = flagBookReferees
	b.Tables = flagBookTables
	b.AdditionalServices = flagBookServices
	b.ClientName = flagBookName
	b.ClientPhone = flagBookPhone
	b.Language = lang

	deskCfg := booking.DeskConfig{
		BusinessPhone: cfg.Business.WhatsApp,
		AdminPhone:    cfg.Business.AdminWhatsApp,
	}

	ledger, err := openLedger()
	if err != nil {
		return err
	}
	if ledger != nil {
		defer ledger.Close()
		deskCfg.Recorder = ledger
	}

	if flagBookNotify {
		notifiers, err := bookingNotifiers(cmd)
		if err != nil {
			return err
		}
		deskCfg.Notifiers = notifiers
	}

	conf, err := booking.NewDesk(deskCfg).Submit(cmd.Context(), b)
	if err != nil {
		return err
	}

	result := &BookingResult{Lang: lang, Confirmation: conf}
	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func newBookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List recorded bookings, newest first",
		Args:  cobra.NoArgs,
		RunE:  runBookings,
	}

	cmd.Flags().IntVar(&flagBookingsLimit, "limit", 20, "Maximum number of bookings (0 for all)")
	cmd.Flags().StringVar(&flagBookingsFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runBookings(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagBookingsFormat)
	if err != nil {
		return err
	}

	ledger, err := openLedger()
	if err != nil {
		return err
	}
	if ledger == nil {
		return errNoLedger
	}
	defer ledger.Close()

	entries, err := ledger.ListBookings(flagBookingsLimit)
	if err != nil {
		return fmt.Errorf("listing bookings: %w", err)
	}

	result := &BookingsResult{Lang: lang, Bookings: entries, Count: len(entries)}
	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
