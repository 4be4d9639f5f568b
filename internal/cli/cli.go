package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/config"
	"github.com/gogoref/gogoref/internal/crypto"
	"github.com/gogoref/gogoref/internal/i18n"
	"github.com/gogoref/gogoref/internal/logger"
	"github.com/gogoref/gogoref/internal/notifier"
	"github.com/gogoref/gogoref/internal/sheet"
	"github.com/gogoref/gogoref/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitInvalid = 2
)

var (
	flagConfig  string
	flagLang    string
	flagVerbose bool

	cfg  *config.Config
	lang i18n.Lang
)

// NewRootCmd creates the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gogoref",
		Short: "Referee bookings, game schedule and tournament timetable",
		Long: `gogoref reads the game schedule and tournament timetable from a
published Google Sheet, takes referee booking requests and serves both
through a small web site.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file (environment variables override it)")
	cmd.PersistentFlags().StringVar(&flagLang, "lang", "", "Display language: zh or en (default from config)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newGamesCmd(),
		newTimetableCmd(),
		newBookCmd(),
		newBookingsCmd(),
		newServeCmd(),
	)

	return cmd
}

// setup loads the configuration and the logger before any subcommand runs
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c

	level, _ := logger.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	lang = cfg.DefaultLang()
	if flagLang != "" {
		l, err := i18n.ParseLang(flagLang)
		if err != nil {
			return err
		}
		lang = l
	}

	if flagVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Sheet: %s\n", cfg.Sheet.ID)
		fmt.Fprintf(cmd.ErrOrStderr(), "Language: %s\n", lang)
	}
	return nil
}

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// hongKongNow is the clock game status and booking dates are judged by,
// whatever the host's zone.
func hongKongNow() time.Time {
	return time.Now().In(booking.HongKong())
}

func newSheetClient() *sheet.Client {
	return sheet.New(cfg.Sheet.BaseURL, cfg.Sheet.ID)
}

var errNoLedger = errors.New("no booking ledger configured (set DB_PATH or storage.db_path)")

// openLedger opens the configured ledger, or returns nil when none is set
func openLedger() (*storage.Ledger, error) {
	if cfg.Storage.DatabasePath == "" {
		return nil, nil
	}
	ledger, err := storage.Open(cfg.Storage.DatabasePath, crypto.NewEncryptor(cfg.Storage.EncryptionKey))
	if err != nil {
		return nil, fmt.Errorf("opening booking ledger: %w", err)
	}
	return ledger, nil
}

// bookingNotifiers returns the email and Telegram notifiers that are
// configured, or a dry-run notifier on stderr when neither is
func bookingNotifiers(cmd *cobra.Command) ([]booking.Notifier, error) {
	var notifiers []booking.Notifier

	if cfg.EmailEnabled() {
		n, err := notifier.NewEmailNotifier(cfg.Email.ResendKey, cfg.Email.From, cfg.Email.To, cfg.Business.Name)
		if err != nil {
			return nil, fmt.Errorf("creating email notifier: %w", err)
		}
		notifiers = append(notifiers, n)
	}

	if cfg.TelegramEnabled() {
		n, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Business.AdminWhatsApp)
		if err != nil {
			return nil, fmt.Errorf("creating telegram notifier: %w", err)
		}
		notifiers = append(notifiers, n)
	}

	if len(notifiers) == 0 {
		notifiers = append(notifiers, notifier.NewDryRunNotifier(cmd.ErrOrStderr(), cfg.Business.AdminWhatsApp))
	}
	return notifiers, nil
}

// exitCode maps an error from a command to the process exit status
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		return ExitInvalid
	}
	return ExitError
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
