package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/gogoref/gogoref/internal/logger"
	"github.com/gogoref/gogoref/internal/whatsapp"
)

// Recorder keeps submitted bookings
type Recorder interface {
	SaveBooking(ctx context.Context, b *Booking) (string, error)
}

// Notifier tells staff about a submitted booking
type Notifier interface {
	Notify(ctx context.Context, b *Booking) error
}

// Confirmation is what a client sees after submitting a booking
type Confirmation struct {
	Booking       *Booking      `json:"booking"`
	LedgerKey     string        `json:"ledger_key,omitempty"`
	Summary       []SummaryLine `json:"summary"`
	ClientMessage string        `json:"client_message"`
	ClientLink    string        `json:"client_link"`
	AdminMessage  string        `json:"admin_message"`
	AdminLink     string        `json:"admin_link"`
}

// DeskConfig holds the contact numbers and optional collaborators of a Desk
type DeskConfig struct {
	BusinessPhone string
	AdminPhone    string
	Recorder      Recorder
	Notifiers     []Notifier
	Now           func() time.Time
}

// Desk accepts booking requests
type Desk struct {
	businessPhone string
	adminPhone    string
	recorder      Recorder
	notifiers     []Notifier
	now           func() time.Time
}

// NewDesk creates a Desk
func NewDesk(cfg DeskConfig) *Desk {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Desk{
		businessPhone: cfg.BusinessPhone,
		adminPhone:    cfg.AdminPhone,
		recorder:      cfg.Recorder,
		notifiers:     cfg.Notifiers,
		now:           now,
	}
}

// Submit validates b, assigns its ID and builds both WhatsApp links. A
// *ValidationError is returned unwrapped. Notifier failures are logged and
// do not fail the submission.
func (d *Desk) Submit(ctx context.Context, b *Booking) (*Confirmation, error) {
	b.Normalize()
	now := d.now()

	if err := b.Validate(b.Language, now.In(hongKong)); err != nil {
		logger.Info("Booking rejected", logger.Fields{
			"error": err.Error(),
			"lang":  string(b.Language),
		})
		logger.IncrCounter("booking.validation_failed")
		return nil, err
	}

	b.ID = NewID(now)
	b.SubmittedAt = now

	conf := &Confirmation{
		Booking:       b,
		Summary:       b.Summary(b.Language),
		ClientMessage: ClientMessage(b),
		AdminMessage:  AdminMessage(b, now),
	}
	conf.ClientLink = whatsapp.Link(d.businessPhone, conf.ClientMessage)
	conf.AdminLink = whatsapp.Link(d.adminPhone, conf.AdminMessage)

	if d.recorder != nil {
		key, err := d.recorder.SaveBooking(ctx, b)
		if err != nil {
			logger.Error("Failed to record booking", logger.Fields{"booking_id": b.ID}, err)
			return nil, fmt.Errorf("recording booking %s: %w", b.ID, err)
		}
		conf.LedgerKey = key
	}

	for _, n := range d.notifiers {
		if err := n.Notify(ctx, b); err != nil {
			logger.Warn("Booking notification failed", logger.Fields{
				"booking_id": b.ID,
				"notifier":   fmt.Sprintf("%T", n),
				"error":      err.Error(),
			})
			logger.IncrCounter("booking.notify_error")
		}
	}

	logger.Info("Booking submitted", logger.Fields{
		"booking_id": b.ID,
		"venue":      b.VenueName,
		"game_type":  string(b.GameType),
		"referees":   b.Referees,
		"tables":     b.Tables,
		"date":       b.Date,
	})
	logger.IncrCounter("booking.submitted")

	return conf, nil
}
