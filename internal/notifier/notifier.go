package notifier

import (
	"context"

	"github.com/gogoref/gogoref/internal/booking"
)

// Notifier defines the interface for announcing a booking
type Notifier interface {
	// Notify announces one submitted booking
	Notify(ctx context.Context, b *booking.Booking) error
}
