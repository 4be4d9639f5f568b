package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/whatsapp"
)

// DryRunNotifier prints what the admin would receive without sending it
type DryRunNotifier struct {
	out        io.Writer
	adminPhone string
}

// NewDryRunNotifier creates a dry-run notifier writing to out, or stdout when out is nil
func NewDryRunNotifier(out io.Writer, adminPhone string) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{out: out, adminPhone: adminPhone}
}

// Notify prints the admin link and message
func (n *DryRunNotifier) Notify(_ context.Context, b *booking.Booking) error {
	submitted := b.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}
	msg := booking.AdminMessage(b, submitted)

	fmt.Fprintf(n.out, "--- Admin notification %s ---\n", b.ID)
	fmt.Fprintln(n.out, msg)
	fmt.Fprintf(n.out, "\n%s\n\n", whatsapp.Link(n.adminPhone, msg))
	return nil
}
