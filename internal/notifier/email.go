package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	resend "github.com/resend/resend-go/v2"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/i18n"
)

// emailSender is the part of the Resend client used here
type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailNotifier mails new bookings to the admin through Resend
type EmailNotifier struct {
	sender       emailSender
	from         string
	to           []string
	businessName string
}

// NewEmailNotifier creates an EmailNotifier using the Resend API key
func NewEmailNotifier(apiKey, from string, to []string, businessName string) (*EmailNotifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Resend API key")
	}
	if from == "" || len(to) == 0 {
		return nil, fmt.Errorf("email sender and recipients are required")
	}

	client := resend.NewClient(apiKey)
	return &EmailNotifier{
		sender:       client.Emails,
		from:         from,
		to:           to,
		businessName: businessName,
	}, nil
}

// Notify sends one email for b
func (n *EmailNotifier) Notify(ctx context.Context, b *booking.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := renderEmail(n.businessName, b)
	if err != nil {
		return fmt.Errorf("rendering email for %s: %w", b.ID, err)
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: formatSubject(b),
		Html:    body,
	}

	if _, err := n.sender.Send(params); err != nil {
		return fmt.Errorf("sending email for %s: %w", b.ID, err)
	}
	return nil
}

// formatSubject formats a short subject line for a booking
func formatSubject(b *booking.Booking) string {
	subject := fmt.Sprintf("新預訂 %s - %s %s", b.ID, b.Date, b.TimeSlot())
	if b.VenueName != "" {
		subject += " @ " + b.VenueName
	}
	return subject
}

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px; }
        .container { background-color: #ffffff; max-width: 600px; margin: 0 auto; padding: 20px; border-radius: 8px; }
        h2 { color: #667eea; }
        td { padding: 4px 8px; vertical-align: top; }
        td.label { color: #666666; white-space: nowrap; }
        pre { white-space: pre-wrap; font-family: inherit; background: #f9f9f9; padding: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <h2>{{.Business}}</h2>
        <table>
        {{range .Summary}}<tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>
        {{end}}</table>
        <pre>{{.Message}}</pre>
    </div>
</body>
</html>`))

func renderEmail(businessName string, b *booking.Booking) (string, error) {
	submitted := b.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}

	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, struct {
		Business string
		Summary  []booking.SummaryLine
		Message  string
	}{
		Business: strings.TrimSpace(businessName),
		Summary:  b.Summary(i18n.ZH),
		Message:  booking.AdminMessage(b, submitted),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
