package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gogoref/gogoref/internal/i18n"
	"github.com/gogoref/gogoref/internal/record"
)

const (
	DefaultReferees = 2
	MaxReferees     = 5
	DefaultTables   = 0
	MaxTables       = 3

	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// GameType is the format of the game being refereed
type GameType string

const (
	FullCourt GameType = "5v5-full"
	HalfCourt GameType = "3x3-half"
)

// ParseGameType accepts the form values and a few spellings used on the CLI
func ParseGameType(s string) (GameType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "5v5-full", "5v5", "full", "fullcourt":
		return FullCourt, nil
	case "3x3-half", "3x3", "half", "halfcourt":
		return HalfCourt, nil
	}
	return "", fmt.Errorf("unknown game type: %q", s)
}

// Label renders the game type for messages, e.g. "5 vs 5 (全場)"
func (g GameType) Label(lang i18n.Lang) string {
	if g == FullCourt {
		return "5 vs 5 (" + i18n.Lookup(lang, "form.gameType.fullCourt") + ")"
	}
	return "3 x 3 (" + i18n.Lookup(lang, "form.gameType.halfCourt") + ")"
}

// Booking is one referee booking request
type Booking struct {
	ID                 string    `json:"id,omitempty"`
	Date               string    `json:"date"`
	StartTime          string    `json:"start_time"`
	EndTime            string    `json:"end_time"`
	VenueName          string    `json:"venue_name,omitempty"`
	VenueAddress       string    `json:"venue_address,omitempty"`
	GameType           GameType  `json:"game_type"`
	Referees           int       `json:"referees"`
	Tables             int       `json:"tables"`
	AdditionalServices string    `json:"additional_services,omitempty"`
	ClientName         string    `json:"client_name"`
	ClientPhone        string    `json:"client_phone"`
	Language           i18n.Lang `json:"language,omitempty"`
	SubmittedAt        time.Time `json:"submitted_at,omitempty"`
}

// New returns an empty booking with the default staff counts
func New() *Booking {
	return &Booking{
		GameType: FullCourt,
		Referees: DefaultReferees,
		Tables:   DefaultTables,
		Language: i18n.DefaultLang,
	}
}

// Normalize trims free text and rewrites clock times as HH:MM
func (b *Booking) Normalize() {
	b.Date = strings.TrimSpace(b.Date)
	b.StartTime = normalizeClock(b.StartTime)
	b.EndTime = normalizeClock(b.EndTime)
	b.VenueName = strings.TrimSpace(b.VenueName)
	b.VenueAddress = strings.TrimSpace(b.VenueAddress)
	b.AdditionalServices = strings.TrimSpace(b.AdditionalServices)
	b.ClientName = strings.TrimSpace(b.ClientName)
	b.ClientPhone = strings.TrimSpace(b.ClientPhone)
	if b.Language == "" {
		b.Language = i18n.DefaultLang
	}
}

func normalizeClock(s string) string {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(clockLayout, s); err == nil {
		return t.Format(clockLayout)
	}
	return s
}

// TimeSlot renders "HH:MM - HH:MM"
func (b *Booking) TimeSlot() string {
	return b.StartTime + " - " + b.EndTime
}

// ParsedDate returns the booking date at midnight in loc, or the zero time
func (b *Booking) ParsedDate(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(b.Date), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ValidationError names the first invalid field of a booking
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

var phonePattern = regexp.MustCompile(`^[+]?[\d\s\-\(\)]{8,}$`)

// Validate checks the booking in the order the form does and reports the
// first problem, with the message in lang. today is the first bookable day.
func (b *Booking) Validate(lang i18n.Lang, today time.Time) error {
	text := func(key string) string {
		return i18n.Lookup(lang, "validation."+key)
	}
	required := func(field string) *ValidationError {
		return &ValidationError{Field: field, Message: text("fillField") + text(field)}
	}

	checks := []struct {
		field string
		value string
	}{
		{"date", b.Date},
		{"startTime", b.StartTime},
		{"endTime", b.EndTime},
		{"gameType", string(b.GameType)},
		{"clientName", b.ClientName},
		{"clientPhone", b.ClientPhone},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return required(c.field)
		}
	}
	if _, err := ParseGameType(string(b.GameType)); err != nil {
		return required("gameType")
	}

	if strings.TrimSpace(b.VenueName) == "" && strings.TrimSpace(b.VenueAddress) == "" {
		return &ValidationError{Field: "venueName", Message: text("selectVenue")}
	}

	if normalizeClock(b.StartTime) >= normalizeClock(b.EndTime) {
		return &ValidationError{Field: "endTime", Message: text("timeError")}
	}

	if !phonePattern.MatchString(b.ClientPhone) {
		return &ValidationError{Field: "clientPhone", Message: text("phoneError")}
	}

	date := b.ParsedDate(today.Location())
	if date.IsZero() || date.Before(record.Midnight(today)) {
		return &ValidationError{Field: "date", Message: text("dateError")}
	}

	if b.Referees < 0 || b.Referees > MaxReferees {
		return &ValidationError{Field: "referees", Message: text("countError")}
	}
	if b.Tables < 0 || b.Tables > MaxTables {
		return &ValidationError{Field: "tables", Message: text("countError")}
	}

	return nil
}

// NewID returns "BK" followed by the last six digits of the Unix millisecond
// clock. IDs are short enough to read out over the phone; they are not unique.
func NewID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "BK" + ms
}

// FormatPhone groups Hong Kong numbers for display: 8 digits as "XXXX XXXX",
// 11 digits starting with 852 as "+852 XXXX XXXX". Anything else is returned
// unchanged.
func FormatPhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 8:
		return d[:4] + " " + d[4:]
	case len(d) == 11 && strings.HasPrefix(d, "852"):
		return "+852 " + d[3:7] + " " + d[7:]
	}
	return phone
}

var hongKong = loadHongKong()

func loadHongKong() *time.Location {
	loc, err := time.LoadLocation("Asia/Hong_Kong")
	if err != nil {
		return time.FixedZone("HKT", 8*60*60)
	}
	return loc
}

// HongKong returns the business time zone
func HongKong() *time.Location {
	return hongKong
}
