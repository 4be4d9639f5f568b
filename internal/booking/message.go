package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/gogoref/gogoref/internal/i18n"
)

// messageDate renders the booking date the way both messages show it,
// falling back to the raw text when it does not parse
func (b *Booking) messageDate() string {
	d := b.ParsedDate(time.UTC)
	if d.IsZero() {
		return b.Date
	}
	return i18n.FormatLongDate(i18n.EN, d)
}

func (b *Booking) venueLines(sb *strings.Builder) {
	if b.VenueName != "" {
		fmt.Fprintf(sb, "📍 體育館: %s", b.VenueName)
	}
	if b.VenueAddress != "" {
		fmt.Fprintf(sb, "\n🏢 完整地址: %s", b.VenueAddress)
	}
}

// AdminMessage is the notification the admin receives for a new booking.
// submittedAt is shown in Hong Kong time.
func AdminMessage(b *Booking, submittedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("🚨 新預訂提醒 🚨\n\n")
	fmt.Fprintf(&sb, "📋 預訂編號: %s\n", b.ID)
	fmt.Fprintf(&sb, "⏰ 提交時間: %s\n\n", i18n.FormatTimestamp(i18n.EN, submittedAt.In(hongKong)))
	fmt.Fprintf(&sb, "📅 比賽日期: %s\n", b.messageDate())
	fmt.Fprintf(&sb, "🕐 時間段: %s\n", b.TimeSlot())
	b.venueLines(&sb)
	sb.WriteString("\n\n🏀 比賽詳情:\n")
	fmt.Fprintf(&sb, "• 類型: %s\n", b.GameType.Label(b.Language))
	fmt.Fprintf(&sb, "• 所需裁判: %d 人\n", b.Referees)
	fmt.Fprintf(&sb, "• 紀錄台: %d 人", b.Tables)
	if b.AdditionalServices != "" {
		fmt.Fprintf(&sb, "\n• 其它服務: %s", b.AdditionalServices)
	}
	sb.WriteString("\n\n👤 客戶資料:\n")
	fmt.Fprintf(&sb, "• 姓名: %s\n", b.ClientName)
	fmt.Fprintf(&sb, "• 電話: %s", b.ClientPhone)

	return sb.String()
}

// ClientMessage is the request the client sends to the business
func ClientMessage(b *Booking) string {
	var sb strings.Builder

	sb.WriteString("🏀 籃球預訂申請\n\n")
	fmt.Fprintf(&sb, "📅 日期: %s\n", b.messageDate())
	fmt.Fprintf(&sb, "⏰ 時間: %s\n", b.TimeSlot())
	b.venueLines(&sb)
	fmt.Fprintf(&sb, "\n🎯 比賽類型: %s\n", b.GameType.Label(b.Language))
	fmt.Fprintf(&sb, "👨‍⚖️ 裁判: %d 人\n", b.Referees)
	fmt.Fprintf(&sb, "📊 紀錄台: %d 人", b.Tables)
	if b.AdditionalServices != "" {
		fmt.Fprintf(&sb, "\n📷 其它服務: %s", b.AdditionalServices)
	}
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "👤 聯絡人: %s\n", b.ClientName)
	fmt.Fprintf(&sb, "📱 電話: %s\n\n", b.ClientPhone)
	sb.WriteString("請確認場地供應情況及價格。謝謝！")

	return sb.String()
}

// SummaryLine is one labelled row of a booking confirmation
type SummaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summary lists the confirmation rows in lang. Optional rows are left out
// when empty.
func (b *Booking) Summary(lang i18n.Lang) []SummaryLine {
	t := func(key string) string {
		return i18n.Lookup(lang, "modal."+key)
	}

	date := b.Date
	if d := b.ParsedDate(time.UTC); !d.IsZero() {
		date = i18n.FormatLongDate(lang, d)
	}
	people := t("people")

	lines := []SummaryLine{
		{t("bookingId"), b.ID},
		{t("date"), date},
		{t("time"), b.TimeSlot()},
	}
	if b.VenueName != "" {
		lines = append(lines, SummaryLine{t("venue"), b.VenueName})
	}
	if b.VenueAddress != "" {
		lines = append(lines, SummaryLine{t("address"), b.VenueAddress})
	}
	lines = append(lines,
		SummaryLine{t("gameType"), b.GameType.Label(lang)},
		SummaryLine{t("referees"), fmt.Sprintf("%d %s", b.Referees, people)},
		SummaryLine{t("tables"), fmt.Sprintf("%d %s", b.Tables, people)},
	)
	if b.AdditionalServices != "" {
		lines = append(lines, SummaryLine{t("services"), b.AdditionalServices})
	}
	lines = append(lines, SummaryLine{t("contact"), fmt.Sprintf("%s (%s)", b.ClientName, b.ClientPhone)})

	return lines
}
