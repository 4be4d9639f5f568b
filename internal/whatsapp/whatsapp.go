// Package whatsapp builds click-to-chat links with a pre-filled message.
package whatsapp

import (
	"net/url"
	"strings"
	"unicode"
)

// BaseURL is the click-to-chat endpoint
const BaseURL = "https://wa.me/"

// Link returns https://wa.me/<digits>?text=<message>. Everything but digits
// is dropped from phone; the message is component-encoded with spaces as %20.
func Link(phone, message string) string {
	return BaseURL + Digits(phone) + "?text=" + EncodeComponent(message)
}

// Digits strips everything but 0-9 from a phone number
func Digits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// EncodeComponent escapes s for use as a query value the way a browser's
// encodeURIComponent does for the characters that matter: spaces become
// %20, not '+'.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
