// Package booking validates referee booking requests and composes the
// WhatsApp messages that confirm them.
//
// A booking is never confirmed by this package: it produces a booking ID and
// two pre-filled click-to-chat links, one the client sends to the business and
// one that notifies the admin. Staff follow up by hand.
package booking
