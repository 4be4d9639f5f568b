// Package storage keeps a ledger of submitted bookings in a bbolt database.
//
// Each booking is stored as JSON under a UUIDv7 key in the "bookings"
// bucket. Booking IDs shown to clients are short and can repeat, so they are
// never used as keys. When an encryption key is configured, the client's
// name and phone number are sealed before they reach disk.
package storage
