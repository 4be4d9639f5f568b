// Package cli implements the gogoref command-line interface.
//
// The cli package provides the Cobra-based CLI for listing the game schedule
// and tournament timetable published in the shared spreadsheet, submitting and
// listing referee bookings, and running the web server. Output is available as
// text or JSON.
package cli
