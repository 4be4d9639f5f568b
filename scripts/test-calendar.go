package main

import (
	"fmt"
	"os"

	"github.com/gogoref/gogoref/internal/booking"
	"github.com/gogoref/gogoref/internal/calendar"
	"github.com/gogoref/gogoref/internal/record"
)

func main() {
	// One timed game, one with only a start, one all-day
	games := []record.Game{
		{Date: "2026-03-14", Time: "19:00-21:00", Venue: "Southorn Playground", GameType: "5v5", Referees: "2"},
		{Date: "2026-03-15", Time: "7:30 PM", Venue: "Victoria Park Court 2", GameType: "3x3", Referees: "1", Notes: "Semi-final"},
		{Date: "2026-03-21", Time: "TBC", Venue: "Kowloon Park Sports Centre", GameType: "5v5", Referees: "3"},
	}

	icsContent := calendar.GenerateICS(games, booking.HongKong())

	// Write to file (owner read/write only for security)
	filename := "test-gogoref-games.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file with %d games: %s\n\n", len(games), filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
