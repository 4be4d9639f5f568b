// Package record defines the rows read from the published spreadsheet.
//
// A Game is one refereed fixture from the games tab and a ScheduleEvent is one
// slot of a tournament timetable tab. Both are built fresh on every fetch cycle
// and never mutated afterwards. The package also owns date parsing and the
// Today/Upcoming/Past status classification shared by every view of a game.
package record
