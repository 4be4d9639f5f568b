// Package viewmodel derives what the games and timetable pages display from
// freshly parsed sheet records.
//
// The pure builders (SortByDateDescending, ClassifyStatus, DeriveCategory,
// FilterGames, UniqueSortedValues) hold no state. GamesView and TimetableView
// are the controllers that own the most recently loaded records; every page,
// handler and command receives them explicitly.
package viewmodel
