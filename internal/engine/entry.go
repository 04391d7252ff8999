package engine

import "time"

// Entry is one row of a birthday roster.
type Entry struct {
	// Name is the display name. Never empty once loaded.
	Name string

	// DateOfBirth is the parsed birth date. Only month and day matter for the
	// weekly window; the year is used to skip people not born yet.
	DateOfBirth time.Time

	// YearKnown is false for yearless vCard dates (--MM-DD).
	YearKnown bool
}
