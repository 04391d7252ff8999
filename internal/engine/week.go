package engine

import "time"

// daysPerWeek is the length of every congratulation window.
const daysPerWeek = 7

// Day groups the names congratulated under one weekday label.
type Day struct {
	// Weekday is the label. Never Saturday or Sunday.
	Weekday time.Weekday

	// Date is the calendar date the label stands for inside the window.
	Date time.Time

	// Names in the order they were found in the roster.
	Names []string
}

// Week is the result of ComputeWeek: labels in calendar order starting from
// today, only days that have at least one name.
type Week []Day

// Labels returns the weekday names in output order.
func (w Week) Labels() []string {
	labels := make([]string, 0, len(w))
	for _, d := range w {
		labels = append(labels, d.Weekday.String())
	}
	return labels
}

// Len returns the total number of congratulations in the week.
func (w Week) Len() int {
	n := 0
	for _, d := range w {
		n += len(d.Names)
	}
	return n
}

// Window returns the half-open range [start, end) of day offsets, relative to
// today, within which a birthday counts as "this week".
//
// On Monday the weekend that just passed is included; on Sunday yesterday is.
func Window(today time.Weekday) (start, end int) {
	switch today {
	case time.Monday:
		return -2, 5
	case time.Sunday:
		return -1, 6
	default:
		return 0, daysPerWeek
	}
}

// ComputeWeek returns who should be congratulated in the week around today.
//
// It is a pure function: today is an explicit input and nothing is read from
// the system clock. Weekend birthdays are reported under Monday.
func ComputeWeek(roster []Entry, today time.Time) Week {
	day := civilDate(today)
	start, end := Window(day.Weekday())

	byLabel := make(map[time.Weekday]*Day)
	for _, e := range roster {
		occ, ok := occurrenceInWindow(day, e, start, end)
		if !ok {
			continue
		}

		label, date := fold(occ)
		d, found := byLabel[label]
		if !found {
			d = &Day{Weekday: label, Date: date}
			byLabel[label] = d
		}
		d.Names = append(d.Names, e.Name)
	}

	week := make(Week, 0, len(byLabel))
	for i := 0; i < daysPerWeek; i++ {
		wd := (day.Weekday() + time.Weekday(i)) % daysPerWeek
		if d, ok := byLabel[wd]; ok {
			week = append(week, *d)
		}
	}
	return week
}

// occurrenceInWindow projects the birth date onto the year around today and
// returns the occurrence that falls inside [start, end), if any.
//
// The current year is tried first, then the next one (birthday already passed),
// then the previous one (a Monday window reaching back over New Year).
func occurrenceInWindow(today time.Time, e Entry, start, end int) (time.Time, bool) {
	y := today.Year()
	for _, year := range []int{y, y + 1, y - 1} {
		if e.YearKnown && year < e.DateOfBirth.Year() {
			continue
		}
		occ := occurrence(e.DateOfBirth, year)
		delta := daysBetween(today, occ)
		if start <= delta && delta < end {
			return occ, true
		}
	}
	return time.Time{}, false
}

// occurrence re-anchors a birth date to the given year.
// time.Date normalizes Feb 29 to March 1st when year is not a leap year.
func occurrence(birth time.Time, year int) time.Time {
	return time.Date(year, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
}

// fold maps weekend occurrences to the following Monday.
func fold(occ time.Time) (time.Weekday, time.Time) {
	switch occ.Weekday() {
	case time.Saturday:
		return time.Monday, occ.AddDate(0, 0, 2)
	case time.Sunday:
		return time.Monday, occ.AddDate(0, 0, 1)
	default:
		return occ.Weekday(), occ
	}
}

// civilDate drops the clock and zone of t, keeping its local calendar date.
// A birthday is defined by the local date, not by an absolute UTC instant.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns b - a in whole days. Both must be civil dates.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
