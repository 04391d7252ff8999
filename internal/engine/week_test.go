package engine_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-assistant/internal/engine"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func born(name, iso string) engine.Entry {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		panic(err)
	}
	return engine.Entry{Name: name, DateOfBirth: t, YearKnown: true}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		today      time.Weekday
		start, end int
	}{
		{time.Monday, -2, 5},
		{time.Tuesday, 0, 7},
		{time.Wednesday, 0, 7},
		{time.Thursday, 0, 7},
		{time.Friday, 0, 7},
		{time.Saturday, 0, 7},
		{time.Sunday, -1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.today.String(), func(t *testing.T) {
			start, end := engine.Window(tt.today)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
			assert.Equal(t, 7, end-start, "window must always span seven days")
		})
	}
}

func TestComputeWeek_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		today  time.Time
		roster []engine.Entry
		want   engine.Week
	}{
		{
			name:  "Sunday folds today into Monday",
			today: date(2024, 3, 10),
			roster: []engine.Entry{
				born("Ann", "1990-03-10"),
				born("Bo", "1990-03-11"),
			},
			want: engine.Week{
				{Weekday: time.Monday, Date: date(2024, 3, 11), Names: []string{"Ann", "Bo"}},
			},
		},
		{
			name:  "Monday captures the weekend just passed",
			today: date(2024, 3, 11),
			roster: []engine.Entry{
				born("Sat", "1985-03-09"),
				born("Sun", "1985-03-10"),
				born("Mon", "1985-03-11"),
				born("Fri", "1985-03-15"),
				born("NextSat", "1985-03-16"),
				born("LastFri", "1985-03-08"),
			},
			want: engine.Week{
				{Weekday: time.Monday, Date: date(2024, 3, 11), Names: []string{"Sat", "Sun", "Mon"}},
				{Weekday: time.Friday, Date: date(2024, 3, 15), Names: []string{"Fri"}},
			},
		},
		{
			name:  "Midweek orders labels from today",
			today: date(2024, 3, 13),
			roster: []engine.Entry{
				born("Yesterday", "1970-03-12"),
				born("Today", "1970-03-13"),
				born("Saturday", "1970-03-16"),
				born("Monday", "1970-03-18"),
				born("Tuesday", "1970-03-19"),
				born("SevenDays", "1970-03-20"),
			},
			want: engine.Week{
				{Weekday: time.Wednesday, Date: date(2024, 3, 13), Names: []string{"Today"}},
				{Weekday: time.Monday, Date: date(2024, 3, 18), Names: []string{"Saturday", "Monday"}},
				{Weekday: time.Tuesday, Date: date(2024, 3, 19), Names: []string{"Tuesday"}},
			},
		},
		{
			name:  "Window crosses New Year forward",
			today: date(2024, 12, 27),
			roster: []engine.Entry{
				born("NewYear", "1990-01-01"),
				born("Weekend", "1990-12-28"),
			},
			want: engine.Week{
				{Weekday: time.Monday, Date: date(2024, 12, 30), Names: []string{"Weekend"}},
				{Weekday: time.Wednesday, Date: date(2025, 1, 1), Names: []string{"NewYear"}},
			},
		},
		{
			name:  "Monday window reaches back into last year",
			today: date(2024, 1, 1),
			roster: []engine.Entry{
				born("Dec30", "1980-12-30"),
				born("Dec31", "1980-12-31"),
				born("Jan5", "1980-01-05"),
			},
			want: engine.Week{
				{Weekday: time.Monday, Date: date(2024, 1, 1), Names: []string{"Dec30", "Dec31"}},
				{Weekday: time.Friday, Date: date(2024, 1, 5), Names: []string{"Jan5"}},
			},
		},
		{
			name:   "Leapling in a non-leap year lands on March 1st",
			today:  date(2025, 2, 26),
			roster: []engine.Entry{born("Leap", "2000-02-29")},
			want: engine.Week{
				{Weekday: time.Monday, Date: date(2025, 3, 3), Names: []string{"Leap"}},
			},
		},
		{
			name:   "Nobody is congratulated before being born",
			today:  date(2024, 3, 13),
			roster: []engine.Entry{born("Future", "2030-03-14")},
			want:   engine.Week{},
		},
		{
			name:   "Empty roster",
			today:  date(2024, 3, 13),
			roster: nil,
			want:   engine.Week{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ComputeWeek(tt.roster, tt.today)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeWeek() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeWeek_IgnoresClockAndZone(t *testing.T) {
	roster := []engine.Entry{born("Ann", "1990-03-10"), born("Bo", "1990-03-11")}
	tokyo := time.FixedZone("JST", 9*60*60)

	// 23:30 on Sunday in Tokyo is still Sunday for the person using the tool.
	late := time.Date(2024, 3, 10, 23, 30, 0, 0, tokyo)
	got := engine.ComputeWeek(roster, late)

	require.Len(t, got, 1)
	assert.Equal(t, []string{"Monday"}, got.Labels())
	assert.Equal(t, []string{"Ann", "Bo"}, got[0].Names)
}

func TestComputeWeek_YearlessEntries(t *testing.T) {
	roster := []engine.Entry{{Name: "NoYear", DateOfBirth: date(2000, 3, 11)}}

	got := engine.ComputeWeek(roster, date(1999, 3, 10))

	require.Len(t, got, 1, "yearless dates are anchored to 2000 but must still match earlier years")
	assert.Equal(t, []string{"Thursday"}, got.Labels())
}

// TestComputeWeek_Properties runs every day of a leap year against a roster
// holding one person per calendar day.
func TestComputeWeek_Properties(t *testing.T) {
	var roster []engine.Entry
	byName := make(map[string]time.Time)
	for d := date(2000, 1, 1); d.Year() == 2000; d = d.AddDate(0, 0, 1) {
		name := d.Format("01-02")
		roster = append(roster, engine.Entry{Name: name, DateOfBirth: d, YearKnown: true})
		byName[name] = d
	}

	for today := date(2024, 1, 1); today.Year() == 2024; today = today.AddDate(0, 0, 1) {
		week := engine.ComputeWeek(roster, today)
		start, end := engine.Window(today.Weekday())

		assert.Equal(t, 7, week.Len(), "%s: exactly seven birthdays fall in any window", today.Format("2006-01-02"))
		assert.Equal(t, week, engine.ComputeWeek(roster, today), "ComputeWeek must be idempotent")

		lastOffset := start - 1
		for _, day := range week {
			assert.NotEqual(t, time.Saturday, day.Weekday, "weekend labels must fold to Monday")
			assert.NotEqual(t, time.Sunday, day.Weekday, "weekend labels must fold to Monday")
			assert.Equal(t, day.Weekday, day.Date.Weekday())

			offset := int(day.Date.Sub(today).Hours() / 24)
			assert.True(t, start <= offset && offset < end, "%s: label date outside window", today.Format("2006-01-02"))
			assert.Greater(t, offset, lastOffset, "labels must follow calendar order")
			lastOffset = offset

			for _, name := range day.Names {
				assertInWindow(t, today, byName[name], start, end)
			}
		}
	}
}

func assertInWindow(t *testing.T, today, birth time.Time, start, end int) {
	t.Helper()
	for _, y := range []int{today.Year() - 1, today.Year(), today.Year() + 1} {
		occ := time.Date(y, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
		delta := int(occ.Sub(today).Hours() / 24)
		if start <= delta && delta < end {
			return
		}
	}
	t.Errorf("%s: birthday %s reported outside window", today.Format("2006-01-02"), birth.Format("01-02"))
}

func TestWeek_Views(t *testing.T) {
	week := engine.Week{
		{Weekday: time.Wednesday, Names: []string{"A"}},
		{Weekday: time.Monday, Names: []string{"B", "C"}},
	}

	assert.Equal(t, []string{"Wednesday", "Monday"}, week.Labels())
	assert.Equal(t, 3, week.Len())
}
