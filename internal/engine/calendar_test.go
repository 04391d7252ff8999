package engine_test

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/engine"
)

func TestCalendarRenderer_Render(t *testing.T) {
	week := engine.Week{
		{Weekday: time.Monday, Date: date(2024, 3, 11), Names: []string{"Ann", "Bo"}},
		{Weekday: time.Friday, Date: date(2024, 3, 15), Names: []string{"Cy"}},
	}
	stamp := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	r := &engine.CalendarRenderer{}
	data, err := r.Render(week, stamp)
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Equal(t, 3, strings.Count(ics, "BEGIN:VEVENT"), "one event per congratulation")
	assert.Contains(t, ics, "SUMMARY:Birthday: Ann")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20240311")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20240315")

	// The document must decode back into three events with distinct UIDs.
	cal, err := ical.NewDecoder(strings.NewReader(ics)).Decode()
	require.NoError(t, err)
	calName, err := cal.Props.Text(config.PropXWRCalName)
	require.NoError(t, err)
	assert.Equal(t, config.ICalCalName, calName)

	events := cal.Events()
	require.Len(t, events, 3)

	uids := make(map[string]bool)
	for _, e := range events {
		uid, err := e.Props.Text(config.PropUID)
		require.NoError(t, err)
		uids[uid] = true
	}
	assert.Len(t, uids, 3)
}

func TestCalendarRenderer_HomonymsGetDistinctUIDs(t *testing.T) {
	// One Ann was born on a Saturday, the other on a Sunday: both land on Monday.
	roster := []engine.Entry{born("Ann", "1990-03-09"), born("Ann", "1991-03-10")}
	week := engine.ComputeWeek(roster, date(2024, 3, 11))
	require.Len(t, week, 1)
	require.Equal(t, []string{"Ann", "Ann"}, week[0].Names)

	r := &engine.CalendarRenderer{}
	data, err := r.Render(week, date(2024, 3, 11))
	require.NoError(t, err)

	cal, err := ical.NewDecoder(strings.NewReader(string(data))).Decode()
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	first, err := events[0].Props.Text(config.PropUID)
	require.NoError(t, err)
	second, err := events[1].Props.Text(config.PropUID)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	again, err := r.Render(week, date(2024, 3, 12))
	require.NoError(t, err)
	assert.Contains(t, string(again), first, "UIDs survive a refresh")
	assert.Contains(t, string(again), second, "UIDs survive a refresh")
}

func TestCalendarRenderer_StableUIDs(t *testing.T) {
	week := engine.Week{{Weekday: time.Monday, Date: date(2024, 3, 11), Names: []string{"Ann"}}}
	r := &engine.CalendarRenderer{}

	first, err := r.Render(week, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	second, err := r.Render(week, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	uidLine := func(ics []byte) string {
		for _, line := range strings.Split(string(ics), "\r\n") {
			if strings.HasPrefix(line, "UID:") {
				return line
			}
		}
		return ""
	}
	assert.NotEmpty(t, uidLine(first))
	assert.Equal(t, uidLine(first), uidLine(second), "UID must not depend on the render time")
}

func TestCalendarRenderer_LocalizedSummary(t *testing.T) {
	week := engine.Week{{Weekday: time.Tuesday, Date: date(2024, 3, 12), Names: []string{"Léa"}}}
	r := &engine.CalendarRenderer{
		FormatSummary: func(name string) string { return "Anniversaire : " + name },
	}

	data, err := r.Render(week, time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Anniversaire : Léa")
}

func TestCalendarRenderer_EmptyWeek(t *testing.T) {
	r := &engine.CalendarRenderer{}

	data, err := r.Render(engine.Week{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))
	assert.NotContains(t, string(data), "BEGIN:VEVENT")
}
