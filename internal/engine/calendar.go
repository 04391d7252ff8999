package engine

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-assistant/internal/config"
)

// CalendarRenderer turns a computed week into an iCalendar document.
type CalendarRenderer struct {
	// FormatSummary lets callers inject localized event titles.
	// When nil, config.FallbackSummary is used.
	FormatSummary func(name string) string
}

// Render encodes one all-day event per congratulation. stamp is written as
// DTSTAMP on every event.
func (r *CalendarRenderer) Render(week Week, stamp time.Time) ([]byte, error) {
	if week.Len() == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(stamp.UTC())

	for _, day := range week {
		seen := make(map[string]int, len(day.Names))
		for _, name := range day.Names {
			event := ical.NewEvent()
			event.Props.SetText(config.PropUID, eventUID(name, day.Date, seen[name]))
			seen[name]++
			event.Props.SetText(config.PropSummary, r.summary(name))

			dtStart := ical.NewProp(config.PropDTStart)
			dtStart.SetDate(day.Date)
			event.Props.Set(dtStart)
			event.Props.Set(dtStamp)

			cal.Children = append(cal.Children, event.Component)
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

func (r *CalendarRenderer) summary(name string) string {
	if r.FormatSummary != nil {
		return r.FormatSummary(name)
	}
	return fmt.Sprintf(config.FallbackSummary, name)
}

// eventUID is stable across refreshes so calendar clients update events in place.
// n tells apart homonyms congratulated on the same day.
func eventUID(name string, date time.Time, n int) string {
	input := fmt.Sprintf(config.FormatUIDInput, name, date.Format(config.DateFormatFullDash), n)
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(input))
	return fmt.Sprintf(config.FormatUIDDomain, id.String())
}
