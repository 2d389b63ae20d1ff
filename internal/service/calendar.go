package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/utkandevrim/ac/internal/model"
)

const (
	calendarProductID = "-//Actor Club//Events//TR"
	calendarName      = "Actor Club Etkinlikleri"
	icsMaxFileSize    = 1 << 20
)

// BuildCalendar renders events as an iCalendar feed.
func BuildCalendar(events []model.Event, baseURL string, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(calendarName)

	base := strings.TrimRight(baseURL, "/")
	for i := range events {
		e := &events[i]
		ev := cal.AddEvent(e.ID + "@actor-club")
		ev.SetDtStampTime(now.UTC())
		ev.SetCreatedTime(e.CreatedAt.UTC())
		ev.SetModifiedAt(e.UpdatedAt.UTC())
		ev.SetStartAt(e.Date.UTC())
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		if base != "" {
			ev.SetURL(base + "/events/" + e.ID)
		}
	}
	return cal.Serialize()
}

// ParseCalendar reads VEVENTs into unsaved events. Entries without a summary
// or start time are skipped.
func ParseCalendar(r io.Reader, loc *time.Location) ([]model.Event, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(r, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	var out []model.Event
	for _, evt := range cal.Events() {
		summary := evt.GetProperty(ics.ComponentPropertySummary)
		if summary == nil || strings.TrimSpace(summary.Value) == "" {
			continue
		}
		start, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
		if err != nil {
			continue
		}

		e := model.Event{
			Title:  unescapeICSText(strings.TrimSpace(summary.Value)),
			Date:   start,
			Photos: model.StringArray{},
		}
		if p := evt.GetProperty(ics.ComponentPropertyDescription); p != nil {
			e.Description = unescapeICSText(p.Value)
		}
		if p := evt.GetProperty(ics.ComponentPropertyLocation); p != nil {
			e.Location = unescapeICSText(p.Value)
		}
		out = append(out, e)
	}
	return out, nil
}

var icsTextUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

func unescapeICSText(s string) string {
	return icsTextUnescaper.Replace(s)
}

// parseICSDateTime reads a DATE or DATE-TIME property, honouring TZID and the
// UTC suffix. Floating times are taken in loc.
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", val)
}
