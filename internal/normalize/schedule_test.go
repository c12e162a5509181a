package normalize

import (
	"strings"
	"testing"
	"time"
)

// Wednesday 21 October 2026, 10:30 UTC.
var fixedNow = time.Date(2026, time.October, 21, 10, 30, 0, 0, time.UTC)

func newTestResolver(opts ...ScheduleOption) *ScheduleResolver {
	opts = append([]ScheduleOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewScheduleResolver(opts...)
}

func mustParseISO(t *testing.T, iso string) time.Time {
	t.Helper()
	at, err := time.Parse(ISOLayout, iso)
	if err != nil {
		t.Fatalf("parse %q: %v", iso, err)
	}
	return at
}

func TestResolve(t *testing.T) {
	tests := []struct {
		text    string
		wantISO string
		allDay  bool
	}{
		{text: "2pm tmrw", wantISO: "2026-10-22T14:00:00.000Z"},
		{text: "12pm ymrw", wantISO: "2026-10-22T12:00:00.000Z"},
		{text: "12am", wantISO: "2026-10-21T00:00:00.000Z"},
		{text: "tomorrow", wantISO: "2026-10-22T09:00:00.000Z", allDay: true},
		{text: "9am mon", wantISO: "2026-10-26T09:00:00.000Z"},
		{text: "wed 3pm", wantISO: "2026-10-21T15:00:00.000Z"},
		{text: "next wed 3pm", wantISO: "2026-10-28T15:00:00.000Z"},
		{text: "Friday at 2:30 p.m.", wantISO: "2026-10-23T14:30:00.000Z"},
		{text: "today 10 am", wantISO: "2026-10-21T10:00:00.000Z"},
		{text: "tmrw noon", wantISO: "2026-10-22T12:00:00.000Z"},
		{text: "2026-11-03 8am", wantISO: "2026-11-03T08:00:00.000Z"},
		{text: "rmrw 7pm", wantISO: "2026-10-22T19:00:00.000Z"},
		{text: "rdy fri 2pm", wantISO: "2026-10-23T14:00:00.000Z"},
		{text: "2.30pm tomorrow", wantISO: "2026-10-22T14:30:00.000Z"},
		{text: "7.45 am sat", wantISO: "2026-10-24T07:45:00.000Z"},
		{text: "13pm thursday", wantISO: "2026-10-22T09:00:00.000Z", allDay: true},
		{text: "whenever suits", wantISO: "2026-10-21T09:00:00.000Z", allDay: true},
		{text: "", wantISO: "2026-10-21T09:00:00.000Z", allDay: true},
	}
	r := newTestResolver()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := r.Resolve(tt.text)
			if got.ISO != tt.wantISO {
				t.Errorf("ISO = %q, want %q", got.ISO, tt.wantISO)
			}
			if got.AllDay != tt.allDay {
				t.Errorf("AllDay = %v, want %v", got.AllDay, tt.allDay)
			}
		})
	}
}

func TestResolve_ISORoundTrips(t *testing.T) {
	r := newTestResolver(WithLocation(time.FixedZone("AEDT", 11*60*60)))
	for _, text := range []string{"2pm tmrw", "12am", "tomorrow", "9:45am fri", "nonsense", "midnight sat", "2026-12-31 11:59pm"} {
		got := r.Resolve(text)
		at := mustParseISO(t, got.ISO)
		if again := at.UTC().Format(ISOLayout); again != got.ISO {
			t.Errorf("%q: round trip %q -> %q", text, got.ISO, again)
		}
		if !strings.HasSuffix(got.ISO, "Z") {
			t.Errorf("%q: ISO %q is not UTC", text, got.ISO)
		}
	}
}

func TestResolve_Display(t *testing.T) {
	r := newTestResolver()

	withTime := r.Resolve("2pm tmrw")
	if withTime.Display != "Thu 22 Oct at 2:00 PM" {
		t.Errorf("Display = %q", withTime.Display)
	}
	if !strings.Contains(withTime.Display, "PM") {
		t.Errorf("Display %q lacks AM/PM marker", withTime.Display)
	}

	dayOnly := r.Resolve("tomorrow")
	if strings.Contains(dayOnly.Display, ":") {
		t.Errorf("day-only Display %q contains a colon", dayOnly.Display)
	}
	if dayOnly.Display != "Thu 22 Oct" {
		t.Errorf("Display = %q, want Thu 22 Oct", dayOnly.Display)
	}

	nextYear := r.Resolve("2027-01-05")
	if nextYear.Display != "Tue 5 Jan 2027" {
		t.Errorf("Display = %q, want year for dates outside the current year", nextYear.Display)
	}

	midnight := r.Resolve("12am")
	if midnight.Display != "Wed 21 Oct at 12:00 AM" {
		t.Errorf("Display = %q", midnight.Display)
	}
}

func TestResolve_WeekdayIndex(t *testing.T) {
	r := newTestResolver()
	for text, want := range map[string]time.Weekday{
		"9am mon":   time.Monday,
		"tues":      time.Tuesday,
		"thursday":  time.Thursday,
		"sat 11am":  time.Saturday,
		"Sunday":    time.Sunday,
		"wednesday": time.Wednesday,
	} {
		at := mustParseISO(t, r.Resolve(text).ISO)
		if at.Weekday() != want {
			t.Errorf("%q resolved to %s, want %s", text, at.Weekday(), want)
		}
		if at.Before(fixedNow.Truncate(24 * time.Hour)) {
			t.Errorf("%q resolved to %s, before today", text, at)
		}
	}
}

func TestResolve_LocalZone(t *testing.T) {
	// 10:30 UTC is 21:30 on the same day at UTC+11.
	r := newTestResolver(WithLocation(time.FixedZone("AEDT", 11*60*60)))

	got := r.Resolve("2pm tmrw")
	if got.ISO != "2026-10-22T03:00:00.000Z" {
		t.Errorf("ISO = %q, want 2026-10-22T03:00:00.000Z", got.ISO)
	}
	if got.Display != "Thu 22 Oct at 2:00 PM" {
		t.Errorf("Display = %q", got.Display)
	}
}

func TestResolve_DefaultHourAndSlips(t *testing.T) {
	r := newTestResolver(WithDefaultHour(7), WithKeySlips(map[byte]string{'g': "t"}))

	if got := r.Resolve("tomorrow").ISO; got != "2026-10-22T07:00:00.000Z" {
		t.Errorf("ISO = %q, want default hour 7", got)
	}
	if got := r.Resolve("gmrw 1pm").ISO; got != "2026-10-22T13:00:00.000Z" {
		t.Errorf("ISO = %q, want custom slip to resolve", got)
	}
	if got := r.Resolve("ymrw 1pm").ISO; got != "2026-10-21T13:00:00.000Z" {
		t.Errorf("ISO = %q, want default slips replaced", got)
	}
}
