package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/amishk599/jobintake/internal/model"
	"github.com/amishk599/jobintake/internal/taxonomy"
)

// ISOLayout renders instants in UTC with millisecond precision. Parsing a
// string in this layout and formatting the result reproduces it byte for byte.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// DefaultDayOnlyHour is the local hour used when the text names no time.
const DefaultDayOnlyHour = 9

// minSlipLen is the shortest word the key-slip retry applies to. Three-letter
// words collide with ordinary shorthand ("rdy" is "ready", not "tdy").
const minSlipLen = 4

var (
	timeRe     = regexp.MustCompile(`\b(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)\b`)
	isoDateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dottedAMPM = strings.NewReplacer("a.m.", "am", "p.m.", "pm")
)

// ScheduleResolver turns short natural-language schedules ("2pm tmrw",
// "9am mon") into an absolute instant and a display string.
type ScheduleResolver struct {
	now         func() time.Time
	loc         *time.Location
	defaultHour int
	dayAliases  map[string]int
	keySlips    map[byte]string
}

// ScheduleOption configures a ScheduleResolver.
type ScheduleOption func(*ScheduleResolver)

// WithClock sets the time source. Defaults to time.Now.
func WithClock(now func() time.Time) ScheduleOption {
	return func(r *ScheduleResolver) { r.now = now }
}

// WithLocation sets the zone schedules are read in. Defaults to UTC.
func WithLocation(loc *time.Location) ScheduleOption {
	return func(r *ScheduleResolver) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithDefaultHour sets the local hour for day-only schedules.
func WithDefaultHour(hour int) ScheduleOption {
	return func(r *ScheduleResolver) {
		if hour >= 0 && hour <= 23 {
			r.defaultHour = hour
		}
	}
}

// WithKeySlips replaces the leading-key typo table.
func WithKeySlips(slips map[byte]string) ScheduleOption {
	return func(r *ScheduleResolver) { r.keySlips = slips }
}

// NewScheduleResolver returns a resolver with the given options applied.
func NewScheduleResolver(opts ...ScheduleOption) *ScheduleResolver {
	r := &ScheduleResolver{
		now:         time.Now,
		loc:         time.UTC,
		defaultHour: DefaultDayOnlyHour,
		dayAliases:  taxonomy.DayAliases,
		keySlips:    taxonomy.KeySlips,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails. Text with no recognisable day is read as today, and
// text with no recognisable time yields a day-only schedule at the default
// hour whose display carries no time of day.
func (r *ScheduleResolver) Resolve(text string) model.ScheduleResolution {
	at, hasTime := r.resolve(text)

	display := at.Format("Mon 2 Jan")
	if at.Year() != r.now().In(r.loc).Year() {
		display = at.Format("Mon 2 Jan 2006")
	}
	if hasTime {
		display += " at " + at.Format("3:04 PM")
	}

	return model.ScheduleResolution{
		ISO:     at.UTC().Format(ISOLayout),
		Display: display,
		AllDay:  !hasTime,
	}
}

func (r *ScheduleResolver) resolve(text string) (time.Time, bool) {
	s := dottedAMPM.Replace(strings.ToLower(norm.NFKC.String(text)))

	today := r.now().In(r.loc)
	year, month, day := today.Date()
	if y, m, d, ok := r.findDay(s, today); ok {
		year, month, day = y, m, d
	}

	hour, minute, hasTime := findTime(s)
	if !hasTime {
		hour, minute = r.defaultHour, 0
	}
	return time.Date(year, month, day, hour, minute, 0, 0, r.loc), hasTime
}

// findDay returns the date named by the first day token in s.
func (r *ScheduleResolver) findDay(s string, today time.Time) (int, time.Month, int, bool) {
	words := strings.FieldsFunc(s, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-'
	})
	for i, w := range words {
		if isoDateRe.MatchString(w) {
			d, err := time.ParseInLocation("2006-01-02", w, r.loc)
			if err == nil {
				return d.Year(), d.Month(), d.Day(), true
			}
			continue
		}
		if offset, ok := r.dayOffset(w); ok {
			d := today.AddDate(0, 0, offset)
			return d.Year(), d.Month(), d.Day(), true
		}
		if wd, ok := taxonomy.Weekdays[w]; ok {
			diff := (int(wd) - int(today.Weekday()) + 7) % 7
			if diff == 0 && i > 0 && words[i-1] == "next" {
				diff = 7
			}
			d := today.AddDate(0, 0, diff)
			return d.Year(), d.Month(), d.Day(), true
		}
	}
	return 0, 0, 0, false
}

// dayOffset looks w up in the alias table, then retries with its leading key
// swapped for each keyboard neighbour it may have slipped from. Only words of
// minSlipLen or more are retried.
func (r *ScheduleResolver) dayOffset(w string) (int, bool) {
	if off, ok := r.dayAliases[w]; ok {
		return off, true
	}
	if len(w) < minSlipLen {
		return 0, false
	}
	for _, intended := range []byte(r.keySlips[w[0]]) {
		if off, ok := r.dayAliases[string(intended)+w[1:]]; ok {
			return off, true
		}
	}
	return 0, false
}

// findTime returns the first valid 12-hour time in s, or noon/midnight.
func findTime(s string) (hour, minute int, ok bool) {
	for _, m := range timeRe.FindAllStringSubmatch(s, -1) {
		h, _ := strconv.Atoi(m[1])
		mins := 0
		if m[2] != "" {
			mins, _ = strconv.Atoi(m[2])
		}
		if h < 1 || h > 12 || mins > 59 {
			continue
		}
		h %= 12
		if m[3] == "pm" {
			h += 12
		}
		return h, mins, true
	}
	for _, w := range strings.Fields(s) {
		switch strings.Trim(w, ".,!?") {
		case "noon", "midday":
			return 12, 0, true
		case "midnight":
			return 0, 0, true
		}
	}
	return 0, 0, false
}
