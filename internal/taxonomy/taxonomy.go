// Package taxonomy holds the static lookup tables used by the intake normalizers.
// Everything here is plain ordered data; adding a trade or an abbreviation is
// an edit to a table, never to control flow.
package taxonomy

import (
	"strings"
	"time"
)

// GeneralLabel is the catch-all category. It is always the last table entry.
const GeneralLabel = "General"

// Category is one entry in the work taxonomy.
type Category struct {
	Label    string
	Keywords []string // lowercase substrings; empty only for the catch-all
}

// Categories is the ordered work taxonomy. First match wins, so more specific
// trades sit above broader ones.
var Categories = []Category{
	{Label: "Plumbing", Keywords: []string{"plumb", "leak", "pipe", "drain", "toilet", "sink", "tap", "faucet", "hot water", "gas fitting", "shower", "blocked"}},
	{Label: "Electrical", Keywords: []string{"electric", "light", "wiring", "rewire", "power point", "powerpoint", "outlet", "switchboard", "fuse box", "socket", "smoke alarm"}},
	{Label: "Heating & Cooling", Keywords: []string{"hvac", "air con", "aircon", "air-con", "heater", "heating", "furnace", "split system", "evaporative", "heat pump"}},
	{Label: "Roofing", Keywords: []string{"roof", "gutter", "downpipe", "flashing", "skylight"}},
	{Label: "Carpentry", Keywords: []string{"carpent", "deck", "cabinet", "door", "shelv", "timber", "joinery", "skirting", "pergola"}},
	{Label: "Painting", Keywords: []string{"paint", "plaster", "render", "wallpaper"}},
	{Label: "Tiling", Keywords: []string{"tile", "tiling", "grout", "splashback"}},
	{Label: "Landscaping", Keywords: []string{"garden", "lawn", "mow", "hedge", "tree", "landscap", "turf", "mulch", "yard"}},
	{Label: "Fencing", Keywords: []string{"fence", "fencing", "gate", "retaining wall"}},
	{Label: "Cleaning", Keywords: []string{"clean", "pressure wash", "window wash", "carpet steam"}},
	{Label: "Pest Control", Keywords: []string{"pest", "termite", "rodent", "cockroach", "spider", "possum"}},
	{Label: "Locksmith", Keywords: []string{"locksmith", "lockout", "locked out", "rekey", "deadbolt"}},
	{Label: "Appliance Repair", Keywords: []string{"appliance", "dishwasher", "washing machine", "dryer", "oven", "fridge", "refrigerator"}},
	{Label: GeneralLabel},
}

// StreetAbbreviations maps a lowercase whole-word street-type token to its
// canonical expansion.
var StreetAbbreviations = map[string]string{
	"st":   "Street",
	"str":  "Street",
	"ave":  "Avenue",
	"av":   "Avenue",
	"rd":   "Road",
	"dr":   "Drive",
	"cres": "Crescent",
	"cr":   "Crescent",
	"blvd": "Boulevard",
	"ln":   "Lane",
	"ct":   "Court",
	"crt":  "Court",
	"pl":   "Place",
	"tce":  "Terrace",
	"pde":  "Parade",
	"hwy":  "Highway",
	"cct":  "Circuit",
	"cl":   "Close",
	"gr":   "Grove",
	"sq":   "Square",
	"wy":   "Way",
	"esp":  "Esplanade",
}

// DayAliases maps relative-day words to an offset in days from today.
var DayAliases = map[string]int{
	"today":    0,
	"tonight":  0,
	"tdy":      0,
	"tomorrow": 1,
	"tomorow":  1,
	"tmrw":     1,
	"tmr":      1,
	"tmw":      1,
	"tmrow":    1,
	"2moro":    1,
}

// KeySlips maps a typed leading key to the keys it commonly stands in for.
// Entries are keyboard neighbours: y and r sit either side of t, so "ymrw"
// and "rmrw" are read as "tmrw".
var KeySlips = map[byte]string{
	'y': "t",
	'r': "t",
}

// Weekdays maps full, short and common variant weekday names.
var Weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "weds": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// MetaInstructions are phrases that address the assistant rather than describe
// work. A nameless candidate built from one of these is boilerplate.
var MetaInstructions = []string{
	"create these jobs",
	"create the following",
	"log the following",
	"log these jobs",
	"add these jobs",
	"add the following",
	"please create",
	"new jobs below",
}

// WithExtras returns a copy of base with extra categories inserted before the
// catch-all. Labels already present in base are skipped. The catch-all is
// appended if base lacks one.
func WithExtras(base []Category, extra []Category) []Category {
	seen := make(map[string]bool, len(base))
	out := make([]Category, 0, len(base)+len(extra)+1)
	for _, c := range base {
		if c.Label == GeneralLabel {
			continue
		}
		seen[strings.ToLower(c.Label)] = true
		out = append(out, c)
	}
	for _, c := range extra {
		if c.Label == "" || len(c.Keywords) == 0 || seen[strings.ToLower(c.Label)] {
			continue
		}
		seen[strings.ToLower(c.Label)] = true
		kws := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		if len(kws) == 0 {
			continue
		}
		out = append(out, Category{Label: c.Label, Keywords: kws})
	}
	return append(out, Category{Label: GeneralLabel})
}

// MergeAbbreviations returns base plus extra, with keys lowercased. Extra wins.
func MergeAbbreviations(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
