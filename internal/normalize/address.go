package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/amishk599/jobintake/internal/taxonomy"
)

// NoAddressSentinel is passed through untouched by the enricher.
const NoAddressSentinel = "No address provided"

// AddressEnricher canonicalises free-form street addresses.
type AddressEnricher struct {
	abbreviations map[string]string
	streetTypes   map[string]bool // lowercase expansions
}

// NewAddressEnricher returns an enricher over abbreviations. A nil map falls
// back to taxonomy.StreetAbbreviations.
func NewAddressEnricher(abbreviations map[string]string) *AddressEnricher {
	if abbreviations == nil {
		abbreviations = taxonomy.StreetAbbreviations
	}
	types := make(map[string]bool, len(abbreviations))
	for _, full := range abbreviations {
		types[strings.ToLower(full)] = true
	}
	return &AddressEnricher{abbreviations: abbreviations, streetTypes: types}
}

var defaultEnricher = NewAddressEnricher(nil)

// EnrichAddress canonicalises addr with the default abbreviation table.
func EnrichAddress(addr string) string {
	return defaultEnricher.Enrich(addr)
}

// Enrich expands the street-type abbreviation, title-cases every word and
// separates the street from the trailing locality with a comma:
//
//	"12 smith st richmond" -> "12 Smith Street, Richmond"
//
// The street type is the first abbreviation that follows a street-name word,
// so "St Kilda Rd" and "12 Dr. Smith St" keep their leading abbreviation.
// Locality words keep theirs too. Input that already has commas is
// re-spaced, never re-split. Enrich is idempotent.
func (e *AddressEnricher) Enrich(addr string) string {
	if addr == "" || addr == NoAddressSentinel {
		return addr
	}
	s := strings.TrimSpace(norm.NFC.String(addr))

	var segments [][]string
	for _, part := range strings.Split(s, ",") {
		if words := strings.Fields(part); len(words) > 0 {
			segments = append(segments, words)
		}
	}
	switch len(segments) {
	case 0:
		return ""
	case 1:
		words := segments[0]
		i := e.streetTypeIndex(words)
		if i < 0 {
			return TitleCase(strings.Join(words, " "))
		}
		words[i] = e.abbreviations[abbrevKey(words[i])]
		street := TitleCase(strings.Join(words[:i+1], " "))
		if i == len(words)-1 {
			return street
		}
		return street + ", " + TitleCase(strings.Join(words[i+1:], " "))
	}

	if i := e.streetTypeIndex(segments[0]); i >= 0 {
		segments[0][i] = e.abbreviations[abbrevKey(segments[0][i])]
	}
	out := make([]string, len(segments))
	for i, words := range segments {
		out[i] = TitleCase(strings.Join(words, " "))
	}
	return strings.Join(out, ", ")
}

// streetTypeIndex returns the index of the first abbreviation whose previous
// word is a street name: not a number, not a street type. -1 if none.
func (e *AddressEnricher) streetTypeIndex(words []string) int {
	for i := 1; i < len(words); i++ {
		if _, ok := e.abbreviations[abbrevKey(words[i])]; !ok {
			continue
		}
		if e.isNameWord(words[i-1]) {
			return i
		}
	}
	return -1
}

func (e *AddressEnricher) isNameWord(w string) bool {
	if strings.ContainsAny(w, "0123456789") {
		return false
	}
	key := abbrevKey(w)
	if _, ok := e.abbreviations[key]; ok {
		return false
	}
	return !e.streetTypes[key]
}

// abbrevKey normalises a word for table lookup, ignoring case and a trailing
// period.
func abbrevKey(word string) string {
	return strings.ToLower(strings.TrimSuffix(word, "."))
}
