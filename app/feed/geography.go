package feed

import (
	"regexp"
	"strings"

	"github.com/obitsync/obitsync/app/config"
)

// sourceStateTable maps legacy source keys to their state. Sources that
// predate per-source state configuration rely on it; a state set on the
// source config always wins.
var sourceStateTable = map[string]string{
	"jewishlink":          "NJ",
	"jewishstandard":      "NJ",
	"5tjt":                "NY",
	"yeshivaworld":        "NY",
	"baltimorejewishlife": "MD",
	"clevelandjewishnews": "OH",
	"stljewishlight":      "MO",
}

var cityStatePattern = regexp.MustCompile(`([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*),\s+([A-Z]{2})\b`)

// ResolveGeography returns the state and city for a feed item. First
// non-empty wins: explicit source state, static key lookup, then a
// "City, ST" pattern in the item text.
func ResolveGeography(src *config.SourceConfig, title, description string) (state, city string) {
	state = src.State
	if state == "" {
		state = sourceStateTable[strings.ToLower(src.Key)]
	}

	if m := cityStatePattern.FindStringSubmatch(title + " " + description); m != nil {
		city = m[1]
		if state == "" {
			state = m[2]
		}
	}

	return state, city
}
