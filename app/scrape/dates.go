package scrape

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Dates before this year are treated as parser artifacts (garbage strings
// resolving to epoch or year zero).
const minSaneYear = 1900

var (
	isoDatePattern   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	looseDatePattern = regexp.MustCompile(`(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+\d{1,2},?\s+\d{4}`)

	// Phrases that commonly precede a date of death in obituary text.
	deathTriggers = []string{"died on", "passed away on", "passed away", "passed"}
)

// NormalizeDate converts a heterogeneous date string into a timestamp.
// It never fails: unparseable input yields nil. Candidates are tried in
// priority order and each must parse and land after 1900 to win.
func NormalizeDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if t := parseCandidate(s); t != nil {
		return t
	}

	if m := isoDatePattern.FindString(s); m != "" {
		if t := parseCandidate(m); t != nil {
			return t
		}
	}

	lower := strings.ToLower(s)
	for _, trigger := range deathTriggers {
		idx := strings.Index(lower, trigger)
		if idx < 0 {
			continue
		}
		tail := s[idx+len(trigger):]
		if m := looseDatePattern.FindString(tail); m != "" {
			if t := parseCandidate(m); t != nil {
				return t
			}
		}
	}

	if m := looseDatePattern.FindString(s); m != "" {
		if t := parseCandidate(m); t != nil {
			return t
		}
	}

	return nil
}

// parseCandidate parses a single candidate string, applying the sanity
// bound to reject artifacts.
func parseCandidate(s string) *time.Time {
	if t, err := dateparse.ParseAny(s); err == nil && t.Year() > minSaneYear {
		return &t
	}

	layouts := []string{"January 2, 2006", "Jan 2, 2006", "Jan. 2, 2006", "January 2 2006"}
	cleaned := strings.Join(strings.Fields(s), " ")
	for _, layout := range layouts {
		if t, err := time.Parse(layout, cleaned); err == nil && t.Year() > minSaneYear {
			return &t
		}
	}

	return nil
}
