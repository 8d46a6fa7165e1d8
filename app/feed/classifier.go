package feed

import "strings"

// DefaultKeywords is the obituary-indicative phrase list applied to
// mixed-news feeds. It is a tunable policy, not an authoritative set;
// per-source config may replace it wholesale.
var DefaultKeywords = []string{
	"passed away",
	"in loving memory",
	"survived by",
	`z"l`,
	"shiva",
	"obituary",
	"of blessed memory",
	"funeral",
	"levaya",
	"rest in peace",
	"condolences",
	"predeceased",
	"interment",
}

// Classifier decides whether a mixed-feed item looks like an obituary.
type Classifier struct {
	keywords []string
}

func NewClassifier(keywords []string) *Classifier {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return &Classifier{keywords: lowered}
}

// IsObituary reports whether the combined title and description contain
// at least one obituary-indicative phrase.
func (c *Classifier) IsObituary(title, description string) bool {
	haystack := strings.ToLower(title + " " + description)
	for _, kw := range c.keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
