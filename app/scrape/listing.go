package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/obitsync/obitsync/app/config"
)

const minNameLen = 4

// Navigational and archive link shapes that are never obituary detail
// pages, regardless of what the configured selector matches.
var excludedURLParts = []string{
	"/category/",
	"/tag/",
	"/page/",
	"/author/",
	"/search",
	"?s=",
}

var genericNames = map[string]bool{
	"obituary":   true,
	"obituaries": true,
	"view":       true,
	"read more":  true,
	"click here": true,
	"learn more": true,
	"details":    true,
}

var namePrefixes = []string{"obituary -", "obituary:", "obituary for", "in memory of"}

// urlValidator applies a source's URL acceptance rules plus the fixed
// exclusion list.
type urlValidator struct {
	contains string
	pattern  *regexp.Regexp
}

func newURLValidator(rules config.URLRules) *urlValidator {
	v := &urlValidator{contains: rules.Contains}
	if rules.Pattern != "" {
		// Invalid patterns are rejected at config load time.
		v.pattern = regexp.MustCompile(rules.Pattern)
	}
	return v
}

func (v *urlValidator) acceptable(absolute string) bool {
	if absolute == "" {
		return false
	}

	parsed, err := url.Parse(absolute)
	if err != nil || parsed.Host == "" {
		return false
	}

	lower := strings.ToLower(absolute)
	for _, part := range excludedURLParts {
		if strings.Contains(lower, part) {
			return false
		}
	}

	if v.contains != "" && !strings.Contains(lower, strings.ToLower(v.contains)) {
		return false
	}
	if v.pattern != nil && !v.pattern.MatchString(absolute) {
		return false
	}

	return true
}

// CleanName strips boilerplate prefixes and stray punctuation from a
// candidate name.
func CleanName(raw string) string {
	name := strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))

	lower := strings.ToLower(name)
	for _, prefix := range namePrefixes {
		if strings.HasPrefix(lower, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			lower = strings.ToLower(name)
		}
	}

	return strings.Trim(name, " -–|:,.")
}

// IsViableName rejects empty, too-short and known-generic link texts
// that are not a real person's name.
func IsViableName(name string) bool {
	if len(name) < minNameLen {
		return false
	}
	return !genericNames[strings.ToLower(name)]
}

// ConfigAdapter is the declarative listing parser driven by a source's
// scraper configuration.
type ConfigAdapter struct {
	cfg   *config.ScraperConfig
	rules *urlValidator
}

func NewConfigAdapter(src *config.SourceConfig) *ConfigAdapter {
	scraper := src.Scraper
	if scraper == nil {
		scraper = &config.ScraperConfig{}
	}
	return &ConfigAdapter{
		cfg:   scraper,
		rules: newURLValidator(scraper.URLRules),
	}
}

// ParseListing extracts obituary candidates from a listing document,
// deduplicated by URL and capped at the source's max items.
func (a *ConfigAdapter) ParseListing(doc *goquery.Document, base *url.URL) []Candidate {
	selector := a.cfg.ListingSelector
	if selector == "" {
		return nil
	}

	var candidates []Candidate
	seen := make(map[string]bool)

	doc.Find(selector).Each(func(_ int, el *goquery.Selection) {
		href := a.resolveHref(el)
		// Fragment-only links point back at the listing page itself.
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		absolute := resolveURL(base, href)
		if !a.rules.acceptable(absolute) || seen[absolute] {
			return
		}

		name := a.extractName(el)
		if !IsViableName(name) {
			return
		}

		candidate := Candidate{URL: absolute, Name: name}
		if a.cfg.DateSelector != "" {
			if dateText := strings.TrimSpace(el.Find(a.cfg.DateSelector).First().Text()); dateText != "" {
				candidate.Published = NormalizeDate(dateText)
			}
		}

		seen[absolute] = true
		candidates = append(candidates, candidate)
	})

	if a.cfg.MaxItems > 0 && len(candidates) > a.cfg.MaxItems {
		candidates = candidates[:a.cfg.MaxItems]
	}

	return candidates
}

// resolveHref finds the anchor URL for a matched element: the element
// itself when it is an anchor, else the first descendant anchor.
func (a *ConfigAdapter) resolveHref(el *goquery.Selection) string {
	if href, ok := el.Attr("href"); ok {
		return href
	}
	return el.Find("a[href]").First().AttrOr("href", "")
}

// extractName looks in the configured name selector within the element,
// then within the nearest article-like ancestor, then falls back to the
// element's own text.
func (a *ConfigAdapter) extractName(el *goquery.Selection) string {
	if a.cfg.NameSelector != "" {
		if text := el.Find(a.cfg.NameSelector).First().Text(); strings.TrimSpace(text) != "" {
			return CleanName(text)
		}
		ancestor := el.Closest("article, .entry, .post")
		if ancestor.Length() > 0 {
			if text := ancestor.Find(a.cfg.NameSelector).First().Text(); strings.TrimSpace(text) != "" {
				return CleanName(text)
			}
		}
	}
	return CleanName(el.Text())
}
