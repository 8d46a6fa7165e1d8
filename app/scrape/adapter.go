package scrape

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/obitsync/obitsync/app/config"
)

// Candidate is one obituary link discovered on a listing page, with the
// minimal metadata derivable from the listing itself.
type Candidate struct {
	URL       string
	Name      string
	Published *time.Time
}

// SiteAdapter turns a listing page into obituary candidates. The
// declarative ConfigAdapter covers most sites; platforms whose markup
// defies selectors register a procedural adapter under their platform
// name.
type SiteAdapter interface {
	ParseListing(doc *goquery.Document, base *url.URL) []Candidate
}

type adapterFactory func(src *config.SourceConfig) SiteAdapter

var adapterRegistry = map[string]adapterFactory{}

// RegisterAdapter installs a procedural adapter for a platform name.
func RegisterAdapter(platform string, factory adapterFactory) {
	adapterRegistry[platform] = factory
}

// AdapterFor selects the adapter for a source: a registered procedural
// one when the platform has one, the config-driven parser otherwise.
func AdapterFor(src *config.SourceConfig) SiteAdapter {
	if src.Scraper != nil {
		if factory, ok := adapterRegistry[src.Scraper.Platform]; ok {
			return factory(src)
		}
	}
	return NewConfigAdapter(src)
}

func init() {
	// Plain anchor scan for sites whose listings are bare link walls
	// with no usable container markup.
	RegisterAdapter("anchorscan", func(src *config.SourceConfig) SiteAdapter {
		return &anchorScanAdapter{rules: newURLValidator(src.Scraper.URLRules), maxItems: src.Scraper.MaxItems}
	})
}

// anchorScanAdapter scans every anchor on the page and keeps those whose
// href passes the source's URL rules, using the anchor text as the name.
type anchorScanAdapter struct {
	rules    *urlValidator
	maxItems int
}

func (a *anchorScanAdapter) ParseListing(doc *goquery.Document, base *url.URL) []Candidate {
	var candidates []Candidate
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href := anchor.AttrOr("href", "")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		absolute := resolveURL(base, href)
		if absolute == "" || !a.rules.acceptable(absolute) || seen[absolute] {
			return
		}

		name := CleanName(anchor.Text())
		if !IsViableName(name) {
			return
		}

		seen[absolute] = true
		candidates = append(candidates, Candidate{URL: absolute, Name: name})
	})

	if a.maxItems > 0 && len(candidates) > a.maxItems {
		candidates = candidates[:a.maxItems]
	}
	return candidates
}
