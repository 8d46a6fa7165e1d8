package config

import "strings"

// Source types
const (
	TypeScrape = "scrape"
	TypeFeed   = "feed"
)

// SourceConfig describes one ingestion target, either a scraped website
// or an RSS/Atom feed.
type SourceConfig struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Key   string `yaml:"key"`
	URL   string `yaml:"url"`
	State string `yaml:"state"`

	// Enabled is the current activation flag; Active is the legacy one.
	// Either being true activates the source.
	Enabled bool `yaml:"enabled"`
	Active  bool `yaml:"active"`

	// Feed-only settings
	Dedicated bool     `yaml:"dedicated"` // dedicated obituary feed, bypasses the classifier
	Keywords  []string `yaml:"keywords"`  // overrides the default classifier keyword list

	// Scrape-only settings
	Scraper *ScraperConfig `yaml:"scraper"`
}

// ScraperConfig drives the generic config-based listing/detail parser.
type ScraperConfig struct {
	Platform        string          `yaml:"platform"`
	ListingSelector string          `yaml:"listing_selector"`
	NameSelector    string          `yaml:"name_selector"`
	DateSelector    string          `yaml:"date_selector"`
	Detail          DetailSelectors `yaml:"detail"`
	URLRules        URLRules        `yaml:"url_rules"`
	RateLimitMs     int             `yaml:"rate_limit_ms"`
	MaxItems        int             `yaml:"max_items"`
	Timeout         int             `yaml:"timeout"` // seconds
}

// DetailSelectors locate fields on an obituary detail page.
type DetailSelectors struct {
	NameSelector    string `yaml:"name_selector"`
	ContentSelector string `yaml:"content_selector"`
	ImageSelector   string `yaml:"image_selector"`
}

// URLRules validate candidate links discovered on a listing page.
type URLRules struct {
	Contains string `yaml:"contains"`
	Pattern  string `yaml:"pattern"`
}

// IsActive reports whether the source should be included in a sync run.
func (s *SourceConfig) IsActive() bool {
	return s.Enabled || s.Active
}

// IsRunnable reports whether a scrape source carries enough configuration
// to be attempted. A non-runnable source is skipped, never failed.
func (s *SourceConfig) IsRunnable() bool {
	if s.Type == TypeFeed {
		return s.URL != ""
	}
	return s.URL != "" && s.Scraper != nil && s.Scraper.ListingSelector != ""
}

// IsDedicated reports whether a feed source carries only obituaries, in
// which case the keyword classifier is bypassed.
func (s *SourceConfig) IsDedicated() bool {
	if s.Dedicated {
		return true
	}
	key := strings.ToLower(s.Key)
	return strings.Contains(key, "obit") || strings.Contains(key, "funeral")
}
