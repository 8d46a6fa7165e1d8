package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/obitsync/obitsync/app/config"
	"github.com/obitsync/obitsync/app/database"
)

const maxDetailNameLen = 120

// Scraper drives one source end to end: listing fetch, candidate
// extraction, rate-limited detail fetches and record assembly.
type Scraper struct {
	client    *Client
	extractor *Extractor

	// sleep is swappable in tests.
	sleep func(time.Duration)
}

func NewScraper(client *Client) *Scraper {
	return &Scraper{
		client:    client,
		extractor: NewExtractor(),
		sleep:     time.Sleep,
	}
}

// Run scrapes one source. An error is returned only for a total source
// failure (listing unreachable or unparseable); per-item detail failures
// degrade to listing-derived fields and never drop the item.
func (s *Scraper) Run(ctx context.Context, src *config.SourceConfig) ([]database.Obituary, error) {
	scraper := src.Scraper

	listingHTML, err := s.client.Fetch(ctx, src.URL, scraper.GetTimeout())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing URL: %w", err)
	}

	candidates := AdapterFor(src).ParseListing(doc, base)
	slog.Debug("Listing parsed", "source", src.Name, "candidates", len(candidates))

	records := make([]database.Obituary, 0, len(candidates))
	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		// Throttle before, not after, each detail fetch.
		s.sleep(scraper.GetRateLimit())

		record := database.Obituary{
			RecordID:    candidate.URL,
			Name:        candidate.Name,
			PublishedAt: candidate.Published,
			State:       src.State,
			Source:      src.Name,
			SourceURL:   candidate.URL,
		}

		detailHTML, err := s.client.Fetch(ctx, candidate.URL, scraper.GetTimeout())
		if err != nil {
			slog.Warn("Detail fetch failed, keeping listing fields",
				"source", src.Name, "url", candidate.URL, "error", err)
			records = append(records, record)
			continue
		}

		s.enrichFromDetail(&record, detailHTML, candidate.URL, scraper)
		records = append(records, record)
	}

	return records, nil
}

// enrichFromDetail merges detail-page fields into a listing-derived
// record.
func (s *Scraper) enrichFromDetail(record *database.Obituary, html, pageURL string, scraper *config.ScraperConfig) {
	details := s.extractor.Run(html, pageURL, scraper.Detail, record.State)
	record.Snippet = details.Snippet
	record.ImageURL = details.ImageURL
	if details.City != "" {
		record.City = details.City
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}

	if scraper.Detail.NameSelector != "" {
		detailName := CleanName(doc.Find(scraper.Detail.NameSelector).First().Text())
		if IsViableName(detailName) && len(detailName) <= maxDetailNameLen {
			record.Name = detailName
		}
	}

	if record.DateOfDeath == nil {
		record.DateOfDeath = NormalizeDate(details.Snippet)
	}

	if record.PublishedAt == nil {
		doc.Find("time").EachWithBreak(func(_ int, el *goquery.Selection) bool {
			raw := el.AttrOr("datetime", "")
			if raw == "" {
				raw = el.Text()
			}
			if t := NormalizeDate(raw); t != nil {
				record.PublishedAt = t
				return false
			}
			return true
		})
	}
}
