package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"

	"github.com/obitsync/obitsync/app/config"
	"github.com/obitsync/obitsync/app/database"
	"github.com/obitsync/obitsync/app/scrape"
)

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	// Boilerplate "Source: ..." attribution some feeds append to every
	// description.
	sourceSuffixPattern = regexp.MustCompile(`\s*Source:\s+\S.*$`)
)

// Ingestor runs the feed ingestion path for one source: fetch, parse,
// classify, normalize.
type Ingestor struct {
	client *scrape.Client
	parser *Parser
}

func NewIngestor(client *scrape.Client) *Ingestor {
	return &Ingestor{
		client: client,
		parser: NewParser(),
	}
}

// Run fetches and parses one feed source, returning the accepted,
// normalized records. An error means the feed was entirely unusable.
func (i *Ingestor) Run(ctx context.Context, src *config.SourceConfig) ([]database.Obituary, error) {
	body, err := i.client.Fetch(ctx, src.URL, scrape.DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	_, items, err := i.parser.Run([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	classifier := NewClassifier(src.Keywords)
	dedicated := src.IsDedicated()

	records := make([]database.Obituary, 0, len(items))
	accepted, rejected := 0, 0
	for _, item := range items {
		if !dedicated && !classifier.IsObituary(item.Title, item.Description) {
			rejected++
			continue
		}

		record, ok := BuildRecord(src, item)
		if !ok {
			rejected++
			continue
		}

		records = append(records, record)
		accepted++
	}

	slog.Debug("Feed processed", "source", src.Name, "items", len(items),
		"accepted", accepted, "rejected", rejected)

	return records, nil
}

// BuildRecord maps a feed item onto the normalized record shape. The
// second return is false when the item lacks a usable name.
func BuildRecord(src *config.SourceConfig, item Item) (database.Obituary, bool) {
	name := scrape.CleanName(item.Title)
	if !scrape.IsViableName(name) {
		return database.Obituary{}, false
	}

	identity := item.GUID
	if identity == "" {
		identity = item.Link
	}
	if identity == "" {
		return database.Obituary{}, false
	}

	state, city := ResolveGeography(src, item.Title, item.Description)

	return database.Obituary{
		RecordID:    "rss-" + url.QueryEscape(identity),
		Name:        name,
		PublishedAt: item.PublishedAt,
		City:        city,
		State:       state,
		Source:      src.Name,
		SourceURL:   item.Link,
		Snippet:     buildFeedSnippet(item.Description),
	}, true
}

// buildFeedSnippet strips markup and attribution boilerplate from a feed
// description and truncates it for preview display.
func buildFeedSnippet(description string) string {
	text := htmlTagPattern.ReplaceAllString(description, " ")
	text = sourceSuffixPattern.ReplaceAllString(text, "")
	return scrape.BuildSnippet(text, scrape.SnippetMaxLen)
}
