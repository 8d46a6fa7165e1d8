package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Parser wraps gofeed with the pre-processing some obituary feeds need:
// whole-document HTML-entity encoding and entity references embedded in
// text fields.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw feed XML into channel metadata and normalized items.
func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	data = preDecode(data)

	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       decodeEntities(parsed.Title),
		Link:        stripEmbeddedWhitespace(parsed.Link),
		Description: decodeEntities(parsed.Description),
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, raw := range parsed.Items {
		item := p.normalizeItem(raw)
		if item.Title == "" && item.Link == "" {
			continue
		}
		items = append(items, item)
	}

	return metadata, items, nil
}

func (p *Parser) normalizeItem(raw *gofeed.Item) Item {
	item := Item{
		Title:       decodeEntities(raw.Title),
		Link:        stripEmbeddedWhitespace(raw.Link),
		Description: decodeEntities(raw.Description),
		Content:     decodeEntities(raw.Content),
	}

	item.GUID = stripEmbeddedWhitespace(cmp.Or(raw.GUID, raw.Link))

	// content:encoded serves as the body when description is absent.
	if item.Description == "" {
		item.Description = item.Content
	}

	if raw.PublishedParsed != nil {
		item.PublishedAt = raw.PublishedParsed
	} else if raw.UpdatedParsed != nil {
		item.PublishedAt = raw.UpdatedParsed
	}

	return item
}

// preDecode handles feeds served with the entire XML document
// HTML-entity-encoded. Only documents that open with an encoded tag are
// decoded, so escaped markup inside a normal feed's text is untouched.
func preDecode(data []byte) []byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n\uFEFF")
	if !bytes.HasPrefix(trimmed, []byte("&lt;")) {
		return data
	}

	replacer := strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
		"&amp;", "&",
	)
	return []byte(replacer.Replace(string(trimmed)))
}

// decodeEntities resolves named entities and numeric character
// references (decimal and hex) left in text fields, then trims.
func decodeEntities(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

// stripEmbeddedWhitespace normalizes link and GUID values that arrive
// split across lines inside CDATA blocks.
func stripEmbeddedWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
