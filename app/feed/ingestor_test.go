package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/obitsync/obitsync/app/config"
	"github.com/obitsync/obitsync/app/scrape"
)

func TestBuildRecord_SynthesizedIdentity(t *testing.T) {
	src := &config.SourceConfig{Name: "Community News", Key: "communitynews"}
	item := Item{
		GUID:  "https://example.com/news/jane-doe?id=42",
		Title: "Jane Doe",
		Link:  "https://example.com/news/jane-doe",
	}

	record, ok := BuildRecord(src, item)
	if !ok {
		t.Fatal("Expected viable record")
	}

	want := "rss-https%3A%2F%2Fexample.com%2Fnews%2Fjane-doe%3Fid%3D42"
	if record.RecordID != want {
		t.Errorf("Expected %q, got %q", want, record.RecordID)
	}
	if record.SourceURL != item.Link {
		t.Errorf("Expected source URL from link, got %q", record.SourceURL)
	}
}

func TestBuildRecord_IdentityStableAcrossRuns(t *testing.T) {
	src := &config.SourceConfig{Name: "Community News"}
	item := Item{GUID: "guid-1", Title: "Jane Doe", Link: "https://example.com/x"}

	first, _ := BuildRecord(src, item)
	second, _ := BuildRecord(src, item)
	if first.RecordID != second.RecordID {
		t.Errorf("Record identity must be stable: %q vs %q", first.RecordID, second.RecordID)
	}
}

func TestBuildRecord_RejectsGenericName(t *testing.T) {
	src := &config.SourceConfig{Name: "Community News"}
	item := Item{GUID: "guid-1", Title: "Obituary", Link: "https://example.com/x"}

	if _, ok := BuildRecord(src, item); ok {
		t.Error("Generic title must not become a record name")
	}
}

func TestBuildRecord_SnippetStripping(t *testing.T) {
	src := &config.SourceConfig{Name: "Community News"}
	item := Item{
		GUID:  "guid-1",
		Title: "Jane Doe",
		Link:  "https://example.com/x",
		Description: "<p>In   loving memory of <b>Jane Doe</b>, who passed away.</p> " +
			"Source: Community News Wire",
	}

	record, ok := BuildRecord(src, item)
	if !ok {
		t.Fatal("Expected viable record")
	}
	if strings.Contains(record.Snippet, "<") {
		t.Errorf("Expected HTML stripped from snippet, got %q", record.Snippet)
	}
	if strings.Contains(record.Snippet, "Source:") {
		t.Errorf("Expected attribution boilerplate removed, got %q", record.Snippet)
	}
	if strings.Contains(record.Snippet, "  ") {
		t.Errorf("Expected whitespace collapsed, got %q", record.Snippet)
	}
}

func TestBuildRecord_SnippetBound(t *testing.T) {
	src := &config.SourceConfig{Name: "Community News"}
	item := Item{
		GUID:        "guid-1",
		Title:       "Jane Doe",
		Link:        "https://example.com/x",
		Description: strings.Repeat("In loving memory of a wonderful person ", 50),
	}

	record, _ := BuildRecord(src, item)
	if len(record.Snippet) > scrape.SnippetMaxLen {
		t.Errorf("Snippet length %d exceeds max %d", len(record.Snippet), scrape.SnippetMaxLen)
	}
}

func TestIngestor_Run_MixedFeedFiltered(t *testing.T) {
	feedXML := `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Community News</title>
<item>
<title>Jane Doe</title>
<link>https://example.com/news/jane-doe</link>
<description>She passed away peacefully surrounded by family.</description>
<pubDate>Mon, 15 Jan 2024 12:00:00 GMT</pubDate>
</item>
<item>
<title>Town Council Meeting Notes</title>
<link>https://example.com/news/council</link>
<description>Agenda items for the monthly meeting.</description>
</item>
</channel></rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedXML))
	}))
	defer server.Close()

	src := &config.SourceConfig{
		Name:    "Community News",
		Type:    config.TypeFeed,
		Key:     "communitynews",
		URL:     server.URL,
		State:   "NJ",
		Enabled: true,
	}

	records, err := NewIngestor(scrape.NewClient("obitsync-test/1.0")).Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record after classification, got %d", len(records))
	}

	record := records[0]
	if record.Name != "Jane Doe" {
		t.Errorf("Unexpected name: %q", record.Name)
	}
	if record.State != "NJ" {
		t.Errorf("Expected state from source config, got %q", record.State)
	}
	if record.PublishedAt == nil || record.PublishedAt.Year() != 2024 {
		t.Errorf("Expected published date from pubDate, got %v", record.PublishedAt)
	}
	if !strings.HasPrefix(record.RecordID, "rss-") {
		t.Errorf("Expected synthesized rss identity, got %q", record.RecordID)
	}
}

func TestIngestor_Run_DedicatedFeedBypassesClassifier(t *testing.T) {
	feedXML := `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Funeral Home Feed</title>
<item>
<title>Jane Doe</title>
<link>https://example.com/obit/jane-doe</link>
<description>Services Thursday at the chapel.</description>
</item>
</channel></rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedXML))
	}))
	defer server.Close()

	src := &config.SourceConfig{
		Name:    "Goldstein Funeral Home",
		Type:    config.TypeFeed,
		Key:     "goldstein-funeral",
		URL:     server.URL,
		Enabled: true,
	}

	records, err := NewIngestor(scrape.NewClient("obitsync-test/1.0")).Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Dedicated feed must bypass the classifier, got %d records", len(records))
	}
}

func TestIngestor_Run_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	src := &config.SourceConfig{Name: "Broken", Type: config.TypeFeed, URL: server.URL, Enabled: true}

	_, err := NewIngestor(scrape.NewClient("obitsync-test/1.0")).Run(context.Background(), src)
	if err == nil {
		t.Error("Expected error for unreachable feed")
	}
}
