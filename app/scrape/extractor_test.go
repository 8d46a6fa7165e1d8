package scrape

import (
	"strings"
	"testing"

	"github.com/obitsync/obitsync/app/config"
)

func TestExtractor_ImageFallbackOrder(t *testing.T) {
	html := `<html><head>
		<meta property="og:image" content="/images/portrait.jpg">
		<meta name="twitter:image" content="https://cdn.example.com/twitter.jpg">
	</head><body></body></html>`

	details := NewExtractor().Run(html, "https://example.com/obituaries/jane-doe", config.DetailSelectors{}, "")

	if details.ImageURL != "https://example.com/images/portrait.jpg" {
		t.Errorf("Expected og:image resolved against base URL, got %q", details.ImageURL)
	}
}

func TestExtractor_TwitterImageFallback(t *testing.T) {
	html := `<html><head>
		<meta name="twitter:image" content="https://cdn.example.com/twitter.jpg">
	</head><body></body></html>`

	details := NewExtractor().Run(html, "https://example.com/obituaries/jane-doe", config.DetailSelectors{}, "")

	if details.ImageURL != "https://cdn.example.com/twitter.jpg" {
		t.Errorf("Expected twitter:image fallback, got %q", details.ImageURL)
	}
}

func TestExtractor_ContentImageFiltersIconNames(t *testing.T) {
	html := `<html><body><article>
		<img src="/assets/site-logo.png">
		<img src="/uploads/jane-doe-photo.jpg">
	</article></body></html>`

	details := NewExtractor().Run(html, "https://example.com/obituaries/jane-doe", config.DetailSelectors{}, "")

	if details.ImageURL != "https://example.com/uploads/jane-doe-photo.jpg" {
		t.Errorf("Expected logo-named image skipped, got %q", details.ImageURL)
	}
}

func TestExtractor_DimensionHeuristic(t *testing.T) {
	html := `<html><body>
		<img src="/pixel.gif" width="1" height="1">
		<img src="/uploads/photo.jpg" width="640" height="480">
	</body></html>`

	details := NewExtractor().Run(html, "https://example.com/p", config.DetailSelectors{}, "")

	if details.ImageURL != "https://example.com/uploads/photo.jpg" {
		t.Errorf("Expected tracking pixel skipped for sized image, got %q", details.ImageURL)
	}
}

func TestExtractor_SnippetFromParagraphs(t *testing.T) {
	long := "Jane Doe of Teaneck passed away peacefully on January 15, 2024 surrounded by her loving family and many friends."
	html := `<html><body>
		<nav>Home | Obituaries | Contact</nav>
		<p>Share</p>
		<p>` + long + `</p>
		<footer>Copyright</footer>
	</body></html>`

	details := NewExtractor().Run(html, "https://example.com/p", config.DetailSelectors{}, "NJ")

	if !strings.Contains(details.Snippet, "Jane Doe of Teaneck") {
		t.Errorf("Expected snippet from qualifying paragraph, got %q", details.Snippet)
	}
	if strings.Contains(details.Snippet, "Share") || strings.Contains(details.Snippet, "Copyright") {
		t.Errorf("Expected boilerplate excluded from snippet, got %q", details.Snippet)
	}
}

func TestBuildSnippet_LengthBound(t *testing.T) {
	words := strings.Repeat("remembrance ", 200)

	snippet := BuildSnippet(words, SnippetMaxLen)

	if len(snippet) > SnippetMaxLen {
		t.Errorf("Snippet length %d exceeds max %d", len(snippet), SnippetMaxLen)
	}
	if !strings.HasSuffix(snippet, "...") {
		t.Errorf("Expected truncated snippet to end with ellipsis, got %q", snippet)
	}
	// Truncation must land on a word boundary.
	trimmed := strings.TrimSuffix(snippet, "...")
	if strings.HasSuffix(trimmed, "remembranc") {
		t.Errorf("Snippet truncated mid-word: %q", snippet)
	}
}

func TestBuildSnippet_FirstThreeSentences(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here. Fourth sentence here."

	snippet := BuildSnippet(text, SnippetMaxLen)

	if strings.Contains(snippet, "Fourth") {
		t.Errorf("Expected at most three sentences, got %q", snippet)
	}
	if !strings.Contains(snippet, "Third") {
		t.Errorf("Expected third sentence kept, got %q", snippet)
	}
}

func TestExtractCity_CityStatePattern(t *testing.T) {
	city := ExtractCity("Jane Doe of Teaneck, NJ passed away on Monday.", "NJ")
	if city != "Teaneck" {
		t.Errorf("Expected Teaneck, got %q", city)
	}
}

func TestExtractCity_FullStateName(t *testing.T) {
	city := ExtractCity("She lived in Cherry Hill, New Jersey for forty years.", "")
	if city != "Cherry Hill" {
		t.Errorf("Expected Cherry Hill, got %q", city)
	}
}

func TestExtractCity_ResidentPattern(t *testing.T) {
	city := ExtractCity("A longtime Lakewood resident, she was beloved by all.", "")
	if city != "Lakewood" {
		t.Errorf("Expected Lakewood, got %q", city)
	}
}

func TestExtractCity_RejectsOverlongMatch(t *testing.T) {
	text := "The Annual Memorial Fund Of The Greater Metropolitan Area Society, NY hosted the event."
	city := ExtractCity(text, "")
	if len(city) > maxCityLen {
		t.Errorf("Expected overlong match rejected, got %q", city)
	}
}

func TestExtractCity_NoMatch(t *testing.T) {
	if city := ExtractCity("no geography in this text", ""); city != "" {
		t.Errorf("Expected empty city, got %q", city)
	}
}
