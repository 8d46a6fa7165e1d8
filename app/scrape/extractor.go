package scrape

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/obitsync/obitsync/app/config"
)

const (
	SnippetMaxLen   = 500
	minParagraphLen = 80
	maxCityLen      = 30
	minImageSide    = 100
	snippetEllipsis = "..."
)

// Details holds the best-effort fields derived from a detail page.
type Details struct {
	Snippet  string
	ImageURL string
	City     string
}

var (
	boilerplateSelector = "script, style, nav, header, footer, iframe, form"
	articleContainers   = "article, .entry-content, .post-content, .obituary-content, .obituary, main"
	articleImages       = "article img, .entry-content img, .post-content img, .obituary-content img, .obituary img, main img"
	imageNameFilter     = regexp.MustCompile(`(?i)avatar|icon|logo`)
	sentenceBoundary    = regexp.MustCompile(`([.!?])\s+`)
	whitespaceRun       = regexp.MustCompile(`\s+`)

	titleCaser = cases.Title(language.AmericanEnglish)

	stateNames = []string{
		"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
		"Connecticut", "Delaware", "Florida", "Georgia", "Hawaii", "Idaho",
		"Illinois", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana",
		"Maine", "Maryland", "Massachusetts", "Michigan", "Minnesota",
		"Mississippi", "Missouri", "Montana", "Nebraska", "Nevada",
		"New Hampshire", "New Jersey", "New Mexico", "New York",
		"North Carolina", "North Dakota", "Ohio", "Oklahoma", "Oregon",
		"Pennsylvania", "Rhode Island", "South Carolina", "South Dakota",
		"Tennessee", "Texas", "Utah", "Vermont", "Virginia", "Washington",
		"West Virginia", "Wisconsin", "Wyoming",
	}

	residentPattern = regexp.MustCompile(`([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)\s+resident`)
)

// Extractor derives snippet, lead image and city from a detail page.
// Every heuristic step degrades to an empty field rather than failing.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Run extracts details from detail-page HTML. pageURL anchors relative
// image URLs; state, when known, tightens the city heuristic.
func (e *Extractor) Run(html, pageURL string, selectors config.DetailSelectors, state string) Details {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Details{}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	var details Details
	details.ImageURL = e.extractImage(doc, base, selectors.ImageSelector)

	body := e.extractBodyText(doc, html, pageURL, selectors.ContentSelector)
	details.Snippet = BuildSnippet(body, SnippetMaxLen)
	details.City = ExtractCity(body, state)

	return details
}

// extractBodyText returns the cleaned textual body of the page, trying
// qualifying paragraphs first, then article-like containers, then
// readability extraction, then the whole body.
func (e *Extractor) extractBodyText(doc *goquery.Document, html, pageURL, contentSelector string) string {
	doc.Find(boilerplateSelector).Remove()

	scope := doc.Selection
	if contentSelector != "" {
		if sel := doc.Find(contentSelector); sel.Length() > 0 {
			scope = sel
		}
	}

	var paragraphs []string
	scope.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) >= minParagraphLen {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, " ")
	}

	if sel := doc.Find(articleContainers); sel.Length() > 0 {
		if text := strings.TrimSpace(sel.First().Text()); text != "" {
			return text
		}
	}

	if parsed, err := url.Parse(pageURL); err == nil {
		if article, err := readability.FromReader(strings.NewReader(html), parsed); err == nil {
			if text := strings.TrimSpace(article.TextContent); text != "" {
				return text
			}
		}
	}

	return strings.TrimSpace(doc.Find("body").Text())
}

// extractImage walks the fallback chain: og:image, twitter:image, first
// content-container image (filtered against avatar/icon/logo filenames),
// then any image with explicit dimensions above the tracking-pixel
// threshold. All results resolve to absolute URLs; failures mean no image.
func (e *Extractor) extractImage(doc *goquery.Document, base *url.URL, imageSelector string) string {
	if content, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && content != "" {
		return resolveURL(base, content)
	}

	if content, ok := doc.Find(`meta[name="twitter:image"]`).Attr("content"); ok && content != "" {
		return resolveURL(base, content)
	}

	containerSelector := imageSelector
	if containerSelector == "" {
		containerSelector = articleImages
	}
	var found string
	doc.Find(containerSelector).EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok || src == "" || imageNameFilter.MatchString(src) {
			return true
		}
		found = src
		return false
	})
	if found != "" {
		return resolveURL(base, found)
	}

	doc.Find("img[width][height]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		w, _ := strconv.Atoi(img.AttrOr("width", "0"))
		h, _ := strconv.Atoi(img.AttrOr("height", "0"))
		if w <= minImageSide || h <= minImageSide {
			return true
		}
		src, ok := img.Attr("src")
		if !ok || src == "" || imageNameFilter.MatchString(src) {
			return true
		}
		found = src
		return false
	})
	if found != "" {
		return resolveURL(base, found)
	}

	return ""
}

// BuildSnippet collapses whitespace, keeps the first three sentences and
// hard-truncates at maxLen on a word boundary with a trailing ellipsis.
func BuildSnippet(body string, maxLen int) string {
	text := strings.TrimSpace(whitespaceRun.ReplaceAllString(body, " "))
	if text == "" {
		return ""
	}

	sentences := sentenceBoundary.Split(text, 4)
	if len(sentences) > 3 {
		marks := sentenceBoundary.FindAllStringSubmatch(text, 3)
		joined := make([]string, 0, 3)
		for i := 0; i < 3; i++ {
			s := sentences[i]
			if i < len(marks) {
				s += marks[i][1]
			}
			joined = append(joined, s)
		}
		text = strings.Join(joined, " ")
	}

	if len(text) <= maxLen {
		return text
	}

	cut := text[:maxLen-len(snippetEllipsis)]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:") + snippetEllipsis
}

// ExtractCity applies the "<City>, <ST>" heuristic, then the
// "<City> resident" pattern. Overlong matches are rejected as false
// positives that captured surrounding text.
func ExtractCity(text, state string) string {
	stateTokens := []string{`[A-Z]{2}`}
	if state != "" {
		stateTokens = append(stateTokens, regexp.QuoteMeta(state))
	}
	stateTokens = append(stateTokens, stateNames...)

	cityState, err := regexp.Compile(fmt.Sprintf(
		`([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*),\s+(?:%s)\b`,
		strings.Join(stateTokens, "|")))
	if err != nil {
		return ""
	}

	if m := cityState.FindStringSubmatch(text); m != nil {
		if city := normalizeCity(m[1]); city != "" {
			return city
		}
	}

	if m := residentPattern.FindStringSubmatch(text); m != nil {
		if city := normalizeCity(m[1]); city != "" {
			return city
		}
	}

	return ""
}

func normalizeCity(city string) string {
	city = strings.TrimSpace(city)
	if city == "" || len(city) > maxCityLen {
		return ""
	}
	if city == strings.ToUpper(city) {
		city = titleCaser.String(strings.ToLower(city))
	}
	return city
}

// resolveURL converts href to absolute form against base. Resolution
// failures are swallowed and reported as no match.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	if base == nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
