package crawler

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parser extracts outbound links and the page title from HTML content.
//
// Design decision: We use goquery (over golang.org/x/net/html) rather
// than a regex scan because:
//  1. It correctly handles malformed HTML common on the web
//  2. Selector-based extraction stays readable as requirements grow
//  3. Document order is preserved, which the crawler relies on for
//     deterministic traversal
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative hrefs.
	baseURL *url.URL
}

// ParseResult holds what the parser extracted from one page.
type ParseResult struct {
	// Title is the page title from the <title> tag.
	Title string

	// Links are the absolute URLs of all anchors, deduplicated within
	// this page and in document order. Dedup against the global visited
	// set is the Spider's job, not the parser's.
	Links []string
}

// NewParser creates a Parser for a page at the given absolute URL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse reads HTML content and extracts the title and anchor targets.
// Unresolvable or non-navigational hrefs are discarded, never reported
// as errors: a page with broken markup still counts as a valid page that
// simply yielded no links.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Links: make([]string, 0),
	}

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		resolved := p.resolveURL(href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		result.Links = append(result.Links, resolved)
	})

	return result, nil
}

// resolveURL resolves an href against the page URL and filters out
// targets that are not crawlable pages.
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}

	// Non-navigational schemes are never pages.
	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := p.baseURL.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
