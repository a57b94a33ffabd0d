package sitemap

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/nao1215/sitemapgen/internal/model"
)

// parsedURLSet mirrors the rendered urlset for round-trip verification.
type parsedURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []struct {
		Loc        string `xml:"loc"`
		LastMod    string `xml:"lastmod"`
		ChangeFreq string `xml:"changefreq"`
		Priority   string `xml:"priority"`
	} `xml:"url"`
}

// TestRenderURLSet tests urlset serialization.
func TestRenderURLSet(t *testing.T) {
	t.Parallel()

	t.Run("renders all fields with one-decimal priority", func(t *testing.T) {
		t.Parallel()

		entries := []model.SitemapEntry{
			{Loc: "https://example.com/", LastMod: "2026-08-23", ChangeFreq: model.ChangeFreqWeekly, Priority: 1.0},
			{Loc: "https://example.com/about", LastMod: "2026-08-23", ChangeFreq: model.ChangeFreqDaily, Priority: 0.8},
		}

		doc, err := RenderURLSet(entries, true)
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}

		var parsed parsedURLSet
		if err := xml.Unmarshal([]byte(doc), &parsed); err != nil {
			t.Fatalf("rendered document is not valid XML: %v", err)
		}

		if parsed.Xmlns != Namespace {
			t.Errorf("expected namespace %q, got %q", Namespace, parsed.Xmlns)
		}
		if len(parsed.URLs) != 2 {
			t.Fatalf("expected 2 url elements, got %d", len(parsed.URLs))
		}
		if parsed.URLs[0].Priority != "1.0" {
			t.Errorf("expected priority '1.0', got %q", parsed.URLs[0].Priority)
		}
		if parsed.URLs[1].Priority != "0.8" {
			t.Errorf("expected priority '0.8', got %q", parsed.URLs[1].Priority)
		}
		if parsed.URLs[1].ChangeFreq != "daily" {
			t.Errorf("expected changefreq 'daily', got %q", parsed.URLs[1].ChangeFreq)
		}
	})

	t.Run("omits unset optional fields", func(t *testing.T) {
		t.Parallel()

		entries := []model.SitemapEntry{
			{Loc: "https://example.com/bare", Priority: model.PriorityUnset},
		}

		doc, err := RenderURLSet(entries, false)
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}

		for _, element := range []string{"<lastmod>", "<changefreq>", "<priority>"} {
			if strings.Contains(doc, element) {
				t.Errorf("expected %s to be omitted, document: %s", element, doc)
			}
		}
	})

	t.Run("escapes reserved characters and round-trips", func(t *testing.T) {
		t.Parallel()

		loc := `https://example.com/search?q=a&b=<c>&quote="x"&apos='y'`
		entries := []model.SitemapEntry{{Loc: loc, Priority: model.PriorityUnset}}

		doc, err := RenderURLSet(entries, false)
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}

		// The raw ampersand must not survive unescaped.
		if strings.Contains(doc, "?q=a&b=") {
			t.Error("ampersand was not escaped in rendered XML")
		}

		var parsed parsedURLSet
		if err := xml.Unmarshal([]byte(doc), &parsed); err != nil {
			t.Fatalf("rendered document is not valid XML: %v", err)
		}
		if len(parsed.URLs) != 1 {
			t.Fatalf("expected 1 url element, got %d", len(parsed.URLs))
		}
		if parsed.URLs[0].Loc != loc {
			t.Errorf("loc did not round-trip: expected %q, got %q", loc, parsed.URLs[0].Loc)
		}
	})

	t.Run("compact form is a two-line document", func(t *testing.T) {
		t.Parallel()

		entries := []model.SitemapEntry{
			{Loc: "https://example.com/", Priority: 1.0},
			{Loc: "https://example.com/a", Priority: 0.8},
		}

		doc, err := RenderURLSet(entries, false)
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}

		// XML declaration plus the single-line document.
		if got := strings.Count(doc, "\n"); got != 1 {
			t.Errorf("expected exactly 1 newline in compact output, got %d:\n%s", got, doc)
		}
	})

	t.Run("pretty form is indented and valid", func(t *testing.T) {
		t.Parallel()

		entries := []model.SitemapEntry{{Loc: "https://example.com/", Priority: 1.0}}

		doc, err := RenderURLSet(entries, true)
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}

		if !strings.Contains(doc, "\n  <url>") {
			t.Errorf("expected indented url element, got:\n%s", doc)
		}
		var parsed parsedURLSet
		if err := xml.Unmarshal([]byte(doc), &parsed); err != nil {
			t.Errorf("pretty document is not valid XML: %v", err)
		}
	})
}

// TestRenderIndex tests sitemapindex serialization.
func TestRenderIndex(t *testing.T) {
	t.Parallel()

	chunks := []IndexEntry{
		{Loc: "https://example.com/sitemap_1.xml", LastMod: "2026-08-23"},
		{Loc: "https://example.com/sitemap_2.xml", LastMod: "2026-08-23"},
		{Loc: "https://example.com/sitemap_3.xml", LastMod: "2026-08-23"},
	}

	doc, err := RenderIndex(chunks, true)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	var parsed struct {
		XMLName  xml.Name `xml:"sitemapindex"`
		Xmlns    string   `xml:"xmlns,attr"`
		Sitemaps []struct {
			Loc     string `xml:"loc"`
			LastMod string `xml:"lastmod"`
		} `xml:"sitemap"`
	}
	if err := xml.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("rendered index is not valid XML: %v", err)
	}

	if parsed.Xmlns != Namespace {
		t.Errorf("expected namespace %q, got %q", Namespace, parsed.Xmlns)
	}
	if len(parsed.Sitemaps) != 3 {
		t.Fatalf("expected 3 sitemap references, got %d", len(parsed.Sitemaps))
	}
	for i, s := range parsed.Sitemaps {
		if s.Loc != chunks[i].Loc {
			t.Errorf("reference %d: expected %q, got %q", i, chunks[i].Loc, s.Loc)
		}
		if s.LastMod != "2026-08-23" {
			t.Errorf("reference %d: expected lastmod 2026-08-23, got %q", i, s.LastMod)
		}
	}
}
