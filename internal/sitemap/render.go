package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/nao1215/sitemapgen/internal/model"
)

// Namespace is the sitemaps.org 0.9 XML namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// xmlURL is the <url> element of a urlset document. Optional fields are
// plain strings so that "unset" cleanly maps to element omission;
// priority in particular must be pre-formatted to one decimal place.
type xmlURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// xmlURLSet is the root <urlset> element.
type xmlURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []xmlURL `xml:"url"`
}

// xmlSitemap is the <sitemap> element of a sitemap index.
type xmlSitemap struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// xmlSitemapIndex is the root <sitemapindex> element.
type xmlSitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []xmlSitemap `xml:"sitemap"`
}

// IndexEntry is one chunk reference in a sitemap index: the URL at which
// the chunk file will be published and its last-modified date.
type IndexEntry struct {
	Loc     string
	LastMod string
}

// RenderURLSet serializes entries into a urlset document. When pretty is
// false the output is compact (no indentation or newlines between
// elements); both forms are valid XML. encoding/xml escapes all five
// reserved characters, which matters because URLs legally contain "&" in
// query strings.
func RenderURLSet(entries []model.SitemapEntry, pretty bool) (string, error) {
	set := xmlURLSet{
		Xmlns: Namespace,
		URLs:  make([]xmlURL, 0, len(entries)),
	}

	for _, e := range entries {
		u := xmlURL{
			Loc:        e.Loc,
			LastMod:    e.LastMod,
			ChangeFreq: e.ChangeFreq.String(),
		}
		if e.HasPriority() {
			u.Priority = fmt.Sprintf("%.1f", e.Priority)
		}
		set.URLs = append(set.URLs, u)
	}

	return marshalDocument(set, pretty)
}

// RenderIndex serializes chunk references into a sitemapindex document.
func RenderIndex(chunks []IndexEntry, pretty bool) (string, error) {
	idx := xmlSitemapIndex{
		Xmlns:    Namespace,
		Sitemaps: make([]xmlSitemap, 0, len(chunks)),
	}

	for _, c := range chunks {
		idx.Sitemaps = append(idx.Sitemaps, xmlSitemap{Loc: c.Loc, LastMod: c.LastMod})
	}

	return marshalDocument(idx, pretty)
}

// marshalDocument marshals the root element and prepends the XML header.
func marshalDocument(v any, pretty bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = xml.MarshalIndent(v, "", "  ")
	} else {
		data, err = xml.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal sitemap XML: %w", err)
	}

	// Both forms start with the XML declaration on its own line. The
	// compact form then holds the entire document on one line with no
	// whitespace between elements.
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.Write(data)
	if pretty {
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
