package sitemap

import (
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/sitemapgen/internal/model"
)

// TestWriterWrite tests file persistence and naming.
func TestWriterWrite(t *testing.T) {
	t.Parallel()

	t.Run("single chunk writes base.xml", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "out", "nested")
		w := NewWriter(dir, "https://example.com")

		a := &Assembly{Chunks: [][]model.SitemapEntry{{entry("https://example.com/", 1.0)}}}
		paths, err := w.Write(a)
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}

		if len(paths) != 1 {
			t.Fatalf("expected 1 file, got %d: %v", len(paths), paths)
		}
		want := filepath.Join(dir, "sitemap.xml")
		if paths[0] != want {
			t.Errorf("expected %q, got %q", want, paths[0])
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("sitemap file missing: %v", err)
		}
	})

	t.Run("multiple chunks write numbered files plus index", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := NewWriter(dir, "https://example.com/maps", WithPretty(true))

		a := &Assembly{
			Chunks: [][]model.SitemapEntry{
				{entry("https://example.com/a", 0.5)},
				{entry("https://example.com/b", 0.5)},
				{entry("https://example.com/c", 0.5)},
			},
			IndexNeeded: true,
		}
		paths, err := w.Write(a)
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}

		wantNames := []string{"sitemap_1.xml", "sitemap_2.xml", "sitemap_3.xml", "sitemap_index.xml"}
		if len(paths) != len(wantNames) {
			t.Fatalf("expected %d files, got %d: %v", len(wantNames), len(paths), paths)
		}
		for i, name := range wantNames {
			if filepath.Base(paths[i]) != name {
				t.Errorf("file %d: expected %q, got %q", i, name, filepath.Base(paths[i]))
			}
		}

		// The index must reference the published chunk URLs.
		data, err := os.ReadFile(filepath.Join(dir, "sitemap_index.xml"))
		if err != nil {
			t.Fatalf("failed to read index: %v", err)
		}
		var parsed struct {
			Sitemaps []struct {
				Loc string `xml:"loc"`
			} `xml:"sitemap"`
		}
		if err := xml.Unmarshal(data, &parsed); err != nil {
			t.Fatalf("index is not valid XML: %v", err)
		}
		if len(parsed.Sitemaps) != 3 {
			t.Fatalf("expected 3 index references, got %d", len(parsed.Sitemaps))
		}
		for i, s := range parsed.Sitemaps {
			want := fmt.Sprintf("https://example.com/maps/sitemap_%d.xml", i+1)
			if s.Loc != want {
				t.Errorf("index reference %d: expected %q, got %q", i, want, s.Loc)
			}
		}
	})

	t.Run("custom base name", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := NewWriter(dir, "https://example.com", WithBaseName("pages"))

		a := &Assembly{Chunks: [][]model.SitemapEntry{{entry("https://example.com/", 1.0)}}}
		paths, err := w.Write(a)
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if filepath.Base(paths[0]) != "pages.xml" {
			t.Errorf("expected pages.xml, got %q", filepath.Base(paths[0]))
		}
	})

	t.Run("compression appends gz and produces valid gzip", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := NewWriter(dir, "https://example.com", WithCompression(true))

		loc := "https://example.com/page"
		a := &Assembly{Chunks: [][]model.SitemapEntry{{entry(loc, 0.5)}}}
		paths, err := w.Write(a)
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}

		if filepath.Base(paths[0]) != "sitemap.xml.gz" {
			t.Fatalf("expected sitemap.xml.gz, got %q", filepath.Base(paths[0]))
		}

		f, err := os.Open(paths[0])
		if err != nil {
			t.Fatalf("failed to open compressed file: %v", err)
		}
		defer f.Close()

		gz, err := gzip.NewReader(f)
		if err != nil {
			t.Fatalf("file is not valid gzip: %v", err)
		}
		defer gz.Close()

		data, err := io.ReadAll(gz)
		if err != nil {
			t.Fatalf("failed to decompress: %v", err)
		}
		if !strings.Contains(string(data), "<loc>"+loc+"</loc>") {
			t.Errorf("decompressed content missing entry, got: %s", data)
		}
	})

	t.Run("compressed chunks are referenced with gz suffix in index", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := NewWriter(dir, "https://example.com", WithCompression(true))

		a := &Assembly{
			Chunks: [][]model.SitemapEntry{
				{entry("https://example.com/a", 0.5)},
				{entry("https://example.com/b", 0.5)},
			},
			IndexNeeded: true,
		}
		paths, err := w.Write(a)
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}

		last := filepath.Base(paths[len(paths)-1])
		if last != "sitemap_index.xml.gz" {
			t.Errorf("expected compressed index name, got %q", last)
		}

		f, err := os.Open(paths[len(paths)-1])
		if err != nil {
			t.Fatalf("failed to open index: %v", err)
		}
		defer f.Close()
		gz, err := gzip.NewReader(f)
		if err != nil {
			t.Fatalf("index is not valid gzip: %v", err)
		}
		data, err := io.ReadAll(gz)
		if err != nil {
			t.Fatalf("failed to decompress index: %v", err)
		}
		if !strings.Contains(string(data), "https://example.com/sitemap_1.xml.gz") {
			t.Errorf("index should reference compressed chunk names, got: %s", data)
		}
	})
}
