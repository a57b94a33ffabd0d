package sitemap

import (
	"compress/gzip"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sitemapgen/internal/model"
)

// Writer persists rendered sitemap documents to files.
//
// File naming: a single chunk becomes {base}.xml; multiple chunks become
// {base}_1.xml, {base}_2.xml, ... plus {base}_index.xml referencing each
// chunk's published URL. With compression enabled, ".gz" is appended
// unless the name already ends in it.
type Writer struct {
	// outputDir is the destination directory, created if missing.
	outputDir string

	// baseName is the file name stem, "sitemap" by default.
	baseName string

	// publishBaseURL is where the chunk files will be served from; the
	// index file's <loc> values join this with each chunk file name.
	publishBaseURL string

	// pretty selects indented XML output.
	pretty bool

	// compress enables gzip compression of every written file.
	compress bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithBaseName sets the file name stem.
func WithBaseName(base string) WriterOption {
	return func(w *Writer) {
		if base != "" {
			w.baseName = base
		}
	}
}

// WithPretty enables indented XML output.
func WithPretty(pretty bool) WriterOption {
	return func(w *Writer) {
		w.pretty = pretty
	}
}

// WithCompression enables gzip compression of output files.
func WithCompression(compress bool) WriterOption {
	return func(w *Writer) {
		w.compress = compress
	}
}

// NewWriter creates a Writer targeting outputDir. publishBaseURL is the
// URL prefix under which the files will be served (used only for index
// <loc> values, so it may be empty when no index is produced).
func NewWriter(outputDir, publishBaseURL string, opts ...WriterOption) *Writer {
	w := &Writer{
		outputDir:      outputDir,
		baseName:       "sitemap",
		publishBaseURL: publishBaseURL,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders and persists every chunk of the assembly, plus the index
// file when one is needed. It returns the written file paths in order:
// chunk files first, the index last.
//
// Chunk files are independent, so they are written concurrently; this
// is file I/O fan-out only and does not affect the crawler's sequential
// fetching.
func (w *Writer) Write(assembly *Assembly) ([]string, error) {
	if err := os.MkdirAll(w.outputDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	names := w.chunkFileNames(len(assembly.Chunks))

	var g errgroup.Group
	for i, chunk := range assembly.Chunks {
		g.Go(func() error {
			doc, err := RenderURLSet(chunk, w.pretty)
			if err != nil {
				return err
			}
			return w.writeFile(names[i], doc)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(names)+1)
	for _, name := range names {
		paths = append(paths, filepath.Join(w.outputDir, w.finalName(name)))
	}

	if assembly.IndexNeeded {
		indexName, err := w.writeIndex(names)
		if err != nil {
			return nil, err
		}
		paths = append(paths, filepath.Join(w.outputDir, indexName))
	}

	return paths, nil
}

// chunkFileNames returns the uncompressed chunk file names.
func (w *Writer) chunkFileNames(n int) []string {
	if n == 1 {
		return []string{w.baseName + ".xml"}
	}
	names := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		names = append(names, fmt.Sprintf("%s_%d.xml", w.baseName, i))
	}
	return names
}

// writeIndex renders and writes the sitemap index referencing the chunk
// files at their published locations. Returns the final index file name.
func (w *Writer) writeIndex(chunkNames []string) (string, error) {
	lastMod := time.Now().Format(model.LastModLayout)

	refs := make([]IndexEntry, 0, len(chunkNames))
	for _, name := range chunkNames {
		loc, err := url.JoinPath(w.publishBaseURL, w.finalName(name))
		if err != nil {
			return "", fmt.Errorf("invalid publish base URL %q: %w", w.publishBaseURL, err)
		}
		refs = append(refs, IndexEntry{Loc: loc, LastMod: lastMod})
	}

	doc, err := RenderIndex(refs, w.pretty)
	if err != nil {
		return "", err
	}

	name := w.baseName + "_index.xml"
	if err := w.writeFile(name, doc); err != nil {
		return "", err
	}
	return w.finalName(name), nil
}

// finalName returns the on-disk name for an uncompressed file name,
// appending ".gz" when compression is on.
func (w *Writer) finalName(name string) string {
	if w.compress && !strings.HasSuffix(name, ".gz") {
		return name + ".gz"
	}
	return name
}

// writeFile writes one document as UTF-8 bytes, gzip-compressed when
// compression is enabled.
func (w *Writer) writeFile(name, doc string) error {
	path := filepath.Join(w.outputDir, w.finalName(name))

	f, err := os.Create(path) //nolint:gosec // Path is derived from user-chosen output directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if w.compress {
		gz := gzip.NewWriter(f)
		if _, err := gz.Write([]byte(doc)); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish %s: %w", path, err)
		}
		return f.Close()
	}

	if _, err := f.Write([]byte(doc)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
