package sitemap

import (
	"errors"

	"github.com/nao1215/sitemapgen/internal/model"
)

// MaxPerFile is the sitemap protocol's limit on entries per file.
const MaxPerFile = 50000

// ErrNoEntries is returned when the merged entry set is empty.
// Writing an empty sitemap would be invalid, so callers must surface
// this as a terminal error rather than producing output.
var ErrNoEntries = errors.New("no sitemap entries: nothing to render")

// Assembly is the result of merging and chunking sitemap entries.
type Assembly struct {
	// Chunks holds the partitioned entries. Every merged entry appears
	// in exactly one chunk, and chunk order preserves merge order.
	Chunks [][]model.SitemapEntry

	// IndexNeeded reports whether a sitemap index file must accompany
	// the chunks. True only when indexing was requested and the merged
	// set exceeded maxPerFile.
	IndexNeeded bool
}

// Total returns the merged entry count across all chunks.
func (a *Assembly) Total() int {
	n := 0
	for _, c := range a.Chunks {
		n += len(c)
	}
	return n
}

// Assemble merges manual and crawled entries and partitions the result.
//
// Merge rule: entries are keyed by canonical loc. Manual entries are
// inserted first; a crawled entry is dropped when its loc is already
// present, so manual entries always take precedence for the same URL.
// Duplicates within each input list keep their first occurrence.
//
// Chunking: when the merged count exceeds maxPerFile and index
// generation was requested, the merged list is split into consecutive
// chunks of at most maxPerFile entries. Otherwise everything lands in a
// single chunk (a caller that declined indexing gets one oversized
// chunk rather than silently losing entries).
func Assemble(manual, crawled []model.SitemapEntry, maxPerFile int, index bool) (*Assembly, error) {
	if maxPerFile <= 0 {
		maxPerFile = MaxPerFile
	}

	seen := make(map[string]bool, len(manual)+len(crawled))
	merged := make([]model.SitemapEntry, 0, len(manual)+len(crawled))

	for _, e := range manual {
		if seen[e.Loc] {
			continue
		}
		seen[e.Loc] = true
		merged = append(merged, e)
	}
	for _, e := range crawled {
		if seen[e.Loc] {
			continue
		}
		seen[e.Loc] = true
		merged = append(merged, e)
	}

	if len(merged) == 0 {
		return nil, ErrNoEntries
	}

	if !index || len(merged) <= maxPerFile {
		return &Assembly{Chunks: [][]model.SitemapEntry{merged}}, nil
	}

	chunks := make([][]model.SitemapEntry, 0, (len(merged)+maxPerFile-1)/maxPerFile)
	for start := 0; start < len(merged); start += maxPerFile {
		end := start + maxPerFile
		if end > len(merged) {
			end = len(merged)
		}
		chunks = append(chunks, merged[start:end])
	}

	return &Assembly{Chunks: chunks, IndexNeeded: true}, nil
}
