// Package sitemap assembles sitemap entries into size-bounded chunks and
// renders them as sitemaps.org 0.9 XML.
//
// # Pipeline
//
// Assemble merges manually supplied entries with crawled entries (manual
// wins on duplicate canonical URLs) and partitions the result into chunks
// of at most maxPerFile entries. RenderURLSet and RenderIndex serialize a
// chunk or the chunk directory to XML, and Writer persists the rendered
// documents to files, optionally gzip-compressed.
//
// Chunk contents are deterministic: merge order is manual order followed
// by crawled order, and chunking never reorders entries.
package sitemap
