package crawler

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/sha3"
	"golang.org/x/net/html/charset"

	"github.com/nao1215/sitemapgen/internal/model"
)

// Spider crawls a website from a seed URL and produces sitemap entries.
// It manages a worklist of URLs to visit and respects depth, count,
// domain, and pattern limits.
//
// A Spider is owned by a single crawl run: the visited set and the
// collected entries are never shared across concurrent runs. The mutex
// keeps the visited check-and-insert atomic so the at-most-once-per-URL
// guarantee would survive if fetching were ever parallelized.
type Spider struct {
	// client is the HTTP client used for fetching. Its timeout bounds
	// each individual request; there is no crawl-level timeout.
	client *http.Client

	// maxDepth limits how many link hops to follow from the seed.
	// Negative means unlimited. 0 means only the seed page.
	maxDepth int

	// maxURLs is the ceiling on total collected entries.
	maxURLs int

	// delay is awaited after every fetch, successful or not.
	// This is a politeness setting, not a correctness one.
	delay time.Duration

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// maxBodySize limits how many response bytes are read per page.
	maxBodySize int64

	// excludeGlobs are glob patterns; a URL matching any of them is
	// never recorded or fetched.
	excludeGlobs []string

	// includeGlobs, when non-empty, require a URL to match at least one.
	includeGlobs []string

	// followExternal allows traversal of hosts other than the seed's.
	followExternal bool

	// headers are extra request headers, typically from a per-host
	// config override (cookies, authorization).
	headers map[string]string

	// logger receives per-URL warnings. Failures of individual pages
	// are logged and absorbed, never propagated.
	logger *slog.Logger

	// visited tracks canonical URLs already processed.
	visited map[string]bool

	// mutex protects visited, records, and stats.
	mutex sync.Mutex

	records []model.PageRecord
	stats   model.CrawlStats
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
// 0 = only the seed page, 1 = seed plus directly linked pages, etc.
// A negative value means unlimited depth.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithMaxURLs sets the ceiling on collected entries. The crawl stops
// the moment the ceiling is reached, even mid-page.
func WithMaxURLs(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.maxURLs = n
		}
	}
}

// WithDelay sets the fixed delay awaited after every fetch.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		s.maxBodySize = size
	}
}

// WithExcludePatterns sets glob patterns for URLs to skip.
// A matching URL is neither recorded nor fetched.
func WithExcludePatterns(globs []string) SpiderOption {
	return func(s *Spider) {
		s.excludeGlobs = globs
	}
}

// WithIncludePatterns sets glob patterns a URL must match to be crawled.
// Empty means all URLs are allowed (subject to exclude patterns).
func WithIncludePatterns(globs []string) SpiderOption {
	return func(s *Spider) {
		s.includeGlobs = globs
	}
}

// WithFollowExternal allows the crawl to leave the seed URL's host.
// Off by default: a sitemap describes one site.
func WithFollowExternal(follow bool) SpiderOption {
	return func(s *Spider) {
		s.followExternal = follow
	}
}

// WithHeaders sets extra request headers sent with every fetch.
func WithHeaders(headers map[string]string) SpiderOption {
	return func(s *Spider) {
		s.headers = headers
	}
}

// WithLogger sets the logger for per-URL warnings.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// Crawl defaults. The URL ceiling matches the sitemap protocol's
// per-file limit; the delay imposes roughly five requests per second.
const (
	DefaultMaxURLs     = 50000
	DefaultDelay       = 200 * time.Millisecond
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
	DefaultUserAgent   = "sitemapgen/1.0 (+https://github.com/nao1215/sitemapgen)"
)

// NewSpider creates a Spider with the given HTTP client.
//
// Design decision: We require an external client because:
//  1. The per-request timeout is configuration owned by the caller
//  2. Tests can supply clients bound to httptest servers
func NewSpider(client *http.Client, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:      client,
		maxDepth:    -1,
		maxURLs:     DefaultMaxURLs,
		delay:       DefaultDelay,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
		visited:     make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// workItem is one pending (url, depth) pair in the traversal worklist.
type workItem struct {
	url   string
	depth int
}

// Crawl traverses the site depth-first from seedURL and returns the
// sitemap entries collected, in traversal order. Links are processed in
// the order they appear on each page, so the result is deterministic
// given deterministic page content.
//
// Network failures never abort the crawl: a page that cannot be fetched
// is recorded as a leaf and traversal continues. Crawl returns an error
// only for an invalid seed URL, an invalid pattern, or context
// cancellation; in the latter case the entries collected so far are
// still returned.
func (s *Spider) Crawl(ctx context.Context, seedURL string) ([]model.SitemapEntry, error) {
	if !IsValidURL(seedURL) {
		return nil, fmt.Errorf("invalid seed URL %q: must be absolute http or https", seedURL)
	}

	exclude, err := compilePatterns(s.excludeGlobs)
	if err != nil {
		return nil, err
	}
	include, err := compilePatterns(s.includeGlobs)
	if err != nil {
		return nil, err
	}

	seed, err := url.Parse(Normalize(seedURL))
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	seedHost := seed.Host

	crawlDate := time.Now().Format(model.LastModLayout)
	collected := make([]model.SitemapEntry, 0)

	// LIFO worklist; children are pushed in reverse discovery order so
	// they pop in page order, matching a recursive depth-first walk.
	stack := []workItem{{url: seed.String(), depth: 0}}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return collected, ctx.Err()
		default:
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Depth bounds this branch; the URL ceiling bounds the whole crawl.
		if s.maxDepth >= 0 && item.depth > s.maxDepth {
			continue
		}
		if len(collected) >= s.maxURLs {
			break
		}

		canonical := Normalize(item.url)
		if s.checkAndMarkVisited(canonical) {
			continue
		}

		if !s.followExternal && !sameHost(canonical, seedHost) {
			s.countSkippedExternal()
			continue
		}

		if matchAny(exclude, item.url) {
			s.countSkippedPattern()
			continue
		}
		if len(include) > 0 && !matchAny(include, item.url) {
			s.countSkippedPattern()
			continue
		}

		// The entry is recorded before the fetch: a page that fails to
		// fetch is still a reachable URL worth listing.
		collected = append(collected, model.SitemapEntry{
			Loc:        canonical,
			LastMod:    crawlDate,
			ChangeFreq: model.ChangeFreqWeekly,
			Priority:   priorityForDepth(item.depth),
		})
		s.countCollected()

		result, rec := s.fetchPage(ctx, canonical, item.depth)
		s.appendRecord(rec)

		// Politeness delay after every fetch, regardless of outcome.
		if s.delay > 0 {
			select {
			case <-ctx.Done():
				return collected, ctx.Err()
			case <-time.After(s.delay):
			}
		}

		if result == nil {
			continue // leaf: fetch failed or non-HTML content
		}

		for i := len(result.Links) - 1; i >= 0; i-- {
			link := result.Links[i]
			if s.isVisited(Normalize(link)) {
				continue
			}
			stack = append(stack, workItem{url: link, depth: item.depth + 1})
		}
	}

	return collected, nil
}

// priorityForDepth scores a page by its distance from the seed:
// importance decays 0.2 per hop with a 0.1 floor so deep pages are never
// assigned zero weight. The seed itself is always 1.0.
func priorityForDepth(depth int) float64 {
	if depth <= 0 {
		return 1.0
	}
	p := 1.0 - float64(depth)*0.2
	if p < 0.1 {
		return 0.1
	}
	return p
}

// fetchPage fetches one page. On success with HTML content it returns
// the parse result; on failure or non-HTML content it returns nil and
// the page is treated as a leaf. The returned record captures the fetch
// outcome either way.
func (s *Spider) fetchPage(ctx context.Context, pageURL string, depth int) (*ParseResult, model.PageRecord) {
	rec := model.PageRecord{
		URL:       pageURL,
		Depth:     depth,
		FetchedAt: time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		rec.FetchError = err.Error()
		s.countFailed()
		return nil, rec
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		rec.FetchError = err.Error()
		s.countFailed()
		s.logger.Warn("fetch failed, treating page as leaf", "url", pageURL, "error", err)
		return nil, rec
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		rec.FetchError = err.Error()
		s.countFailed()
		s.logger.Warn("read failed, treating page as leaf", "url", pageURL, "error", err)
		return nil, rec
	}

	rec.StatusCode = resp.StatusCode
	rec.ContentType = resp.Header.Get("Content-Type")
	rec.FetchedAt = time.Now()

	sum := sha3.Sum256(body)
	rec.ContentHash = hex.EncodeToString(sum[:])

	if !strings.Contains(rec.ContentType, "text/html") {
		s.logger.Debug("non-HTML content, treating page as leaf", "url", pageURL, "content_type", rec.ContentType)
		return nil, rec
	}

	// Decode to UTF-8 before parsing; pages still declare legacy
	// charsets often enough to matter.
	reader, err := charset.NewReader(bytes.NewReader(body), rec.ContentType)
	if err != nil {
		reader = bytes.NewReader(body)
	}

	parser, err := NewParser(pageURL)
	if err != nil {
		return nil, rec
	}
	result, err := parser.Parse(reader)
	if err != nil {
		// Parse anomalies mean "no links found", not a failed page.
		s.logger.Warn("parse failed, treating page as leaf", "url", pageURL, "error", err)
		return nil, rec
	}

	rec.Title = result.Title
	return result, rec
}

// sameHost reports whether the URL's host equals the seed host.
func sameHost(rawURL, seedHost string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, seedHost)
}

// checkAndMarkVisited atomically checks membership and inserts.
// Returns true if the URL had already been visited.
func (s *Spider) checkAndMarkVisited(canonical string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.visited[canonical] {
		return true
	}
	s.visited[canonical] = true
	s.stats.Visited++
	return false
}

// isVisited checks membership without inserting.
func (s *Spider) isVisited(canonical string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.visited[canonical]
}

func (s *Spider) appendRecord(rec model.PageRecord) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.records = append(s.records, rec)
}

func (s *Spider) countCollected() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats.Collected++
}

func (s *Spider) countFailed() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats.Failed++
}

func (s *Spider) countSkippedExternal() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats.SkippedExternal++
}

func (s *Spider) countSkippedPattern() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats.SkippedPattern++
}

// Records returns the per-page fetch records in fetch order.
func (s *Spider) Records() []model.PageRecord {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	out := make([]model.PageRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Stats returns the crawl counters.
func (s *Spider) Stats() model.CrawlStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats
}

// Reset clears the spider's state, allowing it to be reused.
func (s *Spider) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visited = make(map[string]bool)
	s.records = nil
	s.stats = model.CrawlStats{}
}
