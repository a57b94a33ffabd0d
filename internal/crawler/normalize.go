package crawler

import (
	"net/url"
	"strings"
)

// IsValidURL reports whether s parses as an absolute URL with an http or
// https scheme. Anything else (relative references, mailto:, ftp:,
// unparseable input) is rejected at the point of discovery and never
// enters the crawl.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Normalize converts a URL to its canonical form, the string used as the
// entry's identity for deduplication and cycle detection.
//
// The canonical form:
//   - drops the fragment (#anchor does not change page content)
//   - lowercases scheme and host
//   - normalizes an empty path to "/" so http://example.com and
//     http://example.com/ share one identity
//   - strips a trailing "/" from any non-root path
//
// Unparseable input is returned unchanged; callers reject such values
// upstream via IsValidURL. Normalize is idempotent.
func Normalize(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return s
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	switch {
	case u.Path == "":
		u.Path = "/"
	case u.Path != "/" && strings.HasSuffix(u.Path, "/"):
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String()
}
