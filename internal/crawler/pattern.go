package crawler

import (
	"fmt"
	"regexp"
	"strings"
)

// pattern is a compiled glob-style URL filter.
//
// Glob syntax: "*" matches any character sequence and "?" matches any
// single character. Patterns are compiled to unanchored regular
// expressions and matched against the raw URL as a substring, so
// "*/admin/*" matches https://example.com/admin/users without the caller
// having to spell out the scheme and host.
type pattern struct {
	glob string
	re   *regexp.Regexp
}

// compilePattern compiles a single glob into a pattern.
func compilePattern(glob string) (pattern, error) {
	var sb strings.Builder
	for _, r := range glob {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return pattern{}, fmt.Errorf("invalid URL pattern %q: %w", glob, err)
	}
	return pattern{glob: glob, re: re}, nil
}

// compilePatterns compiles a list of globs, preserving order.
func compilePatterns(globs []string) ([]pattern, error) {
	patterns := make([]pattern, 0, len(globs))
	for _, g := range globs {
		p, err := compilePattern(g)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// match reports whether the raw URL matches the pattern.
func (p pattern) match(rawURL string) bool {
	return p.re.MatchString(rawURL)
}

// matchAny reports whether the raw URL matches any pattern in the list.
func matchAny(patterns []pattern, rawURL string) bool {
	for _, p := range patterns {
		if p.match(rawURL) {
			return true
		}
	}
	return false
}
