package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

// PatternMatcher matches slash-separated paths against glob patterns.
// "*" stops at a separator, "**" crosses separators.
type PatternMatcher struct {
	regexps []*regexp.Regexp
}

// NewPatternMatcher creates a new pattern matcher
func NewPatternMatcher(patterns []string) (*PatternMatcher, error) {
	pm := &PatternMatcher{
		regexps: make([]*regexp.Regexp, 0, len(patterns)),
	}

	for _, pattern := range patterns {
		regex, err := globToRegex(NormalizePattern(pattern))
		if err != nil {
			return nil, err
		}
		pm.regexps = append(pm.regexps, regex)
	}

	return pm, nil
}

// Match checks if a path matches any pattern
func (pm *PatternMatcher) Match(path string) bool {
	path = filepath.ToSlash(path)

	for _, regex := range pm.regexps {
		if regex.MatchString(path) {
			return true
		}
	}
	return false
}

func globToRegex(pattern string) (*regexp.Regexp, error) {
	var regex strings.Builder
	regex.WriteString("^")

	i := 0
	for i < len(pattern) {
		switch pattern[i] {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					// **/ matches zero or more leading directories
					regex.WriteString("(?:.*/)?")
					i += 3
				} else {
					regex.WriteString(".*")
					i += 2
				}
			} else {
				regex.WriteString("[^/]*")
				i++
			}
		case '?':
			regex.WriteString("[^/]")
			i++
		case '[':
			j := i + 1
			var class strings.Builder
			if j < len(pattern) && pattern[j] == '!' {
				class.WriteString("[^")
				j++
			} else {
				class.WriteString("[")
			}
			for j < len(pattern) && pattern[j] != ']' {
				class.WriteByte(pattern[j])
				j++
			}
			if j < len(pattern) {
				regex.WriteString(class.String())
				regex.WriteByte(']')
				i = j + 1
			} else {
				// unclosed bracket is a literal
				regex.WriteString(`\[`)
				i++
			}
		case '.', '+', '^', '$', '(', ')', '{', '}', '|', '\\':
			regex.WriteByte('\\')
			regex.WriteByte(pattern[i])
			i++
		default:
			regex.WriteByte(pattern[i])
			i++
		}
	}

	regex.WriteString("$")
	return regexp.Compile(regex.String())
}

// NormalizePattern normalizes a file pattern
func NormalizePattern(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	pattern = strings.TrimPrefix(pattern, "./")
	return strings.TrimSuffix(pattern, "/")
}

// ExclusionMatcher decides which paths to ignore
type ExclusionMatcher struct {
	matcher *PatternMatcher
}

// NewExclusionMatcher creates a new exclusion matcher. Bare names without a
// separator or wildcard exclude that file or directory at any depth.
func NewExclusionMatcher(patterns []string) (*ExclusionMatcher, error) {
	expanded := make([]string, 0, len(patterns)*2)
	for _, pattern := range patterns {
		pattern = NormalizePattern(pattern)
		if strings.Contains(pattern, "/") {
			expanded = append(expanded, pattern)
			continue
		}
		expanded = append(expanded, "**/"+pattern, "**/"+pattern+"/**")
	}

	matcher, err := NewPatternMatcher(expanded)
	if err != nil {
		return nil, err
	}
	return &ExclusionMatcher{matcher: matcher}, nil
}

// IsExcluded checks if a path should be excluded
func (em *ExclusionMatcher) IsExcluded(path string) bool {
	return em.matcher.Match(path)
}

// FilterPaths removes excluded paths from a list
func (em *ExclusionMatcher) FilterPaths(paths []string) []string {
	filtered := make([]string, 0, len(paths))
	for _, path := range paths {
		if !em.IsExcluded(path) {
			filtered = append(filtered, path)
		}
	}
	return filtered
}

// DefaultArchiveExclusions lists archive entries that are never extracted
func DefaultArchiveExclusions() []string {
	return []string{
		"__MACOSX",
		".DS_Store",
		"Thumbs.db",
		"desktop.ini",
	}
}

// DefaultWatchExclusions lists paths the directory watcher ignores
func DefaultWatchExclusions() []string {
	return []string{
		".git",
		".DS_Store",
		"Thumbs.db",
		"*.tmp",
		"*.swp",
		"*~",
	}
}
