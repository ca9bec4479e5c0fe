package dockerignore

import (
	"strings"
)

// Verdict is the outcome of evaluating a path against a Matcher.
type Verdict uint8

const (
	// Included means the path goes into the build context.
	Included Verdict = iota
	// Excluded means the path is left out of the build context.
	Excluded
)

// String returns "included" or "excluded".
func (v Verdict) String() string {
	if v == Excluded {
		return "excluded"
	}
	return "included"
}

// MatchResult provides detailed information about a match decision.
type MatchResult struct {
	// Pattern is the raw text of the last matching pattern (empty if Matched == false).
	// If multiple patterns matched, this is the final decisive one.
	Pattern string

	// Line is the 1-indexed position of Pattern in the list given to New.
	// Zero if Matched == false.
	Line int

	// Excluded indicates the final decision: true if the path is left out.
	// This accounts for negation patterns.
	Excluded bool

	// Matched indicates whether any pattern matched the path (before considering negation).
	// If false, no patterns matched and the path is included (default behavior).
	Matched bool

	// Negated indicates whether the decisive pattern was a negation (started with !).
	// When Negated == true and Matched == true, the path was re-included.
	Negated bool
}

// Verdict returns the result as a Verdict.
func (r MatchResult) Verdict() Verdict {
	if r.Excluded {
		return Excluded
	}
	return Included
}

// WarningHandler is called for each parse warning if set.
type WarningHandler func(warning ParseWarning)

// MatcherOptions configures Matcher behavior.
type MatcherOptions struct {
	// CaseInsensitive enables case-insensitive matching.
	// Default: false (case-sensitive, byte-wise).
	CaseInsensitive bool

	// WarningHandler, if set, receives parse warnings while New compiles the
	// patterns. Warnings are then not collected by the Matcher.
	WarningHandler WarningHandler
}

// Matcher holds a compiled, ordered pattern list.
//
// A Matcher is immutable once constructed. It holds no locks and is safe for
// concurrent use by any number of goroutines.
type Matcher struct {
	patterns  []Pattern
	warnings  []ParseWarning
	opts      MatcherOptions
	negations bool
}

// New compiles the raw patterns, in order, into a Matcher with default
// options. Empty lines and comments are dropped. A nil or empty list yields a
// Matcher that excludes nothing.
func New(patterns []string) *Matcher {
	return NewWithOptions(patterns, MatcherOptions{})
}

// NewWithOptions compiles the raw patterns into a Matcher with custom options.
func NewWithOptions(patterns []string, opts MatcherOptions) *Matcher {
	compiled, warnings := compileLines(patterns)

	m := &Matcher{
		patterns: compiled,
		opts:     opts,
	}

	if opts.CaseInsensitive {
		for i := range m.patterns {
			m.patterns[i] = m.patterns[i].lowered()
		}
	}

	for i := range m.patterns {
		if m.patterns[i].negate {
			m.negations = true
			break
		}
	}

	if opts.WarningHandler != nil {
		for _, w := range warnings {
			opts.WarningHandler(w)
		}
	} else {
		m.warnings = warnings
	}

	return m
}

// ParseContent splits ignore-file content into raw pattern lines.
//
// Input normalization (applied automatically):
//   - UTF-8 BOM is stripped if present
//   - CRLF and CR line endings are normalized to LF
//
// Comments and blank lines are kept; New drops them, so line positions
// reported in warnings and MatchResult stay aligned with the file.
func ParseContent(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	content = normalizeContent(content)
	lines := strings.Split(string(content), "\n")

	// A trailing newline does not start another line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// Warnings returns the parse warnings collected by New.
// Only populated if no WarningHandler was set.
func (m *Matcher) Warnings() []ParseWarning {
	if len(m.warnings) == 0 {
		return nil
	}
	result := make([]ParseWarning, len(m.warnings))
	copy(result, m.warnings)
	return result
}

// IsExcluded returns true if the path is left out of the build context.
// path should be relative to the context directory. Forward slashes are
// preferred; on Windows backslashes are normalized to forward slashes.
// isDir indicates whether the path is a directory.
func (m *Matcher) IsExcluded(path string, isDir bool) bool {
	return m.MatchWithReason(path, isDir).Excluded
}

// Verdict returns Included or Excluded for the path.
func (m *Matcher) Verdict(path string, isDir bool) Verdict {
	return m.MatchWithReason(path, isDir).Verdict()
}

// MatchWithReason returns detailed information about why a path matches.
//
// Result interpretation:
//   - Matched == false: No patterns matched; path is included (default)
//   - Matched == true, Excluded == true: Path is excluded by Pattern
//   - Matched == true, Excluded == false: Path was re-included by negation Pattern
func (m *Matcher) MatchWithReason(path string, isDir bool) MatchResult {
	path = normalizePath(path)
	if path == "" {
		return MatchResult{}
	}
	if m.opts.CaseInsensitive {
		path = strings.ToLower(path)
	}

	parts := splitPath(path)

	var result MatchResult

	// Evaluate patterns in order (last match wins)
	for i := range m.patterns {
		p := &m.patterns[i]

		if p.matches(parts, isDir) {
			result.Matched = true
			result.Pattern = p.source
			result.Line = p.line
			result.Negated = p.negate
			result.Excluded = !p.negate
		}
	}

	return result
}

// Patterns returns a copy of the compiled pattern list in evaluation order.
func (m *Matcher) Patterns() []Pattern {
	out := make([]Pattern, len(m.patterns))
	copy(out, m.patterns)
	return out
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// HasNegations reports whether any pattern re-includes paths.
func (m *Matcher) HasNegations() bool {
	return m.negations
}

// CanReinclude reports whether a negated pattern could match dir or any path
// below it. When it returns false, everything under an excluded dir stays
// excluded and a tree walker may skip the directory.
//
// The answer is conservative: an unanchored negation, or one that reaches a
// ** before it diverges from dir, always counts.
func (m *Matcher) CanReinclude(dir string) bool {
	if !m.negations {
		return false
	}
	dir = normalizePath(dir)
	if m.opts.CaseInsensitive {
		dir = strings.ToLower(dir)
	}
	parts := splitPath(dir)

	for i := range m.patterns {
		p := &m.patterns[i]
		if p.negate && p.reachesBelow(parts) {
			return true
		}
	}
	return false
}
