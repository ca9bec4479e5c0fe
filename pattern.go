package dockerignore

import (
	"strings"
)

// ParseWarning represents a warning from parsing an ignore pattern.
// Warnings are generated for lines that are dropped during compilation.
// They never stop compilation of the remaining patterns.
type ParseWarning struct {
	Pattern string // The problematic pattern
	Message string // Human-readable warning message
	Line    int    // Position in the pattern list (1-indexed)
}

// segmentKind is decided once at compile time so matching never re-parses
// pattern text.
type segmentKind uint8

const (
	segLiteral    segmentKind = iota // compared byte for byte
	segGlob                          // contains *, ?, [...] or \ escapes
	segDoubleStar                    // ** as a whole component
)

// segment represents one component of a pattern split by "/".
type segment struct {
	value string // literal or glob text (empty for **)
	kind  segmentKind
}

// Pattern is one compiled ignore rule. It is never mutated after Compile
// returns it.
type Pattern struct {
	source   string    // original pattern (for debugging/reporting)
	segments []segment // parsed pattern components for matching
	line     int       // position in the pattern list (1-indexed)
	negate   bool      // true if pattern started with !
	dirOnly  bool      // true if pattern ended with /
	anchored bool      // true if pattern is rooted at the context directory

	// strategy fields, derived from segments
	single       bool // unanchored, one non-** component
	hasDouble    bool // at least one ** component
	matchesEvery bool // pattern is a bare **
}

// Compile parses a single raw pattern. It reports ok == false for empty
// lines, comments and lines that carry no pattern once ! and / are stripped.
// Unrecognized syntax is treated as literal text; Compile never fails.
func Compile(raw string) (Pattern, bool) {
	p, _ := compileLine(raw, 0)
	if p == nil {
		return Pattern{}, false
	}
	return *p, true
}

// compileLines compiles raw patterns in order, dropping lines that yield no
// pattern. Returns compiled patterns and warnings for dropped lines.
func compileLines(lines []string) ([]Pattern, []ParseWarning) {
	patterns := make([]Pattern, 0, len(lines))
	var warnings []ParseWarning

	for i, line := range lines {
		p, warning := compileLine(line, i+1)
		if warning != nil {
			warnings = append(warnings, *warning)
		}
		if p != nil {
			patterns = append(patterns, *p)
		}
	}

	return patterns, warnings
}

// compileLine parses a single line of an ignore file.
// Returns a nil pattern for empty lines, comments, and patterns that become
// empty after processing; the latter also produce a warning.
func compileLine(line string, lineNum int) (*Pattern, *ParseWarning) {
	// Step 1: Trim trailing whitespace (unless escaped)
	line = trimTrailingWhitespace(line)

	// Step 2: Skip comments, then leading whitespace and blank lines (no
	// warning). A # is a comment only in the first column.
	if strings.HasPrefix(line, "#") {
		return nil, nil
	}
	line = strings.TrimLeft(line, " \t")
	if line == "" {
		return nil, nil
	}

	original := line

	// Step 3: Directory-only (trailing /)
	dirOnly := false
	if strings.HasSuffix(line, "/") {
		dirOnly = true
		line = line[:len(line)-1]
	}

	// Step 4: Negation and \! escape.
	// \! must be checked first so an escaped bang stays literal.
	negate := false
	if strings.HasPrefix(line, "\\!") {
		line = line[1:]
	} else if strings.HasPrefix(line, "!") {
		negate = true
		line = line[1:]
	}

	// \# after negation supports !\#foo
	if strings.HasPrefix(line, "\\#") {
		line = line[1:]
	}

	if line == "" {
		return nil, &ParseWarning{
			Line:    lineNum,
			Pattern: original,
			Message: "pattern is empty after processing",
		}
	}

	// A lone trailing backslash escapes nothing and can never match.
	if strings.HasSuffix(line, "\\") {
		bs := 0
		for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
			bs++
		}
		if bs%2 == 1 {
			return nil, &ParseWarning{
				Line:    lineNum,
				Pattern: original,
				Message: "trailing backslash is invalid (pattern never matches)",
			}
		}
	}

	// Step 5: Anchoring
	anchored, line := determineAnchoring(line)

	// Step 6: Components
	segments := parseSegments(line)
	if len(segments) == 0 {
		return nil, &ParseWarning{
			Line:    lineNum,
			Pattern: original,
			Message: "pattern is empty after removing slashes",
		}
	}

	p := &Pattern{
		source:   original,
		line:     lineNum,
		negate:   negate,
		dirOnly:  dirOnly,
		anchored: anchored,
		segments: segments,
	}
	p.classify()
	return p, nil
}

// determineAnchoring resolves the anchoring state of a pattern line.
// A pattern is anchored if it starts with / or contains / anywhere other
// than in a leading **/ prefix.
func determineAnchoring(line string) (bool, string) {
	if strings.HasPrefix(line, "/") {
		return true, strings.TrimLeft(line, "/")
	}
	rest := line
	for strings.HasPrefix(rest, "**/") {
		rest = strings.TrimLeft(rest[3:], "/")
	}
	return strings.Contains(rest, "/"), line
}

// parseSegments splits a pattern by "/" and classifies each component.
// Consecutive ** components collapse into one.
func parseSegments(pattern string) []segment {
	parts := strings.Split(pattern, "/")
	segments := make([]segment, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			continue
		}

		if part == "**" {
			if n := len(segments); n > 0 && segments[n-1].kind == segDoubleStar {
				continue
			}
			segments = append(segments, segment{kind: segDoubleStar})
			continue
		}

		seg := segment{value: part, kind: segLiteral}
		if hasGlobMeta(part) {
			seg.kind = segGlob
		}
		segments = append(segments, seg)
	}

	return segments
}

// hasGlobMeta reports whether a component needs glob matching. An
// unterminated [ does not count; it is literal text.
func hasGlobMeta(part string) bool {
	for i := 0; i < len(part); i++ {
		switch part[i] {
		case '*', '?', '\\':
			return true
		case '[':
			if classEnd(part, i) >= 0 {
				return true
			}
		}
	}
	return false
}

// classify picks the match strategy for the pattern.
func (p *Pattern) classify() {
	for _, seg := range p.segments {
		if seg.kind == segDoubleStar {
			p.hasDouble = true
		}
	}
	p.matchesEvery = len(p.segments) == 1 && p.hasDouble
	p.single = !p.anchored && len(p.segments) == 1 && !p.hasDouble
}

// lowered returns a copy of p with literal and glob text lower-cased.
func (p Pattern) lowered() Pattern {
	segs := make([]segment, len(p.segments))
	for i, seg := range p.segments {
		seg.value = strings.ToLower(seg.value)
		segs[i] = seg
	}
	p.segments = segs
	return p
}

// String returns the pattern as written in the source list.
func (p Pattern) String() string {
	return p.source
}

// Negated reports whether the pattern re-includes what it matches.
func (p Pattern) Negated() bool { return p.negate }

// DirOnly reports whether the pattern matches only directories.
func (p Pattern) DirOnly() bool { return p.dirOnly }

// Anchored reports whether the pattern is rooted at the context directory.
func (p Pattern) Anchored() bool { return p.anchored }

// Line returns the 1-indexed position of the pattern in its source list.
// Patterns built with Compile report 0.
func (p Pattern) Line() int { return p.line }

// Flags returns the names of the flags set on the pattern, in the order
// negate, dirOnly, anchored.
func (p Pattern) Flags() []string {
	var flags []string
	if p.negate {
		flags = append(flags, "negate")
	}
	if p.dirOnly {
		flags = append(flags, "dirOnly")
	}
	if p.anchored {
		flags = append(flags, "anchored")
	}
	return flags
}
