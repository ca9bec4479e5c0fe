package dockerignore

import (
	"unicode/utf8"
)

// stackStates is the pattern length up to which matchNFA keeps its state
// sets on the stack.
const stackStates = 32

// matches reports whether the pattern matches a path or any ancestor
// directory of it. parts is the normalized path split by "/".
// isDir indicates whether the full path is a directory; every proper prefix
// of parts is a directory by construction.
func (p *Pattern) matches(parts []string, isDir bool) bool {
	if len(parts) == 0 {
		return false
	}

	switch {
	case p.matchesEvery:
		// Trailing ** needs at least one component below the match point,
		// and a dirOnly variant needs that component to be a directory.
		return !p.dirOnly || isDir || len(parts) > 1
	case p.single:
		return p.matchSingle(parts, isDir)
	case p.anchored && !p.hasDouble:
		return p.matchAnchored(parts, isDir)
	default:
		return p.matchNFA(parts, isDir)
	}
}

// reachesBelow reports whether the pattern could match dir or a descendant
// of it. Only anchored patterns are narrowed, by comparing leading segments
// with dir's components.
func (p *Pattern) reachesBelow(dir []string) bool {
	if !p.anchored {
		return true
	}
	for i, seg := range p.segments {
		if i == len(dir) || seg.kind == segDoubleStar {
			return true
		}
		if !matchSegment(seg, dir[i]) {
			return false
		}
	}
	// Consumed on an ancestor of dir, which propagates down.
	return true
}

// terminalOK reports whether a match ending at component index end (the
// last consumed component) may count. Ancestors are always directories.
func (p *Pattern) terminalOK(end, last int, isDir bool) bool {
	return end < last || isDir || !p.dirOnly
}

// matchSingle handles unanchored one-component patterns by testing each
// path component in turn.
func (p *Pattern) matchSingle(parts []string, isDir bool) bool {
	seg := p.segments[0]
	last := len(parts) - 1
	for i, part := range parts {
		if !p.terminalOK(i, last, isDir) {
			return false
		}
		if matchSegment(seg, part) {
			return true
		}
	}
	return false
}

// matchAnchored handles rooted patterns without ** by positional compare.
func (p *Pattern) matchAnchored(parts []string, isDir bool) bool {
	n := len(p.segments)
	if len(parts) < n {
		return false
	}
	if !p.terminalOK(n-1, len(parts)-1, isDir) {
		return false
	}
	for i, seg := range p.segments {
		if !matchSegment(seg, parts[i]) {
			return false
		}
	}
	return true
}

// matchNFA is the general matcher. It scans path components once, tracking
// the set of pattern positions reachable after each component. Position
// len(segments) means the pattern has been fully consumed; reaching it after
// component i means the prefix parts[:i+1] matches.
//
// A non-final ** may consume zero components; a final ** must consume at
// least one. Unanchored patterns re-enter position 0 at every component.
func (p *Pattern) matchNFA(parts []string, isDir bool) bool {
	n := len(p.segments)

	var buf [2 * (stackStates + 1)]bool
	var cur, next []bool
	if n <= stackStates {
		cur, next = buf[:n+1], buf[stackStates+1:stackStates+1+n+1]
	} else {
		cur, next = make([]bool, n+1), make([]bool, n+1)
	}

	if p.anchored {
		cur[0] = true
		p.closure(cur)
	}

	last := len(parts) - 1
	for i, part := range parts {
		if !p.anchored {
			cur[0] = true
			p.closure(cur)
		}

		live := false
		clear(next)
		for j := 0; j < n; j++ {
			if !cur[j] {
				continue
			}
			seg := p.segments[j]
			if seg.kind == segDoubleStar {
				next[j] = true
				if j == n-1 {
					next[n] = true
				}
				live = true
				continue
			}
			if matchSegment(seg, part) {
				next[j+1] = true
				live = true
			}
		}
		p.closure(next)
		cur, next = next, cur

		if cur[n] && p.terminalOK(i, last, isDir) {
			return true
		}
		if !live && p.anchored {
			return false
		}
	}

	return false
}

// closure lets every non-final ** skip ahead without consuming a component.
func (p *Pattern) closure(states []bool) {
	n := len(p.segments)
	for j := 0; j < n-1; j++ {
		if states[j] && p.segments[j].kind == segDoubleStar {
			states[j+1] = true
		}
	}
}

// matchSegment matches a single pattern component against a path component.
func matchSegment(seg segment, part string) bool {
	switch seg.kind {
	case segDoubleStar:
		return true
	case segLiteral:
		return seg.value == part
	default:
		return matchGlob(seg.value, part)
	}
}

// matchGlob matches a glob component against a path component.
// Supports * (zero or more characters), ? (exactly one character),
// [...] classes and \ escapes. Runs of * (including **) act as one *.
// The scan is iterative: on mismatch it resumes from the last * with one
// more character consumed, so the worst case is len(pattern)*len(s).
func matchGlob(pattern, s string) bool {
	px, sx := 0, 0
	starP, starS := -1, 0

	for sx < len(s) {
		if px < len(pattern) {
			switch c := pattern[px]; c {
			case '*':
				for px < len(pattern) && pattern[px] == '*' {
					px++
				}
				if px == len(pattern) {
					return true
				}
				starP, starS = px, sx
				continue
			case '?':
				_, w := utf8.DecodeRuneInString(s[sx:])
				px++
				sx += w
				continue
			case '[':
				if end := classEnd(pattern, px); end >= 0 {
					r, w := utf8.DecodeRuneInString(s[sx:])
					if matchClass(pattern[px+1:end], r) {
						px = end + 1
						sx += w
						continue
					}
				} else if s[sx] == '[' {
					px++
					sx++
					continue
				}
			case '\\':
				if px+1 == len(pattern) {
					// Dangling escape is a literal backslash.
					if s[sx] == '\\' {
						px++
						sx++
						continue
					}
				} else if pattern[px+1] == s[sx] {
					px += 2
					sx++
					continue
				}
			default:
				if c == s[sx] {
					px++
					sx++
					continue
				}
			}
		}

		if starP < 0 {
			return false
		}
		_, w := utf8.DecodeRuneInString(s[starS:])
		starS += w
		px, sx = starP, starS
	}

	for px < len(pattern) && pattern[px] == '*' {
		px++
	}
	return px == len(pattern)
}

// classEnd locates the closing bracket of a character class that opens at
// pattern[start]. Returns -1 when the class is unterminated.
func classEnd(pattern string, start int) int {
	i := start + 1
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		i++
	}
	// A leading ] is a member, not the terminator.
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}
	for ; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case ']':
			return i
		}
	}
	return -1
}

// matchClass reports whether r is selected by a class body (the text between
// [ and ]). Supports negation with ! or ^, ranges and \ escapes.
func matchClass(body string, r rune) bool {
	negate := false
	if len(body) > 0 && (body[0] == '!' || body[0] == '^') {
		negate = true
		body = body[1:]
	}

	matched := false
	for len(body) > 0 {
		lo, w := classRune(body)
		body = body[w:]

		hi := lo
		if len(body) > 1 && body[0] == '-' {
			hi, w = classRune(body[1:])
			body = body[1+w:]
		}
		if lo <= r && r <= hi {
			matched = true
		}
	}

	return matched != negate
}

// classRune decodes one class member, resolving a \ escape.
func classRune(body string) (rune, int) {
	if body[0] == '\\' && len(body) > 1 {
		r, w := utf8.DecodeRuneInString(body[1:])
		return r, w + 1
	}
	return utf8.DecodeRuneInString(body)
}
