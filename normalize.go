package dockerignore

import (
	"bytes"
	"runtime"
	"strings"
)

// normalizePath brings a candidate path into the slash-separated relative
// form the matcher compares against: backslashes become slashes on Windows,
// runs of slashes collapse, leading "./" and "/" are stripped repeatedly and
// a trailing slash is dropped. "." and "/" normalize to "".
//
// Patterns are not passed through here; their escapes must survive.
func normalizePath(p string) string {
	// Backslash is a legal filename byte outside Windows.
	if runtime.GOOS == "windows" {
		p = strings.ReplaceAll(p, "\\", "/")
	}

	if strings.Contains(p, "//") {
		p = collapseSlashes(p)
	}

	for {
		switch {
		case strings.HasPrefix(p, "./"):
			p = p[2:]
			continue
		case strings.HasPrefix(p, "/"):
			p = p[1:]
			continue
		}
		break
	}
	if p == "." {
		return ""
	}
	return strings.TrimSuffix(p, "/")
}

func collapseSlashes(p string) string {
	buf := make([]byte, 0, len(p))
	for i := 0; i < len(p); i++ {
		if p[i] == '/' && len(buf) > 0 && buf[len(buf)-1] == '/' {
			continue
		}
		buf = append(buf, p[i])
	}
	return string(buf)
}

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	crlf    = []byte("\r\n")
	cr      = []byte("\r")
	lf      = []byte("\n")
)

// normalizeContent strips any leading UTF-8 BOMs and turns CRLF and lone CR
// line endings into LF.
func normalizeContent(content []byte) []byte {
	for bytes.HasPrefix(content, utf8BOM) {
		content = content[len(utf8BOM):]
	}
	if bytes.IndexByte(content, '\r') < 0 {
		return content
	}
	content = bytes.ReplaceAll(content, crlf, lf)
	return bytes.ReplaceAll(content, cr, lf)
}

// trimTrailingWhitespace drops trailing spaces and tabs. An odd run of
// backslashes before the whitespace escapes one space, which is kept without
// its backslash: `foo\ ` becomes "foo ", `foo\\ ` becomes `foo\\`.
func trimTrailingWhitespace(line string) string {
	end := len(line)
	for end > 0 && (line[end-1] == ' ' || line[end-1] == '\t') {
		end--
	}
	if end == len(line) {
		return line
	}

	bs := 0
	for i := end - 1; i >= 0 && line[i] == '\\'; i-- {
		bs++
	}
	if bs%2 == 1 && line[end] == ' ' {
		return line[:end-1] + " "
	}
	return line[:end]
}

// splitPath splits a normalized path on "/", skipping empty components.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
