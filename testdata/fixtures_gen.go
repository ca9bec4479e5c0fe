//go:build ignore

// fixtures_gen writes the ignore-file fixtures used by fixtures_test.go.
//
//	go run fixtures_gen.go [dir]
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fixture is one ignore file, written line by line with its own line ending.
type fixture struct {
	name  string
	bom   bool
	eol   string
	lines []string
}

func (f fixture) content() []byte {
	var b strings.Builder
	if f.bom {
		b.WriteString("\uFEFF")
	}
	for _, l := range f.lines {
		b.WriteString(l)
		b.WriteString(f.eol)
	}
	return []byte(b.String())
}

func fixtures() []fixture {
	return []fixture{
		{
			name: "crlf.dockerignore",
			eol:  "\r\n",
			lines: []string{
				"# Windows line endings test",
				"*.log",
				"build/",
				"!important.log",
				"",
				"# Nested patterns",
				"**/temp",
				"src/**/test",
			},
		},
		{
			name: "with-bom.dockerignore",
			bom:  true,
			eol:  "\n",
			lines: []string{
				"# UTF-8 BOM test file",
				"# The BOM (EF BB BF) should be stripped during parsing",
				"",
				"*.log",
				"*.tmp",
				"build/",
				"node_modules/",
				"",
				"# Unicode patterns",
				"日本語.txt",
				"données/",
			},
		},
		{
			name: "pathological.dockerignore",
			eol:  "\n",
			lines: []string{
				"# Pathological patterns for stress testing",
				"",
				"# Multiple double-stars",
				"a/**/b/**/c",
				"a/**/b/**/c/**/d",
				"a/**/b/**/c/**/d/**/e",
				"",
				"# Double-star with wildcards",
				"**/*.log",
				"**/test_*",
				"**/*_test.go",
				"",
				"# Deeply nested double-star",
				"src/**/internal/**/generated/**",
				"",
				"# Character classes and escapes",
				"*.[oa]",
				"*~",
				"[!.]*.swp",
				`\#*#`,
				"",
				"# Complex combinations",
				"**/node_modules/**/package.json",
				"src/**/test/**/*_test.go",
			},
		},
		{
			name:  "reinclude.dockerignore",
			eol:   "\n",
			lines: reincludeLines(),
		},
		{
			name:  "realistic/large.dockerignore",
			eol:   "\n",
			lines: largeLines(),
		},
	}
}

// reincludeLines is laid out the way source.Load assembles a context's
// list: built-ins, the file itself, then the rooted re-inclusions.
func reincludeLines() []string {
	return []string{
		"# Built-in patterns come first so the file can override them.",
		"**/.idea",
		"**/.vs",
		"!/.vs",
		"",
		"# Dependencies, keeping their licenses",
		"vendor/",
		"!vendor/**/LICENSE",
		"node_modules/",
		"",
		"# Generated code, except the checked-in stub",
		"src/**/gen/",
		"!src/**/gen/keep.go",
		"",
		"# Docs: only the top-level README ships",
		"*.md",
		"!/README.md",
		"docs/*",
		"!docs/index.html",
		"",
		"# Appended by the loader",
		"!/.dockerignore",
		"!/Dockerfile",
	}
}

// largeLines builds several hundred patterns for benchmarks.
func largeLines() []string {
	lines := []string{"# Large .dockerignore for benchmark testing", ""}

	lines = append(lines,
		"*.log", "*.tmp", "*.bak", "*.swp", "*.swo",
		"build/", "dist/", "out/", "target/",
		"node_modules/", "vendor/", ".venv/",
		".git/", ".svn/", ".hg/",
		"**/.idea", "**/.vscode", "*.sublime-*",
		".DS_Store", "Thumbs.db", "desktop.ini",
		"*.pyc", "*.pyo", "**/__pycache__/",
		"*.class", "*.jar",
		"*.o", "*.a", "*.so", "*.dylib",
		"*.exe", "*.dll",
		"docker-compose*.yml", "Dockerfile.*",
	)

	lines = append(lines, "", "# Generated patterns")
	prefixes := []string{"", "src/", "lib/", "pkg/", "internal/", "test/"}
	extensions := []string{".log", ".tmp", ".cache", ".out", ".gen"}
	for range 20 {
		for _, prefix := range prefixes {
			for _, ext := range extensions {
				lines = append(lines, prefix+"*"+ext)
			}
		}
	}

	lines = append(lines, "", "# Double-star patterns")
	for i := range 10 {
		lines = append(lines, fmt.Sprintf("**/generated%d/", i), fmt.Sprintf("**/.cache%d/", i))
	}

	return append(lines,
		"", "# Negations",
		"!important.log",
		"!.gitkeep",
		"!build/release/",
		"!Dockerfile.prod",
	)
}

func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	for _, f := range fixtures() {
		path := filepath.Join(dir, filepath.FromSlash(f.name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "fixtures_gen: %v\n", err)
			os.Exit(1)
		}
		data := f.content()
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "fixtures_gen: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\t%d bytes\n", path, len(data))
	}
}
