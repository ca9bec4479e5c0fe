// Package dockerignore decides which paths of a build context are excluded
// by a .dockerignore-style pattern list.
//
// Patterns are compiled once into a Matcher. The Matcher evaluates them in
// order and the last matching pattern wins; a negated pattern (!) re-includes
// what earlier patterns excluded. A pattern that matches a directory also
// matches everything below it.
//
// # Basic Usage
//
//	m := dockerignore.New([]string{
//	    "**/.idea",
//	    "*.tmp",
//	    "!important.tmp",
//	    "build/",
//	})
//
//	if m.IsExcluded("build/out/app.o", false) {
//	    // leave it out of the context
//	}
//
// To compile the contents of an ignore file:
//
//	content, _ := os.ReadFile(".dockerignore")
//	m := dockerignore.New(dockerignore.ParseContent(content))
//
// # Thread Safety
//
// A Matcher never changes after New returns. It holds no locks and any
// number of goroutines may call IsExcluded concurrently.
//
// # Supported Syntax
//
//   - Plain names: "debug.log" matches at any depth
//   - Leading /: "/debug.log" matches only at the context root
//   - Embedded /: "doc/frotz" is rooted at the context, like "/doc/frotz"
//   - Trailing /: "build/" matches directories only (and their contents)
//   - Single star: "*.log" matches within one path component
//   - Question mark: "?.go" matches exactly one character
//   - Classes: "[abc]", "[a-z]", "[!0-9]"
//   - Double star: "**/logs" matches at any depth, "logs/**" matches
//     everything inside logs but not logs itself
//   - Negation: "!important.log" re-includes a path
//   - Escapes: "\!", "\#", "\*" and "\ " for literal characters
//
// Leading and unescaped trailing spaces and tabs are trimmed from each line,
// as Docker's own reader does. A "#" starts a comment only in the first
// column; "  #x" is the pattern "#x".
//
// Parsing is lenient. An unterminated "[" is a literal bracket, and "**"
// mixed with other text in one component ("a**b") acts like a single "*".
// Lines that cannot produce a pattern are dropped and reported as
// ParseWarning values instead of errors.
//
// # Path Normalization
//
// Candidate paths are normalized before matching:
//
//   - Backslashes converted to forward slashes (Windows only)
//   - Leading ./ removed
//   - Leading and trailing / removed
//   - Consecutive slashes collapsed
package dockerignore
