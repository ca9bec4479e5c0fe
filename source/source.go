// Package source assembles the ordered pattern list for a build context:
// built-in patterns, then the lines of the context's ignore file, then the
// re-inclusions for the files the build daemon always needs.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	dockerignore "github.com/Sriram-PR/go-dockerignore"
)

const (
	// DefaultIgnoreFileName is the ignore file looked up in the context directory.
	DefaultIgnoreFileName = ".dockerignore"
	// DefaultDockerfile is the Dockerfile name used when none is given.
	DefaultDockerfile = "Dockerfile"
)

// DefaultBuiltinPatterns are evaluated before the ignore file so that the
// file can still re-include them.
var DefaultBuiltinPatterns = []string{"**/.idea", "**/.vs"}

// ErrEmptyDir is returned when Options.Dir is empty.
var ErrEmptyDir = errors.New("context directory is empty")

// Options configures pattern assembly.
type Options struct {
	// Dir is the build context directory holding the ignore file.
	Dir string

	// Dockerfile is the Dockerfile path relative to Dir.
	// Default: DefaultDockerfile.
	Dockerfile string

	// IgnoreFileName is the ignore file name, also used as the suffix of the
	// Dockerfile-specific ignore file (<Dockerfile><IgnoreFileName>).
	// Default: DefaultIgnoreFileName.
	IgnoreFileName string

	// BuiltinPatterns are placed first. nil means DefaultBuiltinPatterns;
	// use an empty non-nil slice to disable them.
	BuiltinPatterns []string

	// Logger receives debug and warning output. nil discards it.
	Logger *log.Logger
}

// withDefaults fills zero-valued options with defaults.
func (o Options) withDefaults() Options {
	if o.Dockerfile == "" {
		o.Dockerfile = DefaultDockerfile
	}
	if o.IgnoreFileName == "" {
		o.IgnoreFileName = DefaultIgnoreFileName
	}
	if o.BuiltinPatterns == nil {
		o.BuiltinPatterns = DefaultBuiltinPatterns
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// PatternList is the final ordered pattern list for one build context.
type PatternList struct {
	// Path is the ignore file that was read, empty if none existed.
	Path string

	// Patterns holds built-ins, file lines and re-inclusions, in that order.
	Patterns []string

	logger *log.Logger
}

// Matcher compiles the pattern list. Parse warnings are logged.
func (l *PatternList) Matcher(opts dockerignore.MatcherOptions) *dockerignore.Matcher {
	logger := l.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.WarningHandler == nil {
		opts.WarningHandler = func(w dockerignore.ParseWarning) {
			logger.Warn("ignoring pattern", "pattern", w.Pattern, "position", w.Line, "reason", w.Message)
		}
	}
	return dockerignore.NewWithOptions(l.Patterns, opts)
}

// NecessaryPatterns returns the negated patterns that keep the ignore file
// and the Dockerfile in the context. The daemon needs both even though
// ADD and COPY never copy them into the image. Both are rooted at the
// context directory, so a file of the same name deeper in the tree is not
// re-included.
func NecessaryPatterns(ignoreFileName, dockerfile string) []string {
	return []string{rooted(ignoreFileName), rooted(dockerfile)}
}

// rooted turns a context-relative file path into an anchored negation.
func rooted(name string) string {
	return "!/" + strings.TrimPrefix(filepath.ToSlash(filepath.Clean(name)), "/")
}

// ResolveIgnoreFile returns the ignore file for the context. A
// Dockerfile-specific file (<Dockerfile><IgnoreFileName>) takes precedence
// over <IgnoreFileName>. If neither exists, the generic path is returned
// with exists == false; that is not an error.
func ResolveIgnoreFile(opts Options) (path string, exists bool, err error) {
	if opts.Dir == "" {
		return "", false, ErrEmptyDir
	}
	opts = opts.withDefaults()

	candidates := []string{
		filepath.Join(opts.Dir, filepath.FromSlash(opts.Dockerfile)+opts.IgnoreFileName),
		filepath.Join(opts.Dir, opts.IgnoreFileName),
	}

	for _, candidate := range candidates {
		info, statErr := os.Stat(candidate)
		if statErr != nil {
			if errors.Is(statErr, fs.ErrNotExist) {
				continue
			}
			return "", false, fmt.Errorf("checking ignore file %s: %w", candidate, statErr)
		}
		if info.IsDir() {
			continue
		}
		return candidate, true, nil
	}

	return candidates[1], false, nil
}

// Load assembles the pattern list for the context described by opts.
func Load(ctx context.Context, opts Options) (*PatternList, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("loading ignore patterns: %w", ctx.Err())
	default:
	}

	opts = opts.withDefaults()

	path, exists, err := ResolveIgnoreFile(opts)
	if err != nil {
		return nil, err
	}

	var fileLines []string
	if exists {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading ignore file %s: %w", path, err)
		}
		fileLines = dockerignore.ParseContent(content)
		opts.Logger.Debug("read ignore file", "path", path, "lines", len(fileLines))
	} else {
		opts.Logger.Debug("no ignore file", "path", path)
		path = ""
	}

	necessary := NecessaryPatterns(opts.IgnoreFileName, opts.Dockerfile)

	patterns := make([]string, 0, len(opts.BuiltinPatterns)+len(fileLines)+len(necessary))
	patterns = append(patterns, opts.BuiltinPatterns...)
	patterns = append(patterns, fileLines...)
	patterns = append(patterns, necessary...)

	return &PatternList{
		Path:     path,
		Patterns: patterns,
		logger:   opts.Logger,
	}, nil
}
