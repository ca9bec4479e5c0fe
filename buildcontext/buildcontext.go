// Package buildcontext walks a build context directory and packages the
// paths a dockerignore.Matcher keeps into a tar stream for a build daemon.
package buildcontext

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	dockerignore "github.com/Sriram-PR/go-dockerignore"
)

// ErrNilMatcher is returned by New when no matcher is given.
var ErrNilMatcher = errors.New("matcher is nil")

// Entry is one included path of a build context.
type Entry struct {
	// Path is slash-separated and relative to the context root.
	Path string
	// Mode holds the entry's type bits (symlinks are not followed).
	Mode fs.FileMode
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Mode.IsDir()
}

// WalkFunc is called for every included entry. rel is slash-separated and
// relative to the context root.
type WalkFunc func(rel string, d fs.DirEntry) error

// Walker enumerates the included entries of one build context.
type Walker struct {
	root    string
	matcher *dockerignore.Matcher
	logger  *log.Logger
}

// New creates a Walker rooted at root. logger may be nil.
func New(root string, m *dockerignore.Matcher, logger *log.Logger) (*Walker, error) {
	if m == nil {
		return nil, ErrNilMatcher
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving context root: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Walker{root: abs, matcher: m, logger: logger}, nil
}

// Root returns the absolute context root.
func (w *Walker) Root() string {
	return w.root
}

// Walk calls fn for every included entry in lexical order. An excluded
// directory is pruned unless a negated pattern could re-include something
// below it; then its contents are still evaluated one by one.
func (w *Walker) Walk(ctx context.Context, fn WalkFunc) error {
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if w.matcher.IsExcluded(rel, d.IsDir()) {
			if d.IsDir() && !w.matcher.CanReinclude(rel) {
				w.logger.Debug("pruning excluded directory", "path", rel)
				return filepath.SkipDir
			}
			return nil
		}

		return fn(rel, d)
	})
	if err != nil {
		return fmt.Errorf("walking context %s: %w", w.root, err)
	}
	return nil
}

// List returns the included entries in lexical order.
func (w *Walker) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := w.Walk(ctx, func(rel string, d fs.DirEntry) error {
		entries = append(entries, Entry{Path: rel, Mode: d.Type()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// WriteTar writes the included entries to out as a tar stream. Directories,
// regular files and symlinks are archived; other file types are skipped.
func (w *Walker) WriteTar(ctx context.Context, out io.Writer) error {
	tw := tar.NewWriter(out)

	err := w.Walk(ctx, func(rel string, d fs.DirEntry) error {
		return w.writeEntry(tw, rel, d)
	})
	if err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing tar stream: %w", err)
	}
	return nil
}

// writeEntry writes one header, plus content for regular files.
func (w *Walker) writeEntry(tw *tar.Writer, rel string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("stat %s: %w", rel, err)
	}

	abs := filepath.Join(w.root, filepath.FromSlash(rel))
	mode := info.Mode()

	var link string
	switch {
	case mode.IsDir(), mode.IsRegular():
	case mode&fs.ModeSymlink != 0:
		link, err = os.Readlink(abs)
		if err != nil {
			return fmt.Errorf("reading link %s: %w", rel, err)
		}
	default:
		w.logger.Debug("skipping special file", "path", rel, "mode", mode.String())
		return nil
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return fmt.Errorf("building tar header for %s: %w", rel, err)
	}
	hdr.Name = rel
	if mode.IsDir() {
		hdr.Name += "/"
	}
	hdr.Uname, hdr.Gname = "", ""

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing tar header for %s: %w", rel, err)
	}

	if !mode.IsRegular() {
		return nil
	}

	f, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("opening %s: %w", rel, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("archiving %s: %w", rel, err)
	}
	return nil
}

// Pack streams WriteTar through a pipe. The archive is produced by a
// background goroutine as the caller reads. Close releases the producer and
// returns its error, if any; closing before the end of the stream is not an
// error.
func (w *Walker) Pack(ctx context.Context) io.ReadCloser {
	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := w.WriteTar(gctx, pw)
		_ = pw.CloseWithError(err)
		return err
	})

	return &packReader{PipeReader: pr, group: g}
}

// packReader ties the read side of the pipe to its producer.
type packReader struct {
	*io.PipeReader
	group *errgroup.Group
}

// Close closes the pipe and waits for the producer.
func (r *packReader) Close() error {
	_ = r.PipeReader.Close()
	if err := r.group.Wait(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return err
	}
	return nil
}
