package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Extractor expands an archive into a destination directory.
// Alternative formats (tgz Takeout exports) can implement this without
// touching the pipeline.
type Extractor interface {
	// Extract expands the archive at src into the dest directory.
	// It respects context cancellation between entries.
	Extract(ctx context.Context, src, dest string) error
}

// ZipExtractor extracts zip archives using archive/zip.
type ZipExtractor struct {
	// logger for structured logging.
	logger *slog.Logger
}

// ZipExtractorOption configures a ZipExtractor.
type ZipExtractorOption func(*ZipExtractor)

// WithLogger sets a custom logger for the extractor.
func WithLogger(logger *slog.Logger) ZipExtractorOption {
	return func(e *ZipExtractor) {
		e.logger = logger
	}
}

// NewZipExtractor creates a ZipExtractor.
func NewZipExtractor(opts ...ZipExtractorOption) *ZipExtractor {
	e := &ZipExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Extract expands the zip archive at src into dest.
// File modes and modification times are preserved where the archive
// records them. Entries escaping dest are rejected.
func (e *ZipExtractor) Extract(ctx context.Context, src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", src, err)
	}
	defer r.Close()

	e.logger.Debug("extracting archive",
		"archive", src,
		"entries", len(r.File),
	)

	for _, f := range r.File {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := e.extractEntry(f, dest); err != nil {
			return fmt.Errorf("archive %s: %w", src, err)
		}
	}

	return nil
}

// extractEntry writes a single zip entry under dest.
func (e *ZipExtractor) extractEntry(f *zip.File, dest string) error {
	target, err := securePath(dest, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(target, dirMode(f)); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", f.Name, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode(f))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", f.Name, err)
	}

	if _, err := io.Copy(out, rc); err != nil { //nolint:gosec // Extracting to local disk; size bounded by the archive itself
		_ = out.Close() //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to write %s: %w", f.Name, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", f.Name, err)
	}

	// Preserve the recorded modification time; the processor relies on
	// original timestamps when no sidecar exists.
	if !f.Modified.IsZero() {
		if err := os.Chtimes(target, f.Modified, f.Modified); err != nil {
			return fmt.Errorf("failed to set times on %s: %w", f.Name, err)
		}
	}

	return nil
}

// securePath joins name under dest and rejects entries that escape it.
func securePath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))

	// filepath.Join cleans the path, so an escaping entry no longer has
	// the dest prefix.
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal entry path %q: escapes destination", name)
	}

	return target, nil
}

// fileMode returns the entry's file mode, defaulting when the archive
// records none (common for zips created on Windows).
func fileMode(f *zip.File) os.FileMode {
	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	return mode
}

// dirMode returns the entry's directory mode with a sane default.
func dirMode(f *zip.File) os.FileMode {
	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0750
	}
	return mode
}
