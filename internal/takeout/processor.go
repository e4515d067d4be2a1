package takeout

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/realf/photos-takeout/internal/config"
	"github.com/realf/photos-takeout/internal/model"
)

// Processor copies media files out of a Takeout tree and writes sidecar
// metadata into the copies. Per-file work is fanned out with
// errgroup.SetLimit; the default worker count of 1 keeps processing
// strictly sequential.
type Processor struct {
	// applier writes metadata into media files.
	applier Applier

	// outputDir is where processed files are written.
	outputDir string

	// workers is the maximum number of files processed concurrently.
	workers int

	// dryRun reports what would be done without writing anything.
	dryRun bool

	// skipNoSidecar skips files that lack a JSON sidecar instead of
	// copying them unmodified.
	skipNoSidecar bool

	// skipDiskCheck disables the free-space preflight.
	skipDiskCheck bool

	// diskSafetyMargin is the multiplier applied to the source size.
	diskSafetyMargin float64

	// sampleSize is the number of outputs re-read during verification.
	sampleSize int

	// logger for structured logging.
	logger *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithOutputDir sets the output directory for processed files.
func WithOutputDir(dir string) ProcessorOption {
	return func(p *Processor) {
		if dir != "" {
			p.outputDir = dir
		}
	}
}

// WithWorkers sets the number of files processed concurrently.
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithDryRun enables dry-run mode: nothing is copied or modified.
func WithDryRun(dryRun bool) ProcessorOption {
	return func(p *Processor) {
		p.dryRun = dryRun
	}
}

// WithSkipNoSidecar skips media files that have no JSON sidecar.
func WithSkipNoSidecar(skip bool) ProcessorOption {
	return func(p *Processor) {
		p.skipNoSidecar = skip
	}
}

// WithSkipDiskCheck disables the free-disk-space preflight.
func WithSkipDiskCheck(skip bool) ProcessorOption {
	return func(p *Processor) {
		p.skipDiskCheck = skip
	}
}

// WithSampleSize sets how many outputs are verified by reading EXIF back.
// Zero disables sample verification.
func WithSampleSize(n int) ProcessorOption {
	return func(p *Processor) {
		if n >= 0 {
			p.sampleSize = n
		}
	}
}

// WithProcessorLogger sets a custom logger.
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// New creates a Processor that applies metadata with the given Applier.
func New(applier Applier, opts ...ProcessorOption) *Processor {
	p := &Processor{
		applier:          applier,
		outputDir:        config.DefaultOutputDir,
		workers:          config.DefaultWorkers,
		diskSafetyMargin: config.DefaultDiskSafetyMargin,
		sampleSize:       config.DefaultSampleSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Process walks the Takeout tree rooted at sourceDir and processes every
// media file in it. It returns the collected statistics; the error is
// non-nil when files were left unprocessed or the output tree failed
// verification, which is the signal the batch loop halts on.
func (p *Processor) Process(ctx context.Context, sourceDir string) (*model.Stats, error) {
	if _, err := os.Stat(sourceDir); err != nil {
		return nil, fmt.Errorf("source directory %s: %w", sourceDir, err)
	}

	if !p.dryRun {
		if err := os.MkdirAll(p.outputDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		if !p.skipDiskCheck {
			if err := checkDiskSpace(sourceDir, p.outputDir, p.diskSafetyMargin); err != nil {
				return nil, err
			}
		}
	}

	files, err := DiscoverMedia(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", sourceDir, err)
	}

	stats := &model.Stats{TotalFiles: len(files)}
	p.logger.Info("processing media files",
		"source", sourceDir,
		"files", len(files),
		"workers", p.workers,
		"dry_run", p.dryRun,
	)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, file := range files {
		file := file
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			outcome := p.processFile(ctx, file, sourceDir)

			mu.Lock()
			outcome.record(stats)
			mu.Unlock()

			// Per-file failures are recorded in stats rather than
			// aborting the group; the caller decides based on totals.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}

	if err := p.verify(sourceDir, stats); err != nil {
		return stats, err
	}

	if len(stats.Errors) > 0 && !stats.Complete() {
		return stats, fmt.Errorf("%d of %d files failed processing (first: %s)",
			stats.TotalFiles-stats.Processed-stats.Skipped, stats.TotalFiles, stats.Errors[0])
	}

	return stats, nil
}

// fileOutcome captures what happened to one media file so the stats update
// can happen under a single lock acquisition.
type fileOutcome struct {
	hadSidecar      bool
	skipped         bool
	copied          bool
	metadataApplied bool
	metadataFailed  bool
	gpsApplied      bool
	err             string
}

// record folds the outcome into stats.
func (o fileOutcome) record(stats *model.Stats) {
	if o.hadSidecar {
		stats.WithSidecar++
	} else {
		stats.WithoutSidecar++
	}
	if o.copied {
		stats.Processed++
	}
	if o.metadataApplied {
		stats.MetadataApplied++
	}
	if o.metadataFailed {
		stats.MetadataFailed++
	}
	if o.gpsApplied {
		stats.GPSApplied++
	}
	if o.skipped {
		stats.Skipped++
	}
	if o.err != "" {
		stats.AddError(o.err)
	}
}

// processFile handles one media file: sidecar lookup, copy, metadata apply.
func (p *Processor) processFile(ctx context.Context, sourceFile, sourceRoot string) fileOutcome {
	var out fileOutcome

	rel, err := filepath.Rel(sourceRoot, sourceFile)
	if err != nil {
		out.err = fmt.Sprintf("failed to relativize %s: %v", sourceFile, err)
		return out
	}
	outputFile := filepath.Join(p.outputDir, rel)

	var md *model.Metadata
	sidecar, found := FindSidecar(sourceFile)
	out.hadSidecar = found

	if found {
		md, err = ParseSidecar(sidecar)
		if err != nil {
			p.logger.Warn("unusable sidecar", "file", rel, "error", err)
			md = nil
		}
	} else {
		p.logger.Debug("no sidecar", "file", rel)
		if p.skipNoSidecar {
			out.skipped = true
			return out
		}
	}

	if p.dryRun {
		p.logger.Debug("dry run, would copy", "file", rel, "to", outputFile)
		out.copied = true
		if md != nil && !md.IsZero() {
			out.metadataApplied = true
			out.gpsApplied = md.HasGPS
		}
		return out
	}

	if err := copyFile(sourceFile, outputFile); err != nil {
		out.err = fmt.Sprintf("failed to copy %s: %v", rel, err)
		return out
	}
	out.copied = true

	if md == nil || md.IsZero() {
		return out
	}

	if err := p.applier.Apply(ctx, outputFile, md, IsVideoFile(outputFile)); err != nil {
		out.metadataFailed = true
		out.copied = false
		out.err = err.Error()
		return out
	}

	out.metadataApplied = true
	out.gpsApplied = md.HasGPS
	return out
}

// verify checks the output tree after processing. In dry-run mode nothing
// was written, so there is nothing to verify.
func (p *Processor) verify(sourceDir string, stats *model.Stats) error {
	if p.dryRun || p.skipNoSidecar {
		return nil
	}

	missing, err := VerifyOutput(sourceDir, p.outputDir)
	if err != nil {
		return fmt.Errorf("output verification failed: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("output verification failed: %d files missing from %s (first: %s)",
			len(missing), p.outputDir, missing[0])
	}

	if p.sampleSize > 0 && stats.WithSidecar > 0 {
		results := SampleVerify(p.outputDir, p.sampleSize)
		for _, r := range results {
			p.logger.Info("sample verification", "result", r)
		}
	}

	return nil
}

// copyFile copies src to dst, creating parent directories and preserving
// the file mode and modification time.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // Source path comes from directory walk
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close() //nolint:errcheck // Best effort cleanup
		return err
	}

	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
