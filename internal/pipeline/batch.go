package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/realf/photos-takeout/internal/config"
	"github.com/realf/photos-takeout/internal/model"
)

// Batch runs the per-archive pipeline over every Takeout archive in a
// working directory, strictly sequentially, halting the whole run on the
// first failure. Every iteration shares the single well-known Takeout
// directory, so extraction, processing, and removal of one archive must
// finish before the next archive may start.
type Batch struct {
	// pipelineFactory creates a fresh pipeline for each archive so no
	// state leaks between iterations.
	pipelineFactory func() *Pipeline

	// logger is used for batch-level logging.
	logger *slog.Logger

	// progress receives per-archive progress notices (usually stdout).
	progress io.Writer

	// errOut receives failure notices (usually stderr).
	errOut io.Writer
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// WithProgressWriter sets the destination for progress notices.
func WithProgressWriter(w io.Writer) BatchOption {
	return func(b *Batch) {
		b.progress = w
	}
}

// WithErrorWriter sets the destination for failure notices.
func WithErrorWriter(w io.Writer) BatchOption {
	return func(b *Batch) {
		b.errOut = w
	}
}

// NewBatch creates a Batch. The pipelineFactory is called once per archive.
func NewBatch(pipelineFactory func() *Pipeline, opts ...BatchOption) *Batch {
	b := &Batch{
		pipelineFactory: pipelineFactory,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.progress == nil {
		b.progress = os.Stdout
	}
	if b.errOut == nil {
		b.errOut = os.Stderr
	}

	return b
}

// Run enumerates *.zip archives in workDir and processes each through a
// fresh pipeline. Enumeration happens once, upfront, as a snapshot; an
// empty directory completes immediately with success. The report always
// covers every archive attempted, including the failing one.
//
// Archives are sorted lexicographically: the filesystem's natural order is
// platform-dependent, and a stable order makes reruns after a failure
// resume predictably.
func (b *Batch) Run(ctx context.Context, workDir string) (*model.BatchReport, error) {
	report := model.NewBatchReport(workDir)
	defer func() {
		report.Elapsed = time.Since(report.StartedAt)
	}()

	// filepath.Glob returns an empty slice for zero matches, never the
	// literal pattern, which is the empty-enumeration guard the batch
	// contract requires.
	archives, err := filepath.Glob(filepath.Join(workDir, config.ArchivePattern))
	if err != nil {
		report.Error = err.Error()
		return report, fmt.Errorf("failed to enumerate archives: %w", err)
	}
	sort.Strings(archives)

	if len(archives) == 0 {
		b.logger.Info("no archives found", "dir", workDir, "pattern", config.ArchivePattern)
		fmt.Fprintf(b.progress, "No %s archives found in %s\n", config.ArchivePattern, workDir)
		return report, nil
	}

	b.logger.Info("starting batch",
		"dir", workDir,
		"archives", len(archives),
	)

	for i, path := range archives {
		select {
		case <-ctx.Done():
			report.Error = ctx.Err().Error()
			return report, ctx.Err()
		default:
		}

		result := model.NewArchiveResult(path)
		fmt.Fprintf(b.progress, "[%d/%d] Processing %s...\n", i+1, len(archives), result.Archive)

		p := b.pipelineFactory()
		err := p.Execute(ctx, result)
		report.Archives = append(report.Archives, result)

		if err != nil {
			fmt.Fprintf(b.errOut, "Error processing %s: %v\n", result.Archive, err)
			report.FailedArchive = result.Archive
			report.Error = err.Error()
			b.logger.Error("batch halted",
				"archive", result.Archive,
				"step", result.FailedStep,
				"error", err,
			)
			return report, fmt.Errorf("archive %s: %w", result.Archive, err)
		}

		b.logger.Info("archive completed",
			"archive", result.Archive,
			"elapsed", result.Elapsed,
		)
	}

	return report, nil
}
