package model

import (
	"path/filepath"
	"time"
)

// ArchiveResult records the outcome of processing a single Takeout archive.
// It accumulates state as the archive moves through the extract, process,
// and cleanup steps; the pipeline mutates one result rather than returning
// per-step values.
type ArchiveResult struct {
	// Archive is the base name of the zip file (e.g. "takeout-001.zip").
	Archive string `json:"archive"`

	// Path is the full path to the archive on disk.
	Path string `json:"path"`

	// StartedAt is when processing of this archive began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total wall-clock time spent on this archive.
	Elapsed time.Duration `json:"elapsed"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	// A step that fails is still recorded here.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Stats holds the processing statistics produced by the metadata
	// processor. Nil if the process step never ran or an external
	// command was used as the collaborator.
	Stats *Stats `json:"stats,omitempty"`

	// FailedStep names the step that failed, if any.
	FailedStep string `json:"failed_step,omitempty"`

	// Error is the error that halted this archive's pipeline.
	// Excluded from JSON; ErrorMessage carries the text.
	Error error `json:"-"`

	// ErrorMessage is the human-readable form of Error.
	ErrorMessage string `json:"error,omitempty"`
}

// NewArchiveResult creates an ArchiveResult for the archive at path.
func NewArchiveResult(path string) *ArchiveResult {
	return &ArchiveResult{
		Archive:   filepath.Base(path),
		Path:      path,
		StartedAt: time.Now(),
	}
}

// Failed reports whether this archive's pipeline halted on an error.
func (r *ArchiveResult) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}

// BatchReport summarizes a full batch run over a working directory.
type BatchReport struct {
	// WorkDir is the directory that was scanned for archives.
	WorkDir string `json:"work_dir"`

	// StartedAt is when the batch run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total wall-clock time of the batch run.
	Elapsed time.Duration `json:"elapsed"`

	// Archives contains one result per archive attempted, in order.
	// On failure the failing archive is the last entry; archives after
	// it were never touched.
	Archives []*ArchiveResult `json:"archives"`

	// FailedArchive is the base name of the archive that halted the
	// batch, or empty on full success.
	FailedArchive string `json:"failed_archive,omitempty"`

	// Error is the message of the error that halted the batch.
	Error string `json:"error,omitempty"`
}

// NewBatchReport creates a BatchReport for the given working directory.
func NewBatchReport(workDir string) *BatchReport {
	return &BatchReport{
		WorkDir:   workDir,
		StartedAt: time.Now(),
		Archives:  make([]*ArchiveResult, 0),
	}
}

// Succeeded reports whether every archive in the batch completed.
func (b *BatchReport) Succeeded() bool {
	return b.FailedArchive == "" && b.Error == ""
}

// TotalStats aggregates the processing statistics of all archives.
// Archives processed by an external command contribute nothing.
func (b *BatchReport) TotalStats() *Stats {
	total := &Stats{}
	for _, a := range b.Archives {
		if a.Stats == nil {
			continue
		}
		total.Add(a.Stats)
	}
	return total
}
