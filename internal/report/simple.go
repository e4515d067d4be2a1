package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/realf/photos-takeout/internal/model"
)

// SimpleWriter outputs human-readable text reports for the terminal.
// Output is plain ASCII so it pipes cleanly to files.
type SimpleWriter struct {
	baseWriter

	// verbose enables per-archive statistics in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables per-archive detail in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the batch report as text.
func (w *SimpleWriter) Write(report *model.BatchReport) (int, error) {
	var sb strings.Builder

	divider := strings.Repeat("=", 60)

	sb.WriteString(divider + "\n")
	if report.Succeeded() {
		sb.WriteString("BATCH COMPLETE\n")
	} else {
		sb.WriteString("BATCH FAILED\n")
	}
	sb.WriteString(divider + "\n")

	fmt.Fprintf(&sb, "Directory: %s\n", report.WorkDir)
	fmt.Fprintf(&sb, "Started:   %s\n", report.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Elapsed:   %s\n", report.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&sb, "Archives:  %d\n", len(report.Archives))

	if !report.Succeeded() {
		fmt.Fprintf(&sb, "Failed at: %s\n", report.FailedArchive)
		fmt.Fprintf(&sb, "Error:     %s\n", report.Error)
	}

	for _, a := range report.Archives {
		sb.WriteString("\n")
		w.writeArchive(&sb, a)
	}

	if total := report.TotalStats(); total.TotalFiles > 0 {
		sb.WriteString("\n" + divider + "\n")
		sb.WriteString("TOTALS\n")
		sb.WriteString(divider + "\n")
		writeStats(&sb, total)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeArchive renders one archive's outcome.
func (w *SimpleWriter) writeArchive(sb *strings.Builder, a *model.ArchiveResult) {
	status := "ok"
	if a.Failed() {
		status = "FAILED (" + a.FailedStep + ")"
	}
	fmt.Fprintf(sb, "%s: %s [%s]\n", a.Archive, status, a.Elapsed.Round(time.Millisecond))

	if a.Failed() {
		fmt.Fprintf(sb, "  error: %s\n", a.ErrorMessage)
	}

	if w.verbose && a.Stats != nil {
		writeStats(sb, a.Stats)
	}
}

// writeStats renders processing counters.
func writeStats(sb *strings.Builder, s *model.Stats) {
	fmt.Fprintf(sb, "  files found:        %d\n", s.TotalFiles)
	fmt.Fprintf(sb, "  files processed:    %d\n", s.Processed)
	fmt.Fprintf(sb, "  files skipped:      %d\n", s.Skipped)
	fmt.Fprintf(sb, "  with sidecar:       %d\n", s.WithSidecar)
	fmt.Fprintf(sb, "  without sidecar:    %d\n", s.WithoutSidecar)
	fmt.Fprintf(sb, "  metadata applied:   %d\n", s.MetadataApplied)
	fmt.Fprintf(sb, "  metadata failed:    %d\n", s.MetadataFailed)
	fmt.Fprintf(sb, "  GPS applied:        %d\n", s.GPSApplied)

	if len(s.Errors) > 0 {
		fmt.Fprintf(sb, "  errors (%d):\n", len(s.Errors))
		shown := s.Errors
		// Cap the error list the way a terminal user wants it capped.
		const maxShown = 10
		if len(shown) > maxShown {
			shown = shown[:maxShown]
		}
		for _, e := range shown {
			fmt.Fprintf(sb, "    - %s\n", e)
		}
		if len(s.Errors) > maxShown {
			fmt.Fprintf(sb, "    ... and %d more\n", len(s.Errors)-maxShown)
		}
	}
}
