package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/realf/photos-takeout/internal/model"
)

// MarkdownWriter outputs batch reports in GitHub-flavored Markdown.
// This format is designed for sharing and archiving run results.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the batch report in Markdown format.
func (w *MarkdownWriter) Write(report *model.BatchReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeArchives(md, report)
	w.writeTotals(md, report)
	w.writeAlert(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the run summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.BatchReport) {
	md.H1("Takeout Batch Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Directory", "`" + report.WorkDir + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
			{"Archives", strconv.Itoa(len(report.Archives))},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell for the summary table.
func (w *MarkdownWriter) statusText(report *model.BatchReport) string {
	if report.Succeeded() {
		return "✅ Complete"
	}
	return "❌ Failed at `" + report.FailedArchive + "`"
}

// writeArchives writes the per-archive results table.
func (w *MarkdownWriter) writeArchives(md *markdown.Markdown, report *model.BatchReport) {
	md.H2("Archives")
	md.PlainText("")

	if len(report.Archives) == 0 {
		md.PlainText("No archives found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Archives))
	for _, a := range report.Archives {
		status := "✅"
		if a.Failed() {
			status = "❌ " + a.FailedStep
		}

		files, applied, gps := "-", "-", "-"
		if a.Stats != nil {
			files = strconv.Itoa(a.Stats.TotalFiles)
			applied = strconv.Itoa(a.Stats.MetadataApplied)
			gps = strconv.Itoa(a.Stats.GPSApplied)
		}

		rows = append(rows, []string{
			"`" + a.Archive + "`",
			status,
			files,
			applied,
			gps,
			a.Elapsed.Round(time.Millisecond).String(),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Archive", "Status", "Files", "Metadata", "GPS", "Elapsed"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTotals writes the aggregated statistics table.
func (w *MarkdownWriter) writeTotals(md *markdown.Markdown, report *model.BatchReport) {
	total := report.TotalStats()
	if total.TotalFiles == 0 {
		return
	}

	md.H2("Totals")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Counter", "Value"},
		Rows: [][]string{
			{"Files found", strconv.Itoa(total.TotalFiles)},
			{"Files processed", strconv.Itoa(total.Processed)},
			{"Files skipped", strconv.Itoa(total.Skipped)},
			{"With sidecar", strconv.Itoa(total.WithSidecar)},
			{"Without sidecar", strconv.Itoa(total.WithoutSidecar)},
			{"Metadata applied", strconv.Itoa(total.MetadataApplied)},
			{"Metadata failed", strconv.Itoa(total.MetadataFailed)},
			{"GPS applied", strconv.Itoa(total.GPSApplied)},
		},
	})
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the batch outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.BatchReport) {
	switch {
	case !report.Succeeded():
		md.Cautionf(
			"The batch halted at `%s`: %s. Remaining archives were not touched; the extracted `Takeout` directory may remain on disk for inspection.",
			report.FailedArchive, report.Error,
		)
	case len(report.Archives) == 0:
		md.Note("No `*.zip` archives were found in the working directory.")
	default:
		md.Tip(fmt.Sprintf("All %d archives were processed and cleaned up.", len(report.Archives)))
	}
	md.PlainText("")
}
