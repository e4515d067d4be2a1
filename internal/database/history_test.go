package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/realf/photos-takeout/internal/model"
)

// testReport builds a small batch report for persistence tests.
func testReport(workDir string) *model.BatchReport {
	report := model.NewBatchReport(workDir)
	report.StartedAt = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	report.Elapsed = 2 * time.Minute

	ok := model.NewArchiveResult(filepath.Join(workDir, "takeout-001.zip"))
	ok.PerformedSteps = []string{"extract", "process", "cleanup"}
	ok.Stats = &model.Stats{TotalFiles: 42, Processed: 42, MetadataApplied: 40}

	failed := model.NewArchiveResult(filepath.Join(workDir, "takeout-002.zip"))
	failed.FailedStep = "process"
	failed.Error = errors.New("processing failed")
	failed.ErrorMessage = "processing failed"

	report.Archives = append(report.Archives, ok, failed)
	report.FailedArchive = failed.Archive
	report.Error = failed.ErrorMessage
	return report
}

// TestOpen tests database creation and the create-if-not-exists contract.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database with default options", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer db.Close()
	})

	t.Run("refuses missing database when creation is disabled", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if err := db.Close(); err != nil {
			t.Fatal(err)
		}

		db2, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("expected reopen to succeed: %v", err)
		}
		defer db2.Close()
	})
}

// TestSaveAndLoadBatchReport tests the save, list, and get round trip.
func TestSaveAndLoadBatchReport(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	report := testReport("/photos/takeout")

	id, err := db.SaveBatchReport(ctx, report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive run ID, got %d", id)
	}

	t.Run("ListRuns returns the saved run", func(t *testing.T) {
		runs, err := db.ListRuns(ctx, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}

		r := runs[0]
		if r.ID != id {
			t.Errorf("expected ID %d, got %d", id, r.ID)
		}
		if r.WorkDir != "/photos/takeout" {
			t.Errorf("expected work dir, got %q", r.WorkDir)
		}
		if r.ArchiveCount != 2 {
			t.Errorf("expected 2 archives, got %d", r.ArchiveCount)
		}
		if r.FailedArchive != "takeout-002.zip" {
			t.Errorf("expected failed archive, got %q", r.FailedArchive)
		}
		if !r.StartedAt.Equal(report.StartedAt) {
			t.Errorf("expected started at %v, got %v", report.StartedAt, r.StartedAt)
		}
	})

	t.Run("GetRun restores the full report", func(t *testing.T) {
		got, err := db.GetRun(ctx, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("expected report, got nil")
		}
		if got.FailedArchive != report.FailedArchive {
			t.Errorf("expected failed archive %q, got %q", report.FailedArchive, got.FailedArchive)
		}
		if len(got.Archives) != 2 {
			t.Fatalf("expected 2 archives, got %d", len(got.Archives))
		}
		if got.Archives[0].Stats == nil || got.Archives[0].Stats.TotalFiles != 42 {
			t.Errorf("expected stats restored, got %+v", got.Archives[0].Stats)
		}
	})

	t.Run("GetRun returns nil for unknown ID", func(t *testing.T) {
		got, err := db.GetRun(ctx, 9999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for unknown ID, got %+v", got)
		}
	})
}

// TestListRunsOrderAndLimit tests newest-first ordering and the limit.
func TestListRunsOrderAndLimit(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		report := model.NewBatchReport("/photos/takeout")
		report.StartedAt = time.Date(2026, 8, 1+i, 9, 0, 0, 0, time.UTC)
		if _, err := db.SaveBatchReport(ctx, report); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := db.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Errorf("expected newest-first ordering, got %v then %v",
			runs[0].StartedAt, runs[1].StartedAt)
	}
}

// TestParseTimestamp tests the stored timestamp layouts.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
	}{
		{name: "RFC3339Nano", in: want.Format(time.RFC3339Nano)},
		{name: "RFC3339", in: want.Format(time.RFC3339)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseTimestamp(tt.in); !got.Equal(want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, want)
			}
		})
	}

	t.Run("garbage yields zero time", func(t *testing.T) {
		t.Parallel()
		if got := parseTimestamp("not a time"); !got.IsZero() {
			t.Errorf("expected zero time, got %v", got)
		}
	})
}
