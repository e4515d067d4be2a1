package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/realf/photos-takeout/internal/config"
	"github.com/realf/photos-takeout/internal/model"
)

// TestNewRunCmd tests the run command definition.
func TestNewRunCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRunCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "run" {
			t.Errorf("expected use 'run', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{
			"dir", "output", "exiftool", "exiftool-timeout", "process-cmd",
			"workers", "dry-run", "skip-no-json", "skip-disk-check",
			"sample-size", "config", "json", "markdown", "report-file",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})
}

// TestBuildRunConfig tests flag-to-config translation and config file
// precedence.
func TestBuildRunConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		if home, err := os.UserHomeDir(); err == nil {
			if _, statErr := os.Stat(filepath.Join(home, config.DefaultConfigFile)); statErr == nil {
				t.Skip("config file present in home directory")
			}
		}

		workDir := t.TempDir()
		cmd := NewRunCmd()
		if err := cmd.Flags().Set("dir", workDir); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildRunConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.WorkDir != workDir {
			t.Errorf("expected work dir %q, got %q", workDir, cfg.WorkDir)
		}
		if cfg.OutputDir != config.DefaultOutputDir {
			t.Errorf("expected default output dir, got %q", cfg.OutputDir)
		}
		if cfg.Workers != config.DefaultWorkers {
			t.Errorf("expected default workers, got %d", cfg.Workers)
		}
		if !cfg.SaveToDB {
			t.Error("expected history saving enabled")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid default config: %v", err)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		workDir := t.TempDir()
		cmd := NewRunCmd()
		for name, value := range map[string]string{
			"dir":              workDir,
			"output":           "Processed",
			"workers":          "4",
			"dry-run":          "true",
			"skip-no-json":     "true",
			"skip-disk-check":  "true",
			"exiftool-timeout": "45s",
			"process-cmd":      "./process.sh",
			"json":             "true",
		} {
			if err := cmd.Flags().Set(name, value); err != nil {
				t.Fatalf("failed to set %s: %v", name, err)
			}
		}

		cfg, err := buildRunConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.OutputDir != "Processed" {
			t.Errorf("expected output 'Processed', got %q", cfg.OutputDir)
		}
		if cfg.Workers != 4 {
			t.Errorf("expected 4 workers, got %d", cfg.Workers)
		}
		if !cfg.DryRun || !cfg.SkipNoSidecar || !cfg.SkipDiskCheck {
			t.Error("expected boolean flags applied")
		}
		if cfg.ExiftoolTimeout != 45*time.Second {
			t.Errorf("expected 45s timeout, got %v", cfg.ExiftoolTimeout)
		}
		if cfg.ProcessCommand != "./process.sh" {
			t.Errorf("expected process command, got %q", cfg.ProcessCommand)
		}
		if !cfg.JSONReport {
			t.Error("expected JSON report selected")
		}
	})

	t.Run("config file applies when flags are unset", func(t *testing.T) {
		t.Parallel()

		workDir := t.TempDir()
		content := "output: FromFile\nworkers: 8\n"
		if err := os.WriteFile(filepath.Join(workDir, config.DefaultConfigFile), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewRunCmd()
		if err := cmd.Flags().Set("dir", workDir); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildRunConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.OutputDir != "FromFile" {
			t.Errorf("expected output from file, got %q", cfg.OutputDir)
		}
		if cfg.Workers != 8 {
			t.Errorf("expected 8 workers from file, got %d", cfg.Workers)
		}
	})

	t.Run("explicit flags beat the config file", func(t *testing.T) {
		t.Parallel()

		workDir := t.TempDir()
		content := "output: FromFile\nworkers: 8\n"
		if err := os.WriteFile(filepath.Join(workDir, config.DefaultConfigFile), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewRunCmd()
		for name, value := range map[string]string{
			"dir":     workDir,
			"output":  "FromFlag",
			"workers": "2",
		} {
			if err := cmd.Flags().Set(name, value); err != nil {
				t.Fatal(err)
			}
		}

		cfg, err := buildRunConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.OutputDir != "FromFlag" {
			t.Errorf("expected flag to win, got %q", cfg.OutputDir)
		}
		if cfg.Workers != 2 {
			t.Errorf("expected 2 workers from flag, got %d", cfg.Workers)
		}
	})

	t.Run("explicit missing config file fails", func(t *testing.T) {
		t.Parallel()

		cmd := NewRunCmd()
		if err := cmd.Flags().Set("dir", t.TempDir()); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("config", "/does/not/exist.yaml"); err != nil {
			t.Fatal(err)
		}

		if _, err := buildRunConfig(cmd); err == nil {
			t.Fatal("expected error for missing explicit config file")
		}
	})
}

// newTestBatchReport builds a minimal successful report.
func newTestBatchReport() *model.BatchReport {
	report := model.NewBatchReport("/photos/takeout")
	a := model.NewArchiveResult("/photos/takeout/takeout-001.zip")
	a.Stats = &model.Stats{TotalFiles: 1, Processed: 1}
	report.Archives = append(report.Archives, a)
	return report
}

// TestOutputReportToFile tests report file creation.
func TestOutputReportToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reportFile := filepath.Join(dir, "reports", "batch.json")

	cfg := config.NewConfig()
	cfg.JSONReport = true
	cfg.ReportFile = reportFile

	report := newTestBatchReport()
	if err := outputReport(cfg, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(reportFile)
	if err != nil {
		t.Fatalf("expected report file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty report file")
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}
