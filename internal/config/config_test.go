package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// TestNewConfig tests default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("expected output dir %q, got %q", DefaultOutputDir, cfg.OutputDir)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("expected %d workers, got %d", DefaultWorkers, cfg.Workers)
	}
	if cfg.ExiftoolTimeout != DefaultExiftoolTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultExiftoolTimeout, cfg.ExiftoolTimeout)
	}
	if cfg.SampleSize != DefaultSampleSize {
		t.Errorf("expected sample size %d, got %d", DefaultSampleSize, cfg.SampleSize)
	}
	if cfg.DryRun || cfg.Verbose || cfg.SkipNoSidecar || cfg.SkipDiskCheck {
		t.Error("expected boolean options to default to false")
	}
}

// TestConfigValidate tests validation rules.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: ErrInvalidWorkers,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Workers = -2 },
			wantErr: ErrInvalidWorkers,
		},
		{
			name:    "zero exiftool timeout",
			mutate:  func(c *Config) { c.ExiftoolTimeout = 0 },
			wantErr: ErrInvalidExiftoolTimeout,
		},
		{
			name:    "negative sample size",
			mutate:  func(c *Config) { c.SampleSize = -1 },
			wantErr: ErrInvalidSampleSize,
		},
		{
			name:    "zero sample size is valid",
			mutate:  func(c *Config) { c.SampleSize = 0 },
			wantErr: nil,
		},
		{
			name: "json and markdown conflict",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "empty output dir",
			mutate:  func(c *Config) { c.OutputDir = "" },
			wantErr: ErrEmptyOutputDir,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestXDGDirs tests the XDG path helpers.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if dir := XDGDataDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected data dir ending in %q, got %q", AppName, dir)
	}
	if dir := XDGConfigDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected config dir ending in %q, got %q", AppName, dir)
	}
}

// TestDefaults sanity-checks domain constants other packages rely on.
func TestDefaults(t *testing.T) {
	t.Parallel()

	if ArchivePattern != "*.zip" {
		t.Errorf("unexpected archive pattern %q", ArchivePattern)
	}
	if TakeoutDirName != "Takeout" {
		t.Errorf("unexpected takeout dir name %q", TakeoutDirName)
	}
	if DefaultExiftoolTimeout < time.Second {
		t.Errorf("suspiciously small exiftool timeout %v", DefaultExiftoolTimeout)
	}
	if DefaultDiskSafetyMargin <= 1.0 {
		t.Errorf("disk safety margin must exceed 1.0, got %v", DefaultDiskSafetyMargin)
	}
}
