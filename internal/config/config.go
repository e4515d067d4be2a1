package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Directory names and the archive pattern follow the Google Takeout
// conventions; the rest are conservative defaults that match the behavior
// of a plain, flagless invocation.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "photos-takeout"

	// ArchivePattern matches Takeout archives in the working directory.
	// Enumeration is non-recursive and happens once, as a snapshot,
	// at the start of a batch run.
	ArchivePattern = "*.zip"

	// TakeoutDirName is the directory Google Takeout archives expand into.
	// It is a fixed, well-known path: extraction produces it, the
	// processor reads it, and cleanup removes it.
	TakeoutDirName = "Takeout"

	// DefaultOutputDir is where processed media files are written.
	DefaultOutputDir = "Output"

	// DefaultWorkers is the number of files processed concurrently.
	// 1 keeps processing strictly sequential, which is the safest
	// default when exiftool writes in place.
	DefaultWorkers = 1

	// DefaultExiftoolTimeout bounds a single exiftool invocation.
	// 30 seconds is generous even for large video files on slow disks.
	DefaultExiftoolTimeout = 30 * time.Second

	// DefaultSampleSize is how many processed files are re-read to
	// verify that metadata actually landed.
	DefaultSampleSize = 5

	// DefaultDiskSafetyMargin is the multiplier applied to the source
	// tree size when checking free disk space before copying. 1.2
	// leaves headroom for exiftool temporary files.
	DefaultDiskSafetyMargin = 1.2
)

// Config holds all configuration options for a batch run.
// It is populated from CLI flags (optionally seeded from a YAML config
// file) and passed through the application via dependency injection
// rather than global state.
type Config struct {
	// WorkDir is the directory scanned for *.zip archives. Empty means
	// the process's current working directory.
	WorkDir string

	// OutputDir is where the processor writes media files, relative to
	// WorkDir unless absolute.
	OutputDir string

	// ExiftoolPath is an explicit path to the exiftool binary.
	// Empty means auto-detect via PATH and common install locations.
	ExiftoolPath string

	// ExiftoolTimeout bounds each exiftool invocation.
	ExiftoolTimeout time.Duration

	// ProcessCommand, when set, replaces the built-in processor with an
	// external program invoked with no arguments from WorkDir. Its exit
	// status is the success/failure signal.
	ProcessCommand string

	// Workers is the number of media files processed concurrently.
	Workers int

	// DryRun reports what would be done without writing anything.
	DryRun bool

	// Verbose enables debug-level log output.
	Verbose bool

	// SkipNoSidecar skips media files that have no JSON sidecar instead
	// of copying them unmodified.
	SkipNoSidecar bool

	// SkipDiskCheck disables the free-disk-space preflight.
	SkipDiskCheck bool

	// SampleSize is the number of processed files to verify by reading
	// their EXIF data back. 0 disables sample verification.
	SampleSize int

	// JSONReport selects JSON report output. Mutually exclusive with
	// MarkdownReport; the default is a human-readable summary.
	JSONReport bool

	// MarkdownReport selects Markdown report output.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit config file path. Empty means search
	// the working directory and then the home directory.
	ConfigFilePath string

	// SaveToDB persists the batch report to the run history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	DBDir string
}

// NewConfig creates a Config with default values. Several defaults are
// non-zero (workers, timeout, sample size), so zero-value Configs are not
// usable directly.
func NewConfig() *Config {
	return &Config{
		OutputDir:       DefaultOutputDir,
		ExiftoolTimeout: DefaultExiftoolTimeout,
		Workers:         DefaultWorkers,
		SampleSize:      DefaultSampleSize,
	}
}

// XDGDataDir returns the XDG data directory for photos-takeout.
// On Linux: ~/.local/share/photos-takeout
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for photos-takeout.
// On Linux: ~/.config/photos-takeout
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after CLI parsing, before any filesystem work begins.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.ExiftoolTimeout <= 0 {
		return ErrInvalidExiftoolTimeout
	}
	if c.SampleSize < 0 {
		return ErrInvalidSampleSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.OutputDir == "" {
		return ErrEmptyOutputDir
	}
	return nil
}
