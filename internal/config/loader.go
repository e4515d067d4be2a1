package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".photos-takeout"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file shape. Every field is optional;
// CLI flags override whatever the file provides.
type File struct {
	// Output is the directory processed media files are written to.
	Output string `yaml:"output"`

	// Exiftool is an explicit path to the exiftool binary.
	Exiftool string `yaml:"exiftool"`

	// ExiftoolTimeout bounds each exiftool invocation (e.g. "30s").
	ExiftoolTimeout time.Duration `yaml:"exiftool_timeout"`

	// ProcessCmd replaces the built-in processor with an external program.
	ProcessCmd string `yaml:"process_cmd"`

	// Workers is the number of media files processed concurrently.
	Workers int `yaml:"workers"`

	// SkipNoSidecar skips files lacking a JSON sidecar.
	SkipNoSidecar bool `yaml:"skip_no_sidecar"`

	// SkipDiskCheck disables the free-disk-space preflight.
	SkipDiskCheck bool `yaml:"skip_disk_check"`

	// SampleSize is the number of outputs re-read during verification.
	SampleSize *int `yaml:"sample_size"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound so callers can
// decide whether a missing file is fatal (explicit path) or not (search).
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .photos-takeout in the working directory
// 3. Look for .photos-takeout in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath, workDir string) string {
	if configPath != "" {
		return configPath
	}

	local := filepath.Join(workDir, DefaultConfigFile)
	if _, err := os.Stat(local); err == nil {
		return local
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	inHome := filepath.Join(home, DefaultConfigFile)
	if _, err := os.Stat(inHome); err == nil {
		return inHome
	}

	return ""
}

// Apply copies the file's settings onto cfg. Only fields the file actually
// sets are copied. Callers apply the file before flag overrides so explicit
// flags win over the file.
func (f *File) Apply(cfg *Config) {
	if f.Output != "" {
		cfg.OutputDir = f.Output
	}
	if f.Exiftool != "" {
		cfg.ExiftoolPath = f.Exiftool
	}
	if f.ExiftoolTimeout > 0 {
		cfg.ExiftoolTimeout = f.ExiftoolTimeout
	}
	if f.ProcessCmd != "" {
		cfg.ProcessCommand = f.ProcessCmd
	}
	if f.Workers > 0 {
		cfg.Workers = f.Workers
	}
	if f.SkipNoSidecar {
		cfg.SkipNoSidecar = true
	}
	if f.SkipDiskCheck {
		cfg.SkipDiskCheck = true
	}
	if f.SampleSize != nil && *f.SampleSize >= 0 {
		cfg.SampleSize = *f.SampleSize
	}
}
