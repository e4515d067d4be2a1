package takeout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/realf/photos-takeout/internal/config"
	"github.com/realf/photos-takeout/internal/model"
)

// exifTimeFormat is the EXIF date layout (YYYY:MM:DD HH:MM:SS).
const exifTimeFormat = "2006:01:02 15:04:05"

// commonExiftoolPaths are checked when exiftool is not on PATH.
var commonExiftoolPaths = []string{
	"/opt/homebrew/bin/exiftool",
	"/usr/local/bin/exiftool",
	"/usr/bin/exiftool",
}

// ErrExiftoolNotFound is returned when no exiftool binary can be located.
var ErrExiftoolNotFound = errors.New("exiftool not found: install it (macOS: brew install exiftool, Linux: apt install libimage-exiftool-perl) or pass --exiftool")

// FindExiftool locates the exiftool binary.
// An explicit path wins; otherwise PATH is searched, then common install
// locations.
func FindExiftool(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("exiftool not found at %s: %w", explicit, err)
		}
		return explicit, nil
	}

	if path, err := exec.LookPath("exiftool"); err == nil {
		return path, nil
	}

	for _, path := range commonExiftoolPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrExiftoolNotFound
}

// Applier writes metadata into a media file. The processor depends on
// this interface rather than the exiftool subprocess directly.
type Applier interface {
	// Apply writes md into the media file at path. The video flag selects
	// the QuickTime-style date tag set.
	Apply(ctx context.Context, path string, md *model.Metadata, video bool) error
}

// ExiftoolApplier applies metadata by invoking the exiftool binary.
type ExiftoolApplier struct {
	// path is the exiftool binary location.
	path string

	// timeout bounds a single invocation.
	timeout time.Duration
}

// ExiftoolOption configures an ExiftoolApplier.
type ExiftoolOption func(*ExiftoolApplier)

// WithTimeout bounds each exiftool invocation.
func WithTimeout(d time.Duration) ExiftoolOption {
	return func(a *ExiftoolApplier) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// NewExiftoolApplier creates an applier using the binary at path.
func NewExiftoolApplier(path string, opts ...ExiftoolOption) *ExiftoolApplier {
	a := &ExiftoolApplier{
		path:    path,
		timeout: config.DefaultExiftoolTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply writes md into the file at path via exiftool and syncs the file's
// modification time to the capture time.
func (a *ExiftoolApplier) Apply(ctx context.Context, path string, md *model.Metadata, video bool) error {
	if md.IsZero() {
		return nil
	}

	args := buildExiftoolArgs(md, video)
	args = append(args, path)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.path, args...) //nolint:gosec // Binary path validated by FindExiftool
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("exiftool failed for %s: %w (%s)",
			filepath.Base(path), err, bytes.TrimSpace(stderr.Bytes()))
	}

	// Sync the filesystem timestamp to the capture time so sorting by
	// mtime matches the photo timeline.
	if !md.TakenAt.IsZero() {
		if err := os.Chtimes(path, md.TakenAt, md.TakenAt); err != nil {
			return fmt.Errorf("failed to set times on %s: %w", filepath.Base(path), err)
		}
	}

	return nil
}

// buildExiftoolArgs assembles the tag arguments for one invocation.
// Video containers get the QuickTime Track/Media date tags; photos get the
// standard EXIF date tag set.
func buildExiftoolArgs(md *model.Metadata, video bool) []string {
	args := []string{"-overwrite_original"}

	if !md.TakenAt.IsZero() {
		dt := md.TakenAt.Format(exifTimeFormat)
		if video {
			args = append(args,
				"-CreateDate="+dt,
				"-ModifyDate="+dt,
				"-TrackCreateDate="+dt,
				"-TrackModifyDate="+dt,
				"-MediaCreateDate="+dt,
				"-MediaModifyDate="+dt,
			)
		} else {
			args = append(args,
				"-DateTimeOriginal="+dt,
				"-CreateDate="+dt,
				"-ModifyDate="+dt,
			)
		}
	}

	if md.HasGPS {
		latRef, lonRef := "N", "E"
		if md.Latitude < 0 {
			latRef = "S"
		}
		if md.Longitude < 0 {
			lonRef = "W"
		}

		args = append(args,
			"-GPSLatitude="+formatCoord(md.Latitude),
			"-GPSLatitudeRef="+latRef,
			"-GPSLongitude="+formatCoord(md.Longitude),
			"-GPSLongitudeRef="+lonRef,
		)

		if md.HasAltitude {
			// 0 = above sea level, 1 = below
			altRef := "0"
			if md.Altitude < 0 {
				altRef = "1"
			}
			args = append(args,
				"-GPSAltitude="+formatCoord(md.Altitude),
				"-GPSAltitudeRef="+altRef,
			)
		}
	}

	if md.Description != "" {
		args = append(args, "-ImageDescription="+md.Description)
	}

	return args
}

// formatCoord renders the absolute value of a coordinate for exiftool,
// which takes the hemisphere in the separate Ref tag.
func formatCoord(v float64) string {
	if v < 0 {
		v = -v
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
