package model

// Stats holds counters collected while processing one Takeout tree.
// The counters mirror what the metadata processor observes: how many media
// files were found, how many had JSON sidecars, and how metadata
// application went.
type Stats struct {
	// TotalFiles is the number of media files discovered.
	TotalFiles int `json:"total_files"`

	// Processed is the number of media files copied to the output tree.
	Processed int `json:"processed"`

	// Skipped counts files deliberately left out of the output tree, such
	// as sidecarless files when skipping those is enabled.
	Skipped int `json:"skipped"`

	// WithSidecar counts files that had a JSON sidecar.
	WithSidecar int `json:"with_sidecar"`

	// WithoutSidecar counts files that had no JSON sidecar.
	WithoutSidecar int `json:"without_sidecar"`

	// MetadataApplied counts files whose metadata was written successfully.
	MetadataApplied int `json:"metadata_applied"`

	// MetadataFailed counts files where metadata application failed.
	MetadataFailed int `json:"metadata_failed"`

	// GPSApplied counts files that received GPS coordinates.
	GPSApplied int `json:"gps_applied"`

	// Errors collects per-file error descriptions.
	Errors []string `json:"errors,omitempty"`
}

// AddError records a per-file error description.
func (s *Stats) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

// Add merges the counters of other into s.
func (s *Stats) Add(other *Stats) {
	s.TotalFiles += other.TotalFiles
	s.Processed += other.Processed
	s.Skipped += other.Skipped
	s.WithSidecar += other.WithSidecar
	s.WithoutSidecar += other.WithoutSidecar
	s.MetadataApplied += other.MetadataApplied
	s.MetadataFailed += other.MetadataFailed
	s.GPSApplied += other.GPSApplied
	s.Errors = append(s.Errors, other.Errors...)
}

// Complete reports whether every discovered file was either copied to the
// output tree or deliberately skipped.
func (s *Stats) Complete() bool {
	return s.Processed+s.Skipped == s.TotalFiles
}
