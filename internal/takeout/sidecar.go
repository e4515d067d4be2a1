package takeout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/realf/photos-takeout/internal/model"
)

// sidecarSuffixes are the JSON sidecar name patterns, in lookup order.
// Google truncates long sidecar names inconsistently, so all three
// variants occur in real exports.
var sidecarSuffixes = []string{
	".supplemental-metadata.json",
	".supplemental-metada.json",
	".supplemental-me.json",
}

// sidecarFile is the on-disk JSON shape of a Takeout sidecar, reduced to
// the fields the processor consumes.
type sidecarFile struct {
	Description    string `json:"description"`
	PhotoTakenTime struct {
		Timestamp string `json:"timestamp"`
	} `json:"photoTakenTime"`
	GeoData     geoData `json:"geoData"`
	GeoDataExif geoData `json:"geoDataExif"`
}

// geoData holds a sidecar coordinate triple.
type geoData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// present reports whether the coordinates carry a real location.
// Takeout writes literal 0.0/0.0 for photos without GPS data.
func (g geoData) present() bool {
	return g.Latitude != 0.0 && g.Longitude != 0.0
}

// FindSidecar locates the JSON sidecar for a media file, trying each known
// suffix pattern. Because macOS writes decomposed (NFD) filenames while the
// archive may record composed (NFC) ones, the lookup also tries both
// normalization forms of the base name.
func FindSidecar(mediaPath string) (string, bool) {
	dir := filepath.Dir(mediaPath)
	base := filepath.Base(mediaPath)

	candidates := []string{base}
	if nfc := norm.NFC.String(base); nfc != base {
		candidates = append(candidates, nfc)
	}
	if nfd := norm.NFD.String(base); nfd != base {
		candidates = append(candidates, nfd)
	}

	for _, name := range candidates {
		for _, suffix := range sidecarSuffixes {
			sidecar := filepath.Join(dir, name+suffix)
			if _, err := os.Stat(sidecar); err == nil {
				return sidecar, true
			}
		}
	}

	return "", false
}

// ParseSidecar reads a sidecar file and extracts the metadata worth
// writing back into the media file.
func ParseSidecar(path string) (*model.Metadata, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Sidecar path comes from directory walk
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar %s: %w", filepath.Base(path), err)
	}

	var sc sidecarFile
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse sidecar %s: %w", filepath.Base(path), err)
	}

	md := &model.Metadata{
		Description: sc.Description,
	}

	if ts := sc.PhotoTakenTime.Timestamp; ts != "" {
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sidecar %s: invalid photoTakenTime %q: %w", filepath.Base(path), ts, err)
		}
		md.TakenAt = time.Unix(sec, 0)
	}

	// Prefer geoDataExif over geoData; the former reflects what the
	// camera recorded, the latter may be a user-edited map location.
	gps := sc.GeoDataExif
	if !gps.present() {
		gps = sc.GeoData
	}
	if gps.present() {
		md.HasGPS = true
		md.Latitude = gps.Latitude
		md.Longitude = gps.Longitude
		if gps.Altitude != 0.0 {
			md.HasAltitude = true
			md.Altitude = gps.Altitude
		}
	}

	return md, nil
}
