package takeout

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/unicode/norm"
)

// writeSidecar writes a sidecar JSON file next to tests' media files.
func writeSidecar(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write sidecar %s: %v", path, err)
	}
}

// TestFindSidecar tests sidecar lookup across the known suffix variants.
func TestFindSidecar(t *testing.T) {
	t.Parallel()

	t.Run("finds full suffix", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		media := filepath.Join(dir, "photo.jpg")
		sidecar := media + ".supplemental-metadata.json"
		writeSidecar(t, sidecar, "{}")

		got, found := FindSidecar(media)
		if !found {
			t.Fatal("expected sidecar to be found")
		}
		if got != sidecar {
			t.Errorf("expected %s, got %s", sidecar, got)
		}
	})

	t.Run("finds truncated suffixes", func(t *testing.T) {
		t.Parallel()

		for _, suffix := range []string{".supplemental-metada.json", ".supplemental-me.json"} {
			dir := t.TempDir()
			media := filepath.Join(dir, "a-very-long-photo-filename.jpg")
			writeSidecar(t, media+suffix, "{}")

			if _, found := FindSidecar(media); !found {
				t.Errorf("expected sidecar with suffix %s to be found", suffix)
			}
		}
	})

	t.Run("finds sidecar under a different normalization form", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		// Media path decomposed (NFD), sidecar stored composed (NFC).
		baseNFD := norm.NFD.String("café.jpg")
		baseNFC := norm.NFC.String("café.jpg")
		if baseNFD == baseNFC {
			t.Skip("normalization forms identical on this platform")
		}

		media := filepath.Join(dir, baseNFD)
		writeSidecar(t, filepath.Join(dir, baseNFC+".supplemental-metadata.json"), "{}")

		if _, found := FindSidecar(media); !found {
			t.Error("expected NFC sidecar to be found for NFD media name")
		}
	})

	t.Run("reports absence", func(t *testing.T) {
		t.Parallel()

		if _, found := FindSidecar(filepath.Join(t.TempDir(), "photo.jpg")); found {
			t.Error("expected no sidecar")
		}
	})
}

// TestParseSidecar tests metadata extraction from sidecar JSON.
func TestParseSidecar(t *testing.T) {
	t.Parallel()

	t.Run("extracts capture time, GPS, and description", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "photo.jpg.supplemental-metadata.json")
		writeSidecar(t, path, `{
			"description": "Beach day",
			"photoTakenTime": {"timestamp": "1560594600"},
			"geoDataExif": {"latitude": 52.52, "longitude": 13.405, "altitude": 34.5}
		}`)

		md, err := ParseSidecar(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := time.Unix(1560594600, 0)
		if !md.TakenAt.Equal(want) {
			t.Errorf("expected TakenAt %v, got %v", want, md.TakenAt)
		}
		if !md.HasGPS || md.Latitude != 52.52 || md.Longitude != 13.405 {
			t.Errorf("expected GPS 52.52,13.405, got %+v", md)
		}
		if !md.HasAltitude || md.Altitude != 34.5 {
			t.Errorf("expected altitude 34.5, got %+v", md)
		}
		if md.Description != "Beach day" {
			t.Errorf("expected description 'Beach day', got %q", md.Description)
		}
	})

	t.Run("prefers geoDataExif over geoData", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "s.json")
		writeSidecar(t, path, `{
			"geoData": {"latitude": 1.0, "longitude": 1.0},
			"geoDataExif": {"latitude": 48.8566, "longitude": 2.3522}
		}`)

		md, err := ParseSidecar(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if md.Latitude != 48.8566 || md.Longitude != 2.3522 {
			t.Errorf("expected geoDataExif coordinates, got %+v", md)
		}
	})

	t.Run("falls back to geoData when geoDataExif is empty", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "s.json")
		writeSidecar(t, path, `{
			"geoData": {"latitude": -33.8688, "longitude": 151.2093}
		}`)

		md, err := ParseSidecar(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !md.HasGPS || md.Latitude != -33.8688 {
			t.Errorf("expected geoData fallback, got %+v", md)
		}
	})

	t.Run("treats zero coordinates as absent", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "s.json")
		writeSidecar(t, path, `{
			"photoTakenTime": {"timestamp": "1560594600"},
			"geoData": {"latitude": 0.0, "longitude": 0.0, "altitude": 0.0},
			"geoDataExif": {"latitude": 0.0, "longitude": 0.0, "altitude": 0.0}
		}`)

		md, err := ParseSidecar(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if md.HasGPS {
			t.Errorf("expected no GPS for zero coordinates, got %+v", md)
		}
	})

	t.Run("handles missing fields", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "s.json")
		writeSidecar(t, path, `{}`)

		md, err := ParseSidecar(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !md.IsZero() {
			t.Errorf("expected zero metadata, got %+v", md)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "s.json")
		writeSidecar(t, path, `{not json`)

		if _, err := ParseSidecar(path); err == nil {
			t.Fatal("expected error for malformed JSON")
		}
	})

	t.Run("rejects non-numeric timestamp", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "s.json")
		writeSidecar(t, path, `{"photoTakenTime": {"timestamp": "yesterday"}}`)

		if _, err := ParseSidecar(path); err == nil {
			t.Fatal("expected error for non-numeric timestamp")
		}
	})
}
