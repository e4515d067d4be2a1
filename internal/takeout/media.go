package takeout

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// mediaExtensions lists the photo and video file extensions the processor
// handles. The set matches what Google Photos accepts for upload, including
// the long tail of raw camera formats.
var mediaExtensions = map[string]bool{
	// Photos
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	".heic": true, ".heif": true, ".bmp": true, ".tiff": true,
	".gif": true, ".avif": true, ".jxl": true, ".jfif": true,

	// Raw formats
	".raw": true, ".cr2": true, ".nef": true, ".orf": true,
	".sr2": true, ".arw": true, ".dng": true, ".pef": true,
	".raf": true, ".rw2": true, ".srw": true, ".3fr": true,
	".erf": true, ".k25": true, ".kdc": true, ".mef": true,
	".mos": true, ".mrw": true, ".nrw": true, ".srf": true,
	".x3f": true,

	// Videos
	".mp4": true, ".mov": true, ".mkv": true, ".avi": true,
	".webm": true, ".3gp": true, ".m4v": true, ".mpg": true,
	".mpeg": true, ".mts": true, ".m2ts": true, ".ts": true,
	".flv": true, ".f4v": true, ".wmv": true, ".asf": true,
	".rm": true, ".rmvb": true, ".vob": true, ".ogv": true,
	".mxf": true, ".dv": true, ".divx": true, ".xvid": true,
}

// videoTagExtensions are the container formats that take QuickTime-style
// Track/Media date tags instead of the photo DateTimeOriginal tag set.
var videoTagExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
}

// albumMetadataFile is the album-level metadata file Takeout writes into
// each album directory. It is not a media sidecar and is never processed.
const albumMetadataFile = "metadata.json"

// IsMediaFile reports whether path has a recognized media extension.
func IsMediaFile(path string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsVideoFile reports whether path should receive video date tags.
func IsVideoFile(path string) bool {
	return videoTagExtensions[strings.ToLower(filepath.Ext(path))]
}

// DiscoverMedia recursively finds all media files under root.
// Results are returned sorted for deterministic processing order.
func DiscoverMedia(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Name() == albumMetadataFile {
			return nil
		}
		if IsMediaFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
