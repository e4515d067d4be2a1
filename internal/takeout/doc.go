// Package takeout implements the Google Photos Takeout metadata processor.
//
// A Takeout tree contains media files next to JSON sidecars holding the
// capture time, GPS coordinates, and description that Google strips from
// the files themselves. The Processor walks the tree, copies each media
// file into an output directory, and writes the sidecar metadata back into
// the copy with exiftool. After processing it verifies that every source
// file reached the output and re-reads a random sample with go-exif to
// confirm the timestamps actually landed.
package takeout
