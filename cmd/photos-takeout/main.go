// Package main provides the entry point for the photos-takeout CLI.
//
// photos-takeout batch-processes Google Takeout archives: each *.zip in
// the working directory is extracted, its Takeout tree is run through the
// metadata processor (restoring capture times, GPS coordinates, and
// descriptions from JSON sidecars), and the tree is removed before the
// next archive starts.
//
// Usage:
//
//	photos-takeout run
//	photos-takeout process [source-dir]
//
// See --help for all available options.
package main

// main is the entry point for photos-takeout.
func main() {
	Execute()
}
