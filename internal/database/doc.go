// Package database provides SQLite-based storage for batch run history.
//
// Every batch run is saved with its full report JSON plus a per-archive
// breakdown, so `photos-takeout history` can show past runs and where a
// failed run stopped.
package database
