// Package archive provides zip extraction for Google Takeout archives.
//
// Extraction mirrors what `unzip` would do in the working directory:
// entries are written relative to the destination, file modes and
// modification times are preserved, and path traversal entries are
// rejected.
package archive
