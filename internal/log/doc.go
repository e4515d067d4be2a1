// Package log provides structured logging helpers for photos-takeout.
//
// Takeout sidecars carry precise GPS coordinates, and log output often ends
// up in bug reports or pasted terminals. PrivacyHandler wraps any
// slog.Handler and masks location attributes before they are written, so
// verbose logging never leaks where a photo was taken.
package log
