package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// locationKeys contains attribute keys that are always masked.
// These keys carry precise location data extracted from Takeout sidecars.
var locationKeys = map[string]bool{
	"latitude":    true,
	"longitude":   true,
	"altitude":    true,
	"lat":         true,
	"lon":         true,
	"lng":         true,
	"gps":         true,
	"location":    true,
	"coordinates": true,
}

// locationKeywords are substrings that mark a key as location-bearing
// regardless of exact spelling (e.g. "gps_latitude", "geo_data").
var locationKeywords = []string{
	"latitude", "longitude", "gps", "geo",
}

// coordinatePairPattern matches "lat,lon" style values so that coordinates
// smuggled into a generic attribute still get masked.
var coordinatePairPattern = regexp.MustCompile(`^-?\d{1,3}\.\d{3,},\s*-?\d{1,3}\.\d{3,}$`)

// MaskValue is the string used to replace location values.
const MaskValue = "***REDACTED***"

// PrivacyHandler wraps an slog.Handler to mask location information.
// It intercepts log records and replaces attribute values whose keys or
// values look like GPS data before passing them to the underlying handler,
// so it composes with any handler (text, JSON, etc.).
type PrivacyHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler
}

// NewPrivacyHandler creates a PrivacyHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewPrivacyHandler(handler slog.Handler) *PrivacyHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &PrivacyHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrivacyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *PrivacyHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added,
// masked first.
func (h *PrivacyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &PrivacyHandler{handler: h.handler.WithAttrs(maskedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *PrivacyHandler) WithGroup(name string) slog.Handler {
	return &PrivacyHandler{handler: h.handler.WithGroup(name)}
}

// maskAttr masks a single attribute, recursively handling groups.
func (h *PrivacyHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if locationKeys[keyLower] || containsLocationKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && coordinatePairPattern.MatchString(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}

	return a
}

// containsLocationKeyword checks if the key contains a location keyword.
func containsLocationKeyword(key string) bool {
	for _, keyword := range locationKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// NewPrivacyLogger creates an slog.Logger that masks location data.
//
// Parameters:
//   - w: the io.Writer for log output (typically os.Stderr)
//   - verbose: if true, sets log level to Debug; otherwise Warn
func NewPrivacyLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewPrivacyHandler(textHandler))
}
