package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyStatus     = "status"
	KeyProject    = "project"
	KeyPackage    = "package"
	KeyDescriptor = "descriptor"
	KeyCapability = "capability"
	KeyProvider   = "provider"
	KeyPath       = "path"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func Project(p string) slog.Attr      { return slog.String(KeyProject, p) }
func Package(p string) slog.Attr      { return slog.String(KeyPackage, p) }
func Descriptor(d string) slog.Attr   { return slog.String(KeyDescriptor, d) }
func Capability(c string) slog.Attr   { return slog.String(KeyCapability, c) }
func Provider(p string) slog.Attr     { return slog.String(KeyProvider, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
