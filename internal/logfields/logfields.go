package logfields

import "log/slog"

// Field keys shared by every package that logs. Renaming one breaks
// downstream log queries, so additions only.
const (
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyRequestID  = "request_id"
	KeyElapsedMS  = "elapsed_ms"
	KeyQueries    = "queries"
	KeyPeakBytes  = "peak_bytes"
	KeyLoad1      = "load1"
	KeyPage       = "page"
	KeyFile       = "file"
	KeyCount      = "count"
	KeySubject    = "subject"
	KeyComponent  = "component"
	KeyAddr       = "addr"
	KeyError      = "error"
)

// One helper per key so call sites stay typo-proof.
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func ElapsedMS(ms float64) slog.Attr  { return slog.Float64(KeyElapsedMS, ms) }
func Queries(n int64) slog.Attr       { return slog.Int64(KeyQueries, n) }
func PeakBytes(b uint64) slog.Attr    { return slog.Uint64(KeyPeakBytes, b) }
func Load1(v float64) slog.Attr       { return slog.Float64(KeyLoad1, v) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Component(c string) slog.Attr    { return slog.String(KeyComponent, c) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
