package config

// LogLevel names a slog level in the configuration file.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat selects the slog handler flavor.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var (
	logLevelNormalizer  = newNormalizer(enumMap(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError), LogLevelInfo)
	logFormatNormalizer = newNormalizer(enumMap(LogFormatJSON, LogFormatText), LogFormatText)
)

// enumMap keys each enum value by its own string form.
func enumMap[T ~string](values ...T) map[string]T {
	m := make(map[string]T, len(values))
	for _, v := range values {
		m[string(v)] = v
	}
	return m
}

// NormalizeLogLevel folds unknown or empty level names onto info.
func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.normalize(raw)
}

// NormalizeLogFormat folds unknown or empty format names onto text.
func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.normalize(raw)
}
