package config

// Default values applied when the configuration omits a field.
const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8080
	DefaultContentDir     = "./content"
	DefaultSiteTitle      = "Page Timer"
	DefaultIndexPage      = "index"
	DefaultMaxBufferBytes = 512 * 1024
	DefaultDOMCeiling     = 30000
	DefaultStorePath      = "./pagetimer.db"
	DefaultSubjectPrefix  = "pagetimer"

	defaultShutdownGrace   = "30s"
	defaultSamplerInterval = "5s"
	defaultWatchDebounce   = "500ms"
	defaultStoreRetention  = "720h"
)

// ConfigDefaultApplier applies defaults for a specific configuration domain.
type ConfigDefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// ServerDefaultApplier handles server configuration defaults.
type ServerDefaultApplier struct{}

func (s *ServerDefaultApplier) Domain() string { return "server" }

func (s *ServerDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ShutdownGrace == "" {
		cfg.Server.ShutdownGrace = defaultShutdownGrace
	}
	return nil
}

// ContentDefaultApplier handles content configuration defaults.
type ContentDefaultApplier struct{}

func (c *ContentDefaultApplier) Domain() string { return "content" }

func (c *ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = DefaultContentDir
	}
	if cfg.Content.Title == "" {
		cfg.Content.Title = DefaultSiteTitle
	}
	if cfg.Content.Index == "" {
		cfg.Content.Index = DefaultIndexPage
	}
	return nil
}

// AnnotatorDefaultApplier handles annotator configuration defaults.
type AnnotatorDefaultApplier struct{}

func (a *AnnotatorDefaultApplier) Domain() string { return "annotator" }

func (a *AnnotatorDefaultApplier) ApplyDefaults(cfg *Config) error {
	// Non-positive values are coerced to defaults rather than rejected.
	if cfg.Annotator.MaxBufferBytes <= 0 {
		cfg.Annotator.MaxBufferBytes = DefaultMaxBufferBytes
	}
	if cfg.Annotator.DOMCeiling <= 0 {
		cfg.Annotator.DOMCeiling = DefaultDOMCeiling
	}
	return nil
}

// SamplerDefaultApplier handles sampler configuration defaults.
type SamplerDefaultApplier struct{}

func (s *SamplerDefaultApplier) Domain() string { return "sampler" }

func (s *SamplerDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Sampler.Interval == "" {
		cfg.Sampler.Interval = defaultSamplerInterval
	}
	return nil
}

// StoreDefaultApplier handles store configuration defaults.
type StoreDefaultApplier struct{}

func (s *StoreDefaultApplier) Domain() string { return "store" }

func (s *StoreDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.Store.Retention == "" {
		cfg.Store.Retention = defaultStoreRetention
	}
	return nil
}

// EventsDefaultApplier handles event publishing defaults.
type EventsDefaultApplier struct{}

func (e *EventsDefaultApplier) Domain() string { return "events" }

func (e *EventsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Events.SubjectPrefix == "" {
		cfg.Events.SubjectPrefix = DefaultSubjectPrefix
	}
	return nil
}

// WatchDefaultApplier handles content watch defaults.
type WatchDefaultApplier struct{}

func (w *WatchDefaultApplier) Domain() string { return "watch" }

func (w *WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = defaultWatchDebounce
	}
	return nil
}

// LoggingDefaultApplier handles logging configuration defaults.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	// Normalization folds unknown values onto the defaults.
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}
