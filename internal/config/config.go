// Package config loads the pagetimer configuration file and validates it
// after filling in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Content   ContentConfig   `yaml:"content"`
	Annotator AnnotatorConfig `yaml:"annotator"`
	Sampler   SamplerConfig   `yaml:"sampler"`
	Store     StoreConfig     `yaml:"store"`
	Events    EventsConfig    `yaml:"events"`
	Watch     WatchConfig     `yaml:"watch"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	ShutdownGrace string `yaml:"shutdown_grace,omitempty"` // e.g. "30s"
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ShutdownGraceDuration returns the parsed shutdown grace period.
// Invalid or missing values fall back to the default.
func (s ServerConfig) ShutdownGraceDuration() time.Duration {
	d, err := time.ParseDuration(s.ShutdownGrace)
	if err != nil || d <= 0 {
		return mustDuration(defaultShutdownGrace)
	}
	return d
}

// ContentConfig represents the served page tree
type ContentConfig struct {
	Dir   string `yaml:"dir"`             // Directory holding markdown pages
	Title string `yaml:"title"`           // Site title used in the page shell
	Index string `yaml:"index,omitempty"` // Page served at "/", without extension
}

// AnnotatorConfig controls the response annotation middleware
type AnnotatorConfig struct {
	Enabled        *bool `yaml:"enabled,omitempty"`       // Append the metrics comment (default true)
	InjectScript   *bool `yaml:"inject_script,omitempty"` // Inject the DOM counter script (default true)
	MaxBufferBytes int   `yaml:"max_buffer_bytes"`        // Responses larger than this pass through unannotated
	DOMCeiling     int   `yaml:"dom_ceiling"`             // Node count above which the full walk aborts
	AuditDOM       bool  `yaml:"audit_dom,omitempty"`     // Log server-side DOM counts for annotated pages
}

// IsEnabled reports whether annotation is on (default true).
func (a AnnotatorConfig) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// ScriptEnabled reports whether the counter script is injected (default true).
func (a AnnotatorConfig) ScriptEnabled() bool {
	return a.InjectScript == nil || *a.InjectScript
}

// SamplerConfig controls background system metric sampling
type SamplerConfig struct {
	Interval string `yaml:"interval,omitempty"` // e.g. "5s"
}

// IntervalDuration returns the parsed sampling interval.
func (s SamplerConfig) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return mustDuration(defaultSamplerInterval)
	}
	return d
}

// StoreConfig represents page view storage configuration
type StoreConfig struct {
	Enabled   *bool  `yaml:"enabled,omitempty"`
	Path      string `yaml:"path"`
	Retention string `yaml:"retention,omitempty"` // e.g. "720h"
}

// IsEnabled reports whether the view store is on (default true).
func (s StoreConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// RetentionDuration returns the parsed view retention window.
func (s StoreConfig) RetentionDuration() time.Duration {
	d, err := time.ParseDuration(s.Retention)
	if err != nil || d <= 0 {
		return mustDuration(defaultStoreRetention)
	}
	return d
}

// EventsConfig represents NATS event publishing configuration
type EventsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url,omitempty"`
	SubjectPrefix string `yaml:"subject_prefix,omitempty"`
}

// WatchConfig represents content watch configuration
type WatchConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Debounce string `yaml:"debounce,omitempty"` // e.g. "500ms"
}

// IsEnabled reports whether content watching is on (default true).
func (w WatchConfig) IsEnabled() bool {
	return w.Enabled == nil || *w.Enabled
}

// DebounceDuration returns the parsed watch debounce window.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return mustDuration(defaultWatchDebounce)
	}
	return d
}

// LoggingConfig selects log level and handler format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Load parses the configuration at configPath, applying defaults before validation.
func Load(configPath string) (*Config, error) {
	// Env files are optional; variables they set feed the ${VAR} expansion below.
	_ = loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// ${VAR} references in the file resolve against the process environment.
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults before validation so canonical values drive the checks
	if err := applyDefaults(&config); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults fills zero-valued fields from the defaults table.
func applyDefaults(config *Config) error {
	applier := NewDefaultApplier()
	return applier.ApplyDefaults(config)
}

// Default returns the built-in configuration used when no file is present.
func Default() (*Config, error) {
	var config Config
	if err := applyDefaults(&config); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// Init writes a starter configuration file at configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	enabled := true
	exampleConfig := Config{
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8080,
			ShutdownGrace: "30s",
		},
		Content: ContentConfig{
			Dir:   "./content",
			Title: "Page Timer",
			Index: "index",
		},
		Annotator: AnnotatorConfig{
			Enabled:        &enabled,
			InjectScript:   &enabled,
			MaxBufferBytes: DefaultMaxBufferBytes,
			DOMCeiling:     DefaultDOMCeiling,
		},
		Sampler: SamplerConfig{
			Interval: "5s",
		},
		Store: StoreConfig{
			Enabled:   &enabled,
			Path:      "./pagetimer.db",
			Retention: "720h",
		},
		Events: EventsConfig{
			Enabled:       false,
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: "pagetimer",
		},
		Watch: WatchConfig{
			Enabled:  &enabled,
			Debounce: "500ms",
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// mustDuration parses a known-good duration literal from the defaults table.
func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(fmt.Sprintf("bad default duration %q: %v", s, err))
	}
	return d
}
