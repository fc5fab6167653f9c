package config

import (
	"errors"
	"fmt"
	"time"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator runs each domain check and collects the failures.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

// validate performs configuration validation using domain-specific methods.
func (cv *configurationValidator) validate() error {
	if err := cv.validateServer(); err != nil {
		return err
	}
	if err := cv.validateContent(); err != nil {
		return err
	}
	if err := cv.validateDurations(); err != nil {
		return err
	}
	if err := cv.validateEvents(); err != nil {
		return err
	}
	return nil
}

// validateServer checks listen address parameters.
func (cv *configurationValidator) validateServer() error {
	port := cv.config.Server.Port
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid server.port: %d (must be 1-65535)", port)
	}
	return nil
}

// validateContent checks the served page tree settings.
func (cv *configurationValidator) validateContent() error {
	if cv.config.Content.Dir == "" {
		return errors.New("content.dir cannot be empty")
	}
	return nil
}

// validateDurations checks every duration-typed string field.
func (cv *configurationValidator) validateDurations() error {
	fields := []struct {
		name  string
		value string
	}{
		{"server.shutdown_grace", cv.config.Server.ShutdownGrace},
		{"sampler.interval", cv.config.Sampler.Interval},
		{"store.retention", cv.config.Store.Retention},
		{"watch.debounce", cv.config.Watch.Debounce},
	}

	for _, f := range fields {
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %s: %w", f.name, f.value, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: %s (must be positive)", f.name, f.value)
		}
	}
	return nil
}

// validateEvents checks event publishing settings.
func (cv *configurationValidator) validateEvents() error {
	if cv.config.Events.Enabled && cv.config.Events.URL == "" {
		return errors.New("events.url is required when events.enabled is true")
	}
	return nil
}
