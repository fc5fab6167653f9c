package config

import "fmt"

// CompositeDefaultApplier runs every domain applier in declaration order.
type CompositeDefaultApplier struct {
	appliers []ConfigDefaultApplier
}

// NewDefaultApplier assembles the full applier set.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []ConfigDefaultApplier{
			&ServerDefaultApplier{},
			&ContentDefaultApplier{},
			&AnnotatorDefaultApplier{},
			&SamplerDefaultApplier{},
			&StoreDefaultApplier{},
			&EventsDefaultApplier{},
			&WatchDefaultApplier{},
			&LoggingDefaultApplier{},
		},
	}
}

// ApplyDefaults fills every domain's missing fields, stopping at the first
// applier that fails.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, a := range c.appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("%s defaults: %w", a.Domain(), err)
		}
	}
	return nil
}

// GetApplierByDomain returns the applier for one domain, or nil. Tests use
// it to exercise appliers in isolation.
func (c *CompositeDefaultApplier) GetApplierByDomain(domain string) ConfigDefaultApplier {
	for _, a := range c.appliers {
		if a.Domain() == domain {
			return a
		}
	}
	return nil
}
