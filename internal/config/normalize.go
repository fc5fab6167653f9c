package config

import "strings"

// normalizer folds raw config strings onto a closed enum set with a default fallback.
type normalizer[T comparable] struct {
	validValues  map[string]T
	defaultValue T
}

func newNormalizer[T comparable](values map[string]T, defaultValue T) *normalizer[T] {
	normalized := make(map[string]T, len(values))
	for k, v := range values {
		normalized[canonicalKey(k)] = v
	}
	return &normalizer[T]{validValues: normalized, defaultValue: defaultValue}
}

// normalize returns the enum value for raw, or the default when unrecognized.
func (n *normalizer[T]) normalize(raw string) T {
	if value, exists := n.validValues[canonicalKey(raw)]; exists {
		return value
	}
	return n.defaultValue
}

// canonicalKey provides standard string normalization for enum lookup.
func canonicalKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
