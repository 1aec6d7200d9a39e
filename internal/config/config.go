// Package config reads process settings from the environment and from an
// optional YAML engine file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Get returns the value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetFloat parses key as a float64, returning fallback when unset.
func GetFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: parse float %q: %w", key, v, err)
	}
	return f, nil
}

// GetDuration parses key with time.ParseDuration, returning fallback when unset.
func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: parse duration %q: %w", key, v, err)
	}
	return d, nil
}
