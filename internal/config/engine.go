package config

import (
	"bytes"
	"collection-route-service/internal/engine"
	"collection-route-service/internal/services"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// engineFile mirrors the YAML layout of the engine file. Pointer fields
// distinguish "absent" from an explicit zero.
type engineFile struct {
	Depot struct {
		ID  string   `yaml:"id"`
		Lat *float64 `yaml:"lat"`
		Lng *float64 `yaml:"lng"`
	} `yaml:"depot"`
	ConnectionThreshold *float64 `yaml:"connection_threshold"`
	CacheValidity       string   `yaml:"cache_validity"`
	Invalidation        string   `yaml:"invalidation"`
	Selection           struct {
		Epsilon        *float64                 `yaml:"epsilon"`
		PriorityBoosts *services.PriorityBoosts `yaml:"priority_boosts"`
	} `yaml:"selection"`
}

// LoadEngineFile parses the YAML engine file at path over the defaults.
func LoadEngineFile(path string) (engine.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("load engine config: read %q: %w", path, err)
	}
	cfg, err := ParseEngineConfig(data, engine.DefaultConfig())
	if err != nil {
		return engine.Config{}, fmt.Errorf("load engine config: %q: %w", path, err)
	}
	return cfg, nil
}

// ParseEngineConfig overlays the YAML document in data onto base.
// Unknown keys are rejected.
func ParseEngineConfig(data []byte, base engine.Config) (engine.Config, error) {
	var f engineFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return engine.Config{}, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := base
	if f.Depot.ID != "" {
		cfg.Depot.ID = f.Depot.ID
	}
	if f.Depot.Lat != nil {
		cfg.Depot.Lat = *f.Depot.Lat
	}
	if f.Depot.Lng != nil {
		cfg.Depot.Lng = *f.Depot.Lng
	}
	if f.ConnectionThreshold != nil {
		cfg.ConnectionThreshold = *f.ConnectionThreshold
	}
	if f.CacheValidity != "" {
		d, err := time.ParseDuration(f.CacheValidity)
		if err != nil {
			return engine.Config{}, fmt.Errorf("cache_validity: %w", err)
		}
		cfg.ValidityWindow = d
	}
	if f.Invalidation != "" {
		inv, err := engine.ParseInvalidation(f.Invalidation)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.Invalidation = inv
	}
	if f.Selection.Epsilon != nil {
		cfg.Selection.Epsilon = *f.Selection.Epsilon
	}
	if f.Selection.PriorityBoosts != nil {
		cfg.Selection.Boosts = *f.Selection.PriorityBoosts
	}
	return cfg, nil
}

// Engine assembles the engine configuration: defaults, then the file named
// by ENGINE_CONFIG_PATH if set, then individual environment overrides.
func Engine() (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if path := Get("ENGINE_CONFIG_PATH", ""); path != "" {
		var err error
		if cfg, err = LoadEngineFile(path); err != nil {
			return engine.Config{}, err
		}
	}

	var err error
	if cfg.Depot.Lat, err = GetFloat("DEPOT_LAT", cfg.Depot.Lat); err != nil {
		return engine.Config{}, err
	}
	if cfg.Depot.Lng, err = GetFloat("DEPOT_LNG", cfg.Depot.Lng); err != nil {
		return engine.Config{}, err
	}
	if cfg.ConnectionThreshold, err = GetFloat("CONNECTION_THRESHOLD", cfg.ConnectionThreshold); err != nil {
		return engine.Config{}, err
	}
	if cfg.ValidityWindow, err = GetDuration("CACHE_VALIDITY", cfg.ValidityWindow); err != nil {
		return engine.Config{}, err
	}
	if v := Get("INVALIDATION", ""); v != "" {
		if cfg.Invalidation, err = engine.ParseInvalidation(v); err != nil {
			return engine.Config{}, fmt.Errorf("config: INVALIDATION: %w", err)
		}
	}
	return cfg, nil
}
