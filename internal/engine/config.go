package engine

import (
	"collection-route-service/internal/graph"
	"collection-route-service/internal/services"
	"fmt"
	"strings"
	"time"
)

// DepotID is the node id given to the depot.
const DepotID = "DEPOT"

// DefaultValidityWindow is how long a generation is reused under the time policy.
const DefaultValidityWindow = 5 * time.Minute

// Invalidation selects when a rebuild request actually rebuilds.
type Invalidation string

const (
	// InvalidateByTime skips a rebuild while the active generation is younger
	// than the validity window and has nodes, even if the site list changed.
	InvalidateByTime Invalidation = "time"
	// InvalidateByContent skips a rebuild only when the site list, depot and
	// threshold hash to the active generation's fingerprint.
	InvalidateByContent Invalidation = "content"
)

func ParseInvalidation(s string) (Invalidation, error) {
	switch Invalidation(strings.ToLower(strings.TrimSpace(s))) {
	case InvalidateByTime:
		return InvalidateByTime, nil
	case InvalidateByContent:
		return InvalidateByContent, nil
	}
	return "", fmt.Errorf("parse invalidation: unknown policy %q", s)
}

// Config holds the engine settings.
type Config struct {
	Depot               graph.Node
	ConnectionThreshold float64
	ValidityWindow      time.Duration
	Invalidation        Invalidation
	Selection           services.SelectionOptions
}

// DefaultConfig places the depot near Bacolod City Hall and uses time-based
// invalidation with the default threshold and validity window.
func DefaultConfig() Config {
	return Config{
		Depot:               graph.Node{ID: DepotID, Lat: 10.6762, Lng: 122.9501},
		ConnectionThreshold: graph.DefaultConnectionThreshold,
		ValidityWindow:      DefaultValidityWindow,
		Invalidation:        InvalidateByTime,
		Selection:           services.DefaultSelectionOptions(),
	}
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Depot.ID) == "" {
		return fmt.Errorf("engine config: depot id must not be empty")
	}
	if c.ConnectionThreshold <= 0 {
		return fmt.Errorf("engine config: connection threshold must be positive, got %v", c.ConnectionThreshold)
	}
	if c.ValidityWindow < 0 {
		return fmt.Errorf("engine config: validity window must not be negative, got %s", c.ValidityWindow)
	}
	if _, err := ParseInvalidation(string(c.Invalidation)); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	return nil
}
