// Package engine owns the active graph generation and answers route queries
// against it.
//
// Rebuilds are serialized and publish a complete new generation with a
// single atomic store. Readers load the current generation once per query
// and work on that snapshot, so they never observe a half-built graph or a
// cleared cache; a reader holding an older generation keeps a consistent,
// if stale, view.
package engine

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/graph"
	"collection-route-service/internal/platform/metrics"
	"collection-route-service/internal/services"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNotBuilt is returned by queries issued before the first successful build.
var ErrNotBuilt = errors.New("engine: graph has not been built")

type Engine struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex // serializes rebuilds
	version uint64

	current atomic.Pointer[graph.Generation]
}

type Option func(*Engine)

// WithClock replaces time.Now, mainly for tests of the validity window.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

// Current returns the active generation, or nil before the first build.
func (e *Engine) Current() *graph.Generation { return e.current.Load() }

// Rebuild builds a new generation from sites unless the invalidation policy
// says the active one is still valid. It returns the generation in effect
// afterwards and whether a build took place.
func (e *Engine) Rebuild(sites []domain.Site) (*graph.Generation, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if cur := e.current.Load(); cur != nil && e.stillValid(cur, sites, now) {
		metrics.GraphRebuilds.WithLabelValues("skipped").Inc()
		return cur, false, nil
	}

	g, err := e.build(sites, now)
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// ForceRebuild always builds a new generation from sites.
func (e *Engine) ForceRebuild(sites []domain.Site) (*graph.Generation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.build(sites, e.now())
}

func (e *Engine) stillValid(cur *graph.Generation, sites []domain.Site, now time.Time) bool {
	switch e.cfg.Invalidation {
	case InvalidateByContent:
		return cur.Fingerprint == graph.Fingerprint(e.cfg.Depot, sites, e.cfg.ConnectionThreshold)
	default:
		return now.Sub(cur.BuiltAt) < e.cfg.ValidityWindow && cur.Len() > 0
	}
}

// build must be called with e.mu held.
func (e *Engine) build(sites []domain.Site, now time.Time) (*graph.Generation, error) {
	next := e.version + 1
	g, err := graph.Build(next, e.cfg.Depot, sites, graph.Options{ConnectionThreshold: e.cfg.ConnectionThreshold}, now)
	if err != nil {
		metrics.GraphRebuilds.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("engine rebuild: %w", err)
	}

	e.version = next
	e.current.Store(g)

	metrics.GraphRebuilds.WithLabelValues("built").Inc()
	metrics.GraphNodes.Set(float64(g.Len()))
	metrics.GraphEdges.Set(float64(g.EdgeCount()))
	metrics.GraphVersion.Set(float64(g.Version))
	return g, nil
}

func (e *Engine) snapshot() (*graph.Generation, error) {
	g := e.current.Load()
	if g == nil {
		return nil, ErrNotBuilt
	}
	return g, nil
}

// Distances returns shortest distances from source to every node.
func (e *Engine) Distances(source string) (map[string]float64, error) {
	g, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	return g.Distances(source)
}

// Distance returns the shortest distance between two nodes.
func (e *Engine) Distance(source, destination string) (float64, error) {
	g, err := e.snapshot()
	if err != nil {
		return 0, err
	}
	return g.Distance(source, destination)
}

// ShortestPath returns the shortest path between two nodes.
func (e *Engine) ShortestPath(source, destination string) (graph.Path, error) {
	g, err := e.snapshot()
	if err != nil {
		return graph.Path{}, err
	}
	return g.ShortestPath(source, destination)
}

// Nearest returns the node closest to (lat, lng) within maxDistance.
func (e *Engine) Nearest(lat, lng, maxDistance float64) (graph.Node, bool, error) {
	g, err := e.snapshot()
	if err != nil {
		return graph.Node{}, false, err
	}
	n, ok := g.Nearest(lat, lng, maxDistance)
	return n, ok, nil
}

// PlanTour plans a greedy visiting tour on the active generation.
func (e *Engine) PlanTour(start string, targets []string) (domain.Tour, error) {
	g, err := e.snapshot()
	if err != nil {
		return domain.Tour{}, err
	}

	began := time.Now()
	defer func() { metrics.TourPlanSeconds.Observe(time.Since(began).Seconds()) }()

	return services.PlanTour(g, start, targets)
}

// SelectOptimalCenters runs the capacity-limited selection heuristic with
// the configured epsilon and priority boosts.
func (e *Engine) SelectOptimalCenters(available []string, maxCount int, ref domain.Coordinates) (domain.SiteSelection, error) {
	if maxCount <= 0 || len(available) == 0 {
		return domain.SiteSelection{SiteIDs: []string{}}, nil
	}
	g, err := e.snapshot()
	if err != nil {
		return domain.SiteSelection{}, err
	}
	return services.SelectOptimalCenters(g, available, maxCount, ref, e.cfg.Selection)
}
