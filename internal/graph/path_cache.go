package graph

import (
	"collection-route-service/internal/platform/metrics"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Path is the result of a shortest-path query.
//
// When Reachable is false no predecessor chain leads back to the source:
// Nodes then holds only the destination and Distance is Unreachable.
// Callers must not read such a path as a one-hop route. A query from a
// node to itself is reachable with Nodes == [source] and Distance == 0.
type Path struct {
	Nodes     []string
	Distance  float64
	Reachable bool
}

// pathCache memoizes per-source distance tables and per-pair paths for one
// generation. Entries are never invalidated individually; the whole cache
// goes away with its generation.
type pathCache struct {
	g *Generation

	mu        sync.RWMutex
	distances map[string]map[string]float64
	paths     map[string]map[string]Path

	group singleflight.Group
}

func newPathCache(g *Generation) *pathCache {
	return &pathCache{
		g:         g,
		distances: make(map[string]map[string]float64),
		paths:     make(map[string]map[string]Path),
	}
}

// Distances returns the shortest distance from source to every node.
// Nodes without a path map to Unreachable. Results are memoized for the
// lifetime of the generation; the returned map is a copy.
func (g *Generation) Distances(source string) (map[string]float64, error) {
	if !g.Has(source) {
		return nil, fmt.Errorf("distances from %q: %w", source, ErrUnknownNode)
	}
	return copyDistances(g.cache.distancesFrom(source)), nil
}

// Distance returns the memoized shortest distance between two nodes.
func (g *Generation) Distance(source, destination string) (float64, error) {
	if !g.Has(source) {
		return 0, fmt.Errorf("distance from %q: %w", source, ErrUnknownNode)
	}
	if !g.Has(destination) {
		return 0, fmt.Errorf("distance to %q: %w", destination, ErrUnknownNode)
	}
	return g.cache.distancesFrom(source)[destination], nil
}

// ShortestPath returns the memoized shortest path from source to destination.
// It runs its own search with predecessor tracking rather than reusing the
// distance table. Unreachability is reported through Path.Reachable, not as
// an error.
func (g *Generation) ShortestPath(source, destination string) (Path, error) {
	if !g.Has(source) {
		return Path{}, fmt.Errorf("shortest path from %q: %w", source, ErrUnknownNode)
	}
	if !g.Has(destination) {
		return Path{}, fmt.Errorf("shortest path to %q: %w", destination, ErrUnknownNode)
	}
	return copyPath(g.cache.pathBetween(source, destination)), nil
}

func (c *pathCache) distancesFrom(source string) map[string]float64 {
	c.mu.RLock()
	d, ok := c.distances[source]
	c.mu.RUnlock()
	if ok {
		metrics.PathCacheLookups.WithLabelValues("distances", "hit").Inc()
		return d
	}
	metrics.PathCacheLookups.WithLabelValues("distances", "miss").Inc()

	v, _, _ := c.group.Do("d|"+source, func() (any, error) {
		c.mu.RLock()
		d, ok := c.distances[source]
		c.mu.RUnlock()
		if ok {
			return d, nil
		}

		d = c.g.search(source, "").dist

		c.mu.Lock()
		c.distances[source] = d
		c.mu.Unlock()
		return d, nil
	})
	return v.(map[string]float64)
}

func (c *pathCache) pathBetween(source, destination string) Path {
	c.mu.RLock()
	p, ok := c.paths[source][destination]
	c.mu.RUnlock()
	if ok {
		metrics.PathCacheLookups.WithLabelValues("paths", "hit").Inc()
		return p
	}
	metrics.PathCacheLookups.WithLabelValues("paths", "miss").Inc()

	// NUL separator keeps ("a|b", "c") and ("a", "b|c") apart.
	key := "p|" + source + "\x00" + destination
	v, _, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		p, ok := c.paths[source][destination]
		c.mu.RUnlock()
		if ok {
			return p, nil
		}

		res := c.g.search(source, destination)
		p = Path{
			Nodes:     res.reconstruct(destination),
			Distance:  res.dist[destination],
			Reachable: source == destination || res.dist[destination] != Unreachable,
		}

		c.mu.Lock()
		if c.paths[source] == nil {
			c.paths[source] = make(map[string]Path)
		}
		c.paths[source][destination] = p
		c.mu.Unlock()
		return p, nil
	})
	return v.(Path)
}

func copyDistances(d map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func copyPath(p Path) Path {
	nodes := make([]string, len(p.Nodes))
	copy(nodes, p.Nodes)
	p.Nodes = nodes
	return p
}
