// Package graph holds the weighted site graph used for route planning.
//
// A Generation is one immutable build of nodes and edges over a depot and a
// list of collection sites. Edges connect every ordered pair of distinct
// nodes whose planar distance is below the connection threshold, so the
// graph is a distance-pruned complete graph and is not guaranteed to be
// connected. Each generation owns its spatial index and its shortest-path
// cache; both are discarded together with the generation.
package graph

import (
	"errors"
	"math"
	"time"
)

// DefaultConnectionThreshold is the largest distance (exclusive) for which an edge is created.
const DefaultConnectionThreshold = 20.0

// Unreachable is the distance reported for nodes with no path from the source.
var Unreachable = math.Inf(1)

var (
	ErrEmptyNodeID   = errors.New("graph: node id must not be empty")
	ErrDuplicateNode = errors.New("graph: duplicate node id")
	ErrUnknownNode   = errors.New("graph: unknown node")
	ErrBadThreshold  = errors.New("graph: connection threshold must be positive")
)

// Node is a graph vertex: the depot or a collection site.
type Node struct {
	ID  string
	Lat float64
	Lng float64
}

// Edge is a directed, weighted connection. Weight is the Euclidean distance
// between the endpoints.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// Options configures Build.
type Options struct {
	// ConnectionThreshold is the exclusive upper bound on edge length.
	ConnectionThreshold float64
}

// DefaultOptions returns the default connection threshold.
func DefaultOptions() Options {
	return Options{ConnectionThreshold: DefaultConnectionThreshold}
}

// Generation is a versioned snapshot of nodes and adjacency.
// It is never mutated after Build returns; only its path cache fills lazily,
// and that cache is safe for concurrent use.
type Generation struct {
	Version     uint64
	BuiltAt     time.Time
	Fingerprint uint64
	Threshold   float64

	nodes     map[string]Node
	order     []string
	adjacency map[string][]Edge
	edgeCount int

	index *SpatialIndex
	cache *pathCache
}

// CalculateDistance returns the Euclidean distance between two nodes in
// coordinate space. It is the only metric used by the engine.
func CalculateDistance(a, b Node) float64 {
	dx := a.Lat - b.Lat
	dy := a.Lng - b.Lng
	return math.Sqrt(dx*dx + dy*dy)
}

// Len returns the number of nodes.
func (g *Generation) Len() int { return len(g.order) }

// EdgeCount returns the number of directed edges.
func (g *Generation) EdgeCount() int { return g.edgeCount }

// Node looks up a node by id.
func (g *Generation) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether id is a node of this generation.
func (g *Generation) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order (depot first).
func (g *Generation) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns a copy of the outgoing edges of id.
func (g *Generation) Edges(id string) ([]Edge, error) {
	if !g.Has(id) {
		return nil, ErrUnknownNode
	}
	adj := g.adjacency[id]
	out := make([]Edge, len(adj))
	copy(out, adj)
	return out, nil
}

// Index returns the spatial index of this generation.
func (g *Generation) Index() *SpatialIndex { return g.index }

// Nearest returns the node closest to (lat, lng) within maxDistance.
func (g *Generation) Nearest(lat, lng, maxDistance float64) (Node, bool) {
	return g.index.Nearest(lat, lng, maxDistance)
}

// WithinRadius returns the nodes strictly closer than radius to (lat, lng).
func (g *Generation) WithinRadius(lat, lng, radius float64) []Node {
	return g.index.WithinRadius(lat, lng, radius)
}

// PathDistance sums the Euclidean distances between consecutive ids.
// A path of fewer than two nodes has length 0.
func (g *Generation) PathDistance(ids []string) (float64, error) {
	total := 0.0
	for i := 0; i+1 < len(ids); i++ {
		from, ok := g.nodes[ids[i]]
		if !ok {
			return 0, ErrUnknownNode
		}
		to, ok := g.nodes[ids[i+1]]
		if !ok {
			return 0, ErrUnknownNode
		}
		total += CalculateDistance(from, to)
	}
	return total, nil
}
