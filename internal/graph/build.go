package graph

import (
	"collection-route-service/internal/domain"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Build creates a new generation from a depot and a site list.
//
// One node is created for the depot and for each site, in that order. For
// every ordered pair of distinct nodes an edge is inserted when their
// distance is below opts.ConnectionThreshold; both directions are stored
// independently. Site ids must be unique and must not collide with the depot.
func Build(version uint64, depot Node, sites []domain.Site, opts Options, builtAt time.Time) (*Generation, error) {
	threshold := opts.ConnectionThreshold
	if threshold <= 0 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("build graph: threshold=%v: %w", threshold, ErrBadThreshold)
	}

	n := 1 + len(sites)
	g := &Generation{
		Version:   version,
		BuiltAt:   builtAt,
		Threshold: threshold,
		nodes:     make(map[string]Node, n),
		order:     make([]string, 0, n),
		adjacency: make(map[string][]Edge, n),
	}

	if err := g.addNode(depot); err != nil {
		return nil, fmt.Errorf("build graph: depot: %w", err)
	}
	for i, s := range sites {
		node := Node{ID: strings.TrimSpace(s.ID), Lat: s.Lat, Lng: s.Lng}
		if err := g.addNode(node); err != nil {
			return nil, fmt.Errorf("build graph: site at index %d: %w", i, err)
		}
	}

	// O(n²) over all ordered pairs; intended for tens of sites.
	for _, from := range g.order {
		a := g.nodes[from]
		for _, to := range g.order {
			if from == to {
				continue
			}
			b := g.nodes[to]
			d := CalculateDistance(a, b)
			if d < threshold {
				g.adjacency[from] = append(g.adjacency[from], Edge{From: from, To: to, Weight: d})
				g.edgeCount++
			}
		}
	}

	nodes := g.Nodes()
	g.index = NewSpatialIndex(nodes, threshold)
	g.Fingerprint = Fingerprint(depot, sites, threshold)
	g.cache = newPathCache(g)

	return g, nil
}

func (g *Generation) addNode(n Node) error {
	if n.ID == "" {
		return ErrEmptyNodeID
	}
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	g.adjacency[n.ID] = nil
	return nil
}

// Fingerprint hashes everything that determines the shape of a generation:
// the depot, the ordered site ids and coordinates, and the threshold.
// Two inputs with the same fingerprint build the same graph.
func Fingerprint(depot Node, sites []domain.Site, threshold float64) uint64 {
	h := xxhash.New()
	var buf [8]byte

	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}
	writeNode := func(id string, lat, lng float64) {
		_, _ = h.WriteString(id)
		_, _ = h.Write([]byte{0})
		writeFloat(lat)
		writeFloat(lng)
	}

	writeNode(depot.ID, depot.Lat, depot.Lng)
	for _, s := range sites {
		writeNode(strings.TrimSpace(s.ID), s.Lat, s.Lng)
	}
	writeFloat(threshold)

	return h.Sum64()
}
