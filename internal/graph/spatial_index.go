package graph

import (
	"cmp"
	"collection-route-service/internal/sorting"
	"math"
	"sort"
)

type cellKey struct {
	x, y int64
}

// SpatialIndex answers nearest-node queries over a fixed node set.
//
// Nodes are bucketed into a uniform grid; a query only scans the cells that
// overlap the square of side 2*maxDistance around the query point. The index
// also keeps latitude- and longitude-sorted snapshots for range listing.
// It is built once per generation and is read-only afterwards.
type SpatialIndex struct {
	cellSize float64
	nodes    []Node
	cells    map[cellKey][]int
	byLat    []Node
	byLng    []Node
}

// NewSpatialIndex indexes nodes with the given grid cell size. A
// non-positive cell size falls back to DefaultConnectionThreshold.
func NewSpatialIndex(nodes []Node, cellSize float64) *SpatialIndex {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		cellSize = DefaultConnectionThreshold
	}

	idx := &SpatialIndex{
		cellSize: cellSize,
		nodes:    make([]Node, len(nodes)),
		cells:    make(map[cellKey][]int),
	}
	copy(idx.nodes, nodes)

	for i, n := range idx.nodes {
		k := idx.cellOf(n.Lat, n.Lng)
		idx.cells[k] = append(idx.cells[k], i)
	}

	idx.byLat = sorting.Sorted(idx.nodes, func(a, b Node) int { return cmp.Compare(a.Lat, b.Lat) })
	idx.byLng = sorting.Sorted(idx.nodes, func(a, b Node) int { return cmp.Compare(a.Lng, b.Lng) })

	return idx
}

// Len returns the number of indexed nodes.
func (s *SpatialIndex) Len() int { return len(s.nodes) }

func (s *SpatialIndex) cellOf(lat, lng float64) cellKey {
	return cellKey{
		x: int64(math.Floor(lat / s.cellSize)),
		y: int64(math.Floor(lng / s.cellSize)),
	}
}

// Nearest returns the node closest to (lat, lng) whose distance is strictly
// less than maxDistance. Equal distances resolve to the node indexed first.
func (s *SpatialIndex) Nearest(lat, lng, maxDistance float64) (Node, bool) {
	if len(s.nodes) == 0 || !(maxDistance > 0) || math.IsNaN(lat) || math.IsNaN(lng) {
		return Node{}, false
	}

	best := maxDistance
	bestIdx := -1
	consider := func(i int) {
		n := s.nodes[i]
		dLat := n.Lat - lat
		dLng := n.Lng - lng
		d := math.Sqrt(dLat*dLat + dLng*dLng)
		if d < best || (bestIdx >= 0 && d == best && i < bestIdx) {
			best = d
			bestIdx = i
		}
	}

	if s.scanAll(lat, lng, maxDistance) {
		for i := range s.nodes {
			consider(i)
		}
	} else {
		lo := s.cellOf(lat-maxDistance, lng-maxDistance)
		hi := s.cellOf(lat+maxDistance, lng+maxDistance)
		for x := lo.x; x <= hi.x; x++ {
			for y := lo.y; y <= hi.y; y++ {
				for _, i := range s.cells[cellKey{x: x, y: y}] {
					consider(i)
				}
			}
		}
	}

	if bestIdx < 0 {
		return Node{}, false
	}
	return s.nodes[bestIdx], true
}

// scanAll reports whether visiting every node is cheaper than walking the
// grid cells covered by the query square.
func (s *SpatialIndex) scanAll(lat, lng, maxDistance float64) bool {
	if math.IsInf(maxDistance, 0) {
		return true
	}
	spanX := math.Floor((lat+maxDistance)/s.cellSize) - math.Floor((lat-maxDistance)/s.cellSize) + 1
	spanY := math.Floor((lng+maxDistance)/s.cellSize) - math.Floor((lng-maxDistance)/s.cellSize) + 1
	return spanX*spanY > float64(len(s.cells))
}

// WithinLatRange returns the nodes with minLat <= lat <= maxLat, ordered by latitude.
func (s *SpatialIndex) WithinLatRange(minLat, maxLat float64) []Node {
	return sortedRange(s.byLat, minLat, maxLat, func(n Node) float64 { return n.Lat })
}

// WithinLngRange returns the nodes with minLng <= lng <= maxLng, ordered by longitude.
func (s *SpatialIndex) WithinLngRange(minLng, maxLng float64) []Node {
	return sortedRange(s.byLng, minLng, maxLng, func(n Node) float64 { return n.Lng })
}

func sortedRange(sorted []Node, lo, hi float64, key func(Node) float64) []Node {
	if lo > hi {
		return []Node{}
	}
	start := sort.Search(len(sorted), func(i int) bool { return key(sorted[i]) >= lo })
	end := sort.Search(len(sorted), func(i int) bool { return key(sorted[i]) > hi })
	out := make([]Node, end-start)
	copy(out, sorted[start:end])
	return out
}

// WithinRadius returns the nodes strictly closer than radius to (lat, lng),
// in indexing order.
func (s *SpatialIndex) WithinRadius(lat, lng, radius float64) []Node {
	out := []Node{}
	if len(s.nodes) == 0 || !(radius > 0) || math.IsNaN(lat) || math.IsNaN(lng) {
		return out
	}

	var hits []int
	collect := func(i int) {
		n := s.nodes[i]
		dLat := n.Lat - lat
		dLng := n.Lng - lng
		if math.Sqrt(dLat*dLat+dLng*dLng) < radius {
			hits = append(hits, i)
		}
	}

	if s.scanAll(lat, lng, radius) {
		for i := range s.nodes {
			collect(i)
		}
	} else {
		lo := s.cellOf(lat-radius, lng-radius)
		hi := s.cellOf(lat+radius, lng+radius)
		for x := lo.x; x <= hi.x; x++ {
			for y := lo.y; y <= hi.y; y++ {
				for _, i := range s.cells[cellKey{x: x, y: y}] {
					collect(i)
				}
			}
		}
		sort.Ints(hits)
	}

	for _, i := range hits {
		out = append(out, s.nodes[i])
	}
	return out
}
