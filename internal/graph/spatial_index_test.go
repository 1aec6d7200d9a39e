package graph

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteNearest is the reference: scan every node, keep the first minimum.
func bruteNearest(nodes []Node, lat, lng, maxDistance float64) (Node, bool) {
	best := maxDistance
	var out Node
	found := false
	for _, n := range nodes {
		dLat, dLng := n.Lat-lat, n.Lng-lng
		d := math.Sqrt(dLat*dLat + dLng*dLng)
		if d < best {
			best = d
			out = n
			found = true
		}
	}
	return out, found
}

func TestSpatialIndexNearest(t *testing.T) {
	nodes := []Node{
		{ID: "DEPOT", Lat: 10.6762, Lng: 122.9501},
		{ID: "BRGY-001", Lat: 10.6923, Lng: 122.9662},
		{ID: "BRGY-002", Lat: 10.6827, Lng: 122.9604},
		{ID: "BRGY-005", Lat: 10.6610, Lng: 123.0790},
	}
	idx := NewSpatialIndex(nodes, 0.05)

	n, ok := idx.Nearest(10.69, 122.965, 0.1)
	require.True(t, ok)
	assert.Equal(t, "BRGY-001", n.ID)

	n, ok = idx.Nearest(10.66, 123.08, 0.01)
	require.True(t, ok)
	assert.Equal(t, "BRGY-005", n.ID)

	_, ok = idx.Nearest(0, 0, 1)
	assert.False(t, ok)

	_, ok = idx.Nearest(10.6762, 122.9501, 0)
	assert.False(t, ok, "zero radius never matches")
}

func TestSpatialIndexMaxDistanceIsExclusive(t *testing.T) {
	idx := NewSpatialIndex([]Node{{ID: "A", Lat: 3, Lng: 4}}, 1)

	_, ok := idx.Nearest(0, 0, 5)
	assert.False(t, ok)

	n, ok := idx.Nearest(0, 0, 5.0001)
	require.True(t, ok)
	assert.Equal(t, "A", n.ID)
}

func TestSpatialIndexTieKeepsFirstIndexed(t *testing.T) {
	nodes := []Node{
		{ID: "EAST", Lat: 0, Lng: 1},
		{ID: "WEST", Lat: 0, Lng: -1},
		{ID: "NORTH", Lat: 1, Lng: 0},
	}
	idx := NewSpatialIndex(nodes, 0.5)

	n, ok := idx.Nearest(0, 0, 2)
	require.True(t, ok)
	assert.Equal(t, "EAST", n.ID)
}

func TestSpatialIndexAgreesWithBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	nodes := make([]Node, 200)
	for i := range nodes {
		nodes[i] = Node{ID: string(rune('a'+i%26)) + string(rune('A'+i/26)), Lat: rng.Float64() * 50, Lng: rng.Float64() * 50}
	}
	idx := NewSpatialIndex(nodes, 3)

	for q := 0; q < 500; q++ {
		lat := rng.Float64()*60 - 5
		lng := rng.Float64()*60 - 5
		radius := rng.Float64() * 20
		if q%50 == 0 {
			radius = math.Inf(1)
		}

		want, wantOK := bruteNearest(nodes, lat, lng, radius)
		got, gotOK := idx.Nearest(lat, lng, radius)
		require.Equal(t, wantOK, gotOK, "query %d", q)
		if wantOK {
			assert.Equal(t, want, got, "query %d", q)
		}
	}
}

func TestSpatialIndexRanges(t *testing.T) {
	nodes := []Node{
		{ID: "A", Lat: 3, Lng: 9},
		{ID: "B", Lat: 1, Lng: 5},
		{ID: "C", Lat: 2, Lng: 7},
		{ID: "D", Lat: 2, Lng: 1},
	}
	idx := NewSpatialIndex(nodes, 1)

	ids := func(ns []Node) []string {
		out := make([]string, 0, len(ns))
		for _, n := range ns {
			out = append(out, n.ID)
		}
		return out
	}

	assert.Equal(t, []string{"C", "D", "A"}, ids(idx.WithinLatRange(2, 3)))
	assert.Equal(t, []string{"B", "C"}, ids(idx.WithinLngRange(5, 8)))
	assert.Empty(t, idx.WithinLatRange(5, 1))
	assert.Equal(t, 4, idx.Len())
}

func TestSpatialIndexWithinRadius(t *testing.T) {
	nodes := []Node{
		{ID: "A", Lat: 3, Lng: 9},
		{ID: "B", Lat: 1, Lng: 5},
		{ID: "C", Lat: 2, Lng: 7},
		{ID: "D", Lat: 2, Lng: 1},
	}
	idx := NewSpatialIndex(nodes, 1)

	got := idx.WithinRadius(2, 6, 1.5)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].ID)
	assert.Equal(t, "C", got[1].ID)

	assert.Empty(t, idx.WithinRadius(2, 7, 0))
	assert.Empty(t, idx.WithinRadius(math.NaN(), 7, 5))
	// Exclusive bound: C sits exactly 1 away.
	assert.Empty(t, idx.WithinRadius(2, 8, 1))
}

func TestSpatialIndexWithinRadiusAgreesWithBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	nodes := make([]Node, 150)
	for i := range nodes {
		nodes[i] = Node{ID: string(rune('a'+i%26)) + string(rune('A'+i/26)), Lat: rng.Float64() * 40, Lng: rng.Float64() * 40}
	}
	idx := NewSpatialIndex(nodes, 2)

	for q := 0; q < 200; q++ {
		lat := rng.Float64() * 40
		lng := rng.Float64() * 40
		radius := rng.Float64() * 6

		var want []Node
		for _, n := range nodes {
			dLat, dLng := n.Lat-lat, n.Lng-lng
			if math.Sqrt(dLat*dLat+dLng*dLng) < radius {
				want = append(want, n)
			}
		}
		got := idx.WithinRadius(lat, lng, radius)
		require.Len(t, got, len(want), "query %d", q)
		for i := range want {
			assert.Equal(t, want[i].ID, got[i].ID, "query %d", q)
		}
	}
}
