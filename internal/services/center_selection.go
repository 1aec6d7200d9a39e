package services

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/graph"
	"errors"
	"fmt"
	"math"
)

// DefaultSelectionEpsilon keeps the inverse-distance term finite for a site
// located exactly at the reference point.
const DefaultSelectionEpsilon = 0.1

// Additive score boosts keyed by site id.
// Sites missing from ByID receive Default.
type PriorityBoosts struct {
	Default float64            `yaml:"default"`
	ByID    map[string]float64 `yaml:"by_id"`
}

// Return the boost for a site id.
func (b PriorityBoosts) For(id string) float64 {
	if v, ok := b.ByID[id]; ok {
		return v
	}
	return b.Default
}

// Default boost table: C1 has the larger capacity.
func DefaultPriorityBoosts() PriorityBoosts {
	return PriorityBoosts{
		Default: 1.0,
		ByID:    map[string]float64{"C1": 2.0},
	}
}

type SelectionOptions struct {
	Epsilon float64
	Boosts  PriorityBoosts
}

func DefaultSelectionOptions() SelectionOptions {
	return SelectionOptions{
		Epsilon: DefaultSelectionEpsilon,
		Boosts:  DefaultPriorityBoosts(),
	}
}

// SelectOptimalCenters chooses at most maxCount sites from available.
//
// Repeated ids count once. When every candidate fits, the candidates are
// returned in input order. Otherwise the candidate with the highest
// efficiency score
//
//	1/(distance(ref, site) + epsilon) + boost(site)
//
// is picked and removed, maxCount times. Ties keep the first candidate in
// input order.
func SelectOptimalCenters(
	g *graph.Generation,
	available []string,
	maxCount int,
	ref domain.Coordinates,
	opts SelectionOptions,
) (domain.SiteSelection, error) {
	if maxCount <= 0 || len(available) == 0 {
		return domain.SiteSelection{SiteIDs: []string{}}, nil
	}

	seen := make(map[string]struct{}, len(available))
	candidates := make([]string, 0, len(available))
	for _, id := range available {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		candidates = append(candidates, id)
	}

	if len(candidates) <= maxCount {
		return domain.SiteSelection{SiteIDs: candidates}, nil
	}

	if g == nil {
		return domain.SiteSelection{}, errors.New("select centers: graph must be non-nil")
	}

	refNode := graph.Node{ID: "ref", Lat: ref.Lat, Lng: ref.Lng}
	remaining := make([]string, 0, len(candidates))
	scores := make(map[string]float64, len(candidates))
	for _, id := range candidates {
		n, ok := g.Node(id)
		if !ok {
			return domain.SiteSelection{}, fmt.Errorf("select centers: site %q: %w", id, graph.ErrUnknownNode)
		}
		remaining = append(remaining, id)
		scores[id] = 1.0/(graph.CalculateDistance(refNode, n)+opts.Epsilon) + opts.Boosts.For(id)
	}

	selected := make([]string, 0, maxCount)
	for len(selected) < maxCount && len(remaining) > 0 {
		bestIdx := -1
		bestScore := math.Inf(-1)
		for i, id := range remaining {
			if s := scores[id]; s > bestScore {
				bestScore = s
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return domain.SiteSelection{SiteIDs: selected}, nil
}
