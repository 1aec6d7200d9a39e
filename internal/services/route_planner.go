package services

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/graph"
	"errors"
	"fmt"
	"math"
)

// ErrUnreachableTargets is returned when the remaining targets, or the way
// back to the start, cannot be reached over the graph.
var ErrUnreachableTargets = errors.New("unreachable targets")

// Plan a visiting tour using a greedy nearest-neighbor algorithm.
//
// Starting at start, the planner repeatedly moves to the unvisited target
// with the shortest graph path from the current position, appending that
// path (minus the current node) to the route, and finally returns to start.
// Straight-line distance is a lower bound of path distance, so it is used to
// skip candidates that cannot beat the best path found so far.
//
// Ties keep the first candidate in target order (strict <), which makes the
// tour deterministic for a given target ordering. It does not attempt
// global optimization.
func PlanTour(g *graph.Generation, start string, targets []string) (domain.Tour, error) {
	if g == nil {
		return domain.Tour{}, errors.New("plan tour: graph must be non-nil")
	}

	startNode, ok := g.Node(start)
	if !ok {
		return domain.Tour{}, fmt.Errorf("plan tour: start %q: %w", start, graph.ErrUnknownNode)
	}

	if len(targets) == 0 {
		return domain.Tour{Stops: []string{start, start}, TotalDistance: 0}, nil
	}

	unvisited := make([]string, 0, len(targets))
	for _, t := range targets {
		if !g.Has(t) {
			return domain.Tour{}, fmt.Errorf("plan tour: target %q: %w", t, graph.ErrUnknownNode)
		}
		unvisited = append(unvisited, t)
	}

	route := []string{start}
	current := startNode

	for len(unvisited) > 0 {
		bestIdx := -1
		bestDistance := math.Inf(1)
		var bestPath graph.Path

		// Select next target by minimum path distance (greedy step).
		for i, t := range unvisited {
			targetNode, _ := g.Node(t)
			if graph.CalculateDistance(current, targetNode) >= bestDistance {
				continue
			}

			p, err := g.ShortestPath(current.ID, t)
			if err != nil {
				return domain.Tour{}, fmt.Errorf("plan tour: path %q -> %q: %w", current.ID, t, err)
			}
			if !p.Reachable {
				continue
			}
			if p.Distance < bestDistance {
				bestIdx = i
				bestDistance = p.Distance
				bestPath = p
			}
		}

		if bestIdx < 0 {
			return domain.Tour{}, fmt.Errorf(
				"plan tour: from %q: %w: %v",
				current.ID, ErrUnreachableTargets, unvisited,
			)
		}

		route = append(route, bestPath.Nodes[1:]...)
		current, _ = g.Node(unvisited[bestIdx])
		unvisited = append(unvisited[:bestIdx], unvisited[bestIdx+1:]...)
	}

	back, err := g.ShortestPath(current.ID, start)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("plan tour: return leg %q -> %q: %w", current.ID, start, err)
	}
	if !back.Reachable {
		return domain.Tour{}, fmt.Errorf(
			"plan tour: return leg %q -> %q: %w",
			current.ID, start, ErrUnreachableTargets,
		)
	}
	route = append(route, back.Nodes[1:]...)

	total, err := g.PathDistance(route)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("plan tour: total distance: %w", err)
	}

	return domain.Tour{Stops: route, TotalDistance: total}, nil
}

// Split a tour into consecutive legs with their straight-line distances.
func TourLegs(g *graph.Generation, tour domain.Tour) ([]domain.TourLeg, error) {
	if len(tour.Stops) < 2 {
		return []domain.TourLeg{}, nil
	}

	legs := make([]domain.TourLeg, 0, len(tour.Stops)-1)
	for i := 0; i+1 < len(tour.Stops); i++ {
		from, to := tour.Stops[i], tour.Stops[i+1]
		d, err := g.PathDistance([]string{from, to})
		if err != nil {
			return nil, fmt.Errorf("tour legs: %q -> %q: %w", from, to, err)
		}
		legs = append(legs, domain.TourLeg{From: from, To: to, Distance: d})
	}
	return legs, nil
}
