package services

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/graph"
	"collection-route-service/internal/platform/obs"
	"collection-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// KmPerUnit converts planar coordinate units to approximate kilometres.
	KmPerUnit = 111.0
	// MinutesPerKm is the travel-time estimate shown next to a route.
	MinutesPerKm = 3.0
)

// RouteEngine owns the active graph generation.
type RouteEngine interface {
	Rebuild(sites []domain.Site) (*graph.Generation, bool, error)
	ForceRebuild(sites []domain.Site) (*graph.Generation, error)
}

type PlanCollectionRequest struct {
	Start         string
	Targets       []string
	ExcludeClosed bool
	ForceRebuild  bool
}

type CollectionLeg struct {
	domain.TourLeg
	Km float64
}

type CollectionRoute struct {
	Tour              domain.Tour
	Legs              []CollectionLeg
	GenerationVersion uint64
	Rebuilt           bool
	TotalKm           float64
	EstimatedMinutes  float64
}

// PlanCollectionRoute refreshes the graph from the site directory and plans
// a collection tour on the resulting generation.
//
// Without explicit targets every site is visited in directory order. Closed
// sites are dropped from the targets when ExcludeClosed is set; they stay in
// the graph and may still appear as intermediate stops.
func PlanCollectionRoute(
	ctx context.Context,
	req PlanCollectionRequest,
	repo ports.SiteRepository,
	eng RouteEngine,
) (route CollectionRoute, err error) {
	defer obs.Time(ctx, "plan_collection_route")(&err)

	sites, err := repo.ListSites(ctx)
	if err != nil {
		return CollectionRoute{}, fmt.Errorf("plan collection route: list sites: %w", err)
	}

	var g *graph.Generation
	rebuilt := true
	if req.ForceRebuild {
		g, err = eng.ForceRebuild(sites)
	} else {
		g, rebuilt, err = eng.Rebuild(sites)
	}
	if err != nil {
		return CollectionRoute{}, fmt.Errorf("plan collection route: %w", err)
	}

	start := strings.TrimSpace(req.Start)
	if start == "" {
		return CollectionRoute{}, errors.New("plan collection route: start is required")
	}

	targets := collectionTargets(sites, req.Targets, req.ExcludeClosed)

	tour, err := PlanTour(g, start, targets)
	if err != nil {
		return CollectionRoute{}, fmt.Errorf("plan collection route: %w", err)
	}

	legs, err := TourLegs(g, tour)
	if err != nil {
		return CollectionRoute{}, fmt.Errorf("plan collection route: %w", err)
	}

	out := CollectionRoute{
		Tour:              tour,
		Legs:              make([]CollectionLeg, 0, len(legs)),
		GenerationVersion: g.Version,
		Rebuilt:           rebuilt,
		TotalKm:           tour.TotalDistance * KmPerUnit,
	}
	for _, l := range legs {
		out.Legs = append(out.Legs, CollectionLeg{TourLeg: l, Km: l.Distance * KmPerUnit})
	}
	out.EstimatedMinutes = out.TotalKm * MinutesPerKm

	return out, nil
}

func collectionTargets(sites []domain.Site, requested []string, excludeClosed bool) []string {
	status := make(map[string]domain.SiteStatus, len(sites))
	for _, s := range sites {
		status[s.ID] = s.Status
	}

	ids := requested
	if len(ids) == 0 {
		ids = domain.SiteIDs(sites)
	}

	targets := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if excludeClosed && status[id] == domain.SiteClosed {
			continue
		}
		targets = append(targets, id)
	}
	return targets
}
