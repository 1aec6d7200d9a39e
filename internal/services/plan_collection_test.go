package services

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/graph"
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

type stubSiteRepo struct {
	sites []domain.Site
	err   error
}

func (r *stubSiteRepo) ListSites(ctx context.Context) ([]domain.Site, error) {
	return r.sites, r.err
}

func (r *stubSiteRepo) UpdateSite(ctx context.Context, id string, status domain.SiteStatus, guidelines string) error {
	return nil
}

// stubEngine builds a fresh generation on every call and records which
// entry point was used.
type stubEngine struct {
	forced  int
	rebuilt int
}

func (e *stubEngine) build(sites []domain.Site) (*graph.Generation, error) {
	return graph.Build(7, graph.Node{ID: "D", Lat: -1, Lng: 0}, sites, graph.DefaultOptions(), time.Now())
}

func (e *stubEngine) Rebuild(sites []domain.Site) (*graph.Generation, bool, error) {
	e.rebuilt++
	g, err := e.build(sites)
	return g, false, err
}

func (e *stubEngine) ForceRebuild(sites []domain.Site) (*graph.Generation, error) {
	e.forced++
	return e.build(sites)
}

func collectionSites() []domain.Site {
	return []domain.Site{
		{ID: "C", Lat: 5, Lng: 0, Status: domain.SiteOpen},
		{ID: "A", Lat: 0, Lng: 0, Status: domain.SiteBusy},
		{ID: "B", Lat: 1, Lng: 0, Status: domain.SiteClosed},
	}
}

func TestPlanCollectionRouteVisitsAllSites(t *testing.T) {
	repo := &stubSiteRepo{sites: collectionSites()}
	eng := &stubEngine{}

	route, err := PlanCollectionRoute(context.Background(), PlanCollectionRequest{Start: "D"}, repo, eng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"D", "A", "B", "C", "D"}
	if !reflect.DeepEqual(route.Tour.Stops, want) {
		t.Fatalf("stops = %v, want %v", route.Tour.Stops, want)
	}
	if eng.rebuilt != 1 || eng.forced != 0 {
		t.Fatalf("rebuilt=%d forced=%d, want 1 and 0", eng.rebuilt, eng.forced)
	}
	if route.Rebuilt {
		t.Fatalf("Rebuilt = true, want false from policy-gated rebuild")
	}
	if route.GenerationVersion != 7 {
		t.Fatalf("version = %d, want 7", route.GenerationVersion)
	}
	if math.Abs(route.TotalKm-12*KmPerUnit) > 1e-6 {
		t.Fatalf("total km = %v, want %v", route.TotalKm, 12*KmPerUnit)
	}
	if math.Abs(route.EstimatedMinutes-route.TotalKm*MinutesPerKm) > 1e-6 {
		t.Fatalf("minutes = %v, want %v", route.EstimatedMinutes, route.TotalKm*MinutesPerKm)
	}
	if len(route.Legs) != 4 {
		t.Fatalf("len(legs) = %d, want 4", len(route.Legs))
	}
	if math.Abs(route.Legs[2].Km-4*KmPerUnit) > 1e-6 {
		t.Fatalf("leg B->C km = %v, want %v", route.Legs[2].Km, 4*KmPerUnit)
	}
}

func TestPlanCollectionRouteExcludesClosedSites(t *testing.T) {
	repo := &stubSiteRepo{sites: collectionSites()}
	eng := &stubEngine{}

	req := PlanCollectionRequest{Start: "D", ExcludeClosed: true, ForceRebuild: true}
	route, err := PlanCollectionRoute(context.Background(), req, repo, eng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// B is closed but lies on the straight line, so it is never a target;
	// A->C is a direct edge.
	want := []string{"D", "A", "C", "D"}
	if !reflect.DeepEqual(route.Tour.Stops, want) {
		t.Fatalf("stops = %v, want %v", route.Tour.Stops, want)
	}
	if eng.forced != 1 || !route.Rebuilt {
		t.Fatalf("forced=%d rebuilt=%v, want 1 and true", eng.forced, route.Rebuilt)
	}
}

func TestPlanCollectionRouteExplicitTargets(t *testing.T) {
	repo := &stubSiteRepo{sites: collectionSites()}

	route, err := PlanCollectionRoute(context.Background(), PlanCollectionRequest{Start: "D", Targets: []string{" C "}}, repo, &stubEngine{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"D", "C", "D"}; !reflect.DeepEqual(route.Tour.Stops, want) {
		t.Fatalf("stops = %v, want %v", route.Tour.Stops, want)
	}

	_, err = PlanCollectionRoute(context.Background(), PlanCollectionRequest{Start: "D", Targets: []string{"NOPE"}}, repo, &stubEngine{})
	if !errors.Is(err, graph.ErrUnknownNode) {
		t.Fatalf("err = %v, want ErrUnknownNode", err)
	}
}

func TestPlanCollectionRouteErrors(t *testing.T) {
	listErr := errors.New("db down")
	_, err := PlanCollectionRoute(context.Background(), PlanCollectionRequest{Start: "D"}, &stubSiteRepo{err: listErr}, &stubEngine{})
	if !errors.Is(err, listErr) {
		t.Fatalf("err = %v, want wrapped list error", err)
	}

	_, err = PlanCollectionRoute(context.Background(), PlanCollectionRequest{}, &stubSiteRepo{sites: collectionSites()}, &stubEngine{})
	if err == nil {
		t.Fatalf("expected error for missing start")
	}
}
