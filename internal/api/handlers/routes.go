package handlers

import (
	"collection-route-service/internal/api/dto"
	"collection-route-service/internal/domain"
	"collection-route-service/internal/engine"
	"collection-route-service/internal/graph"
	"collection-route-service/internal/ports"
	"collection-route-service/internal/services"
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// RouteHandler serves graph queries and planning. Each request first asks
// the engine to rebuild from the site directory; the engine's invalidation
// policy decides whether that actually builds.
type RouteHandler struct {
	Repo   ports.SiteRepository
	Engine *engine.Engine
}

func (h *RouteHandler) refresh(ctx context.Context, force bool) (*graph.Generation, bool, error) {
	sites, err := h.Repo.ListSites(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("refresh graph: list sites: %w", err)
	}
	if force {
		g, err := h.Engine.ForceRebuild(sites)
		return g, true, err
	}
	return h.Engine.Rebuild(sites)
}

func (h *RouteHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RebuildRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	g, rebuilt, err := h.refresh(r.Context(), req.Force)
	if err != nil {
		writeServiceError(w, r, "rebuild graph", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GenerationResponse{
		Version:     g.Version,
		BuiltAt:     g.BuiltAt,
		Fingerprint: strconv.FormatUint(g.Fingerprint, 16),
		Nodes:       g.Len(),
		Edges:       g.EdgeCount(),
		Threshold:   g.Threshold,
		Rebuilt:     rebuilt,
	})
}

func (h *RouteHandler) Distances(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	source := strings.TrimSpace(r.URL.Query().Get("source"))
	if source == "" {
		source = h.Engine.Config().Depot.ID
	}

	if _, _, err := h.refresh(r.Context(), false); err != nil {
		writeServiceError(w, r, "distances", err)
		return
	}

	var dist map[string]float64
	if target := strings.TrimSpace(r.URL.Query().Get("target")); target != "" {
		d, err := h.Engine.Distance(source, target)
		if err != nil {
			writeServiceError(w, r, "distances", err)
			return
		}
		dist = map[string]float64{target: d}
	} else {
		var err error
		if dist, err = h.Engine.Distances(source); err != nil {
			writeServiceError(w, r, "distances", err)
			return
		}
	}

	res := dto.DistancesResponse{Source: source, Distances: make(map[string]*float64, len(dist))}
	for id, d := range dist {
		res.Distances[id] = finite(d)
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RouteHandler) Paths(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))
	if to == "" {
		writeError(w, r, http.StatusBadRequest, "to is required")
		return
	}
	if from == "" {
		from = h.Engine.Config().Depot.ID
	}

	if _, _, err := h.refresh(r.Context(), false); err != nil {
		writeServiceError(w, r, "shortest path", err)
		return
	}
	p, err := h.Engine.ShortestPath(from, to)
	if err != nil {
		writeServiceError(w, r, "shortest path", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PathResponse{
		From:      from,
		To:        to,
		Nodes:     p.Nodes,
		Distance:  finite(p.Distance),
		Reachable: p.Reachable,
	})
}

func (h *RouteHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil || math.IsNaN(lat) || math.IsNaN(lng) {
		writeError(w, r, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}

	maxDistance := h.Engine.Config().ConnectionThreshold
	if v := strings.TrimSpace(q.Get("max_distance")); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil || !(m > 0) {
			writeError(w, r, http.StatusBadRequest, "max_distance must be a positive number")
			return
		}
		maxDistance = m
	}

	if _, _, err := h.refresh(r.Context(), false); err != nil {
		writeServiceError(w, r, "nearest", err)
		return
	}
	n, ok, err := h.Engine.Nearest(lat, lng, maxDistance)
	if err != nil {
		writeServiceError(w, r, "nearest", err)
		return
	}

	res := dto.NearestResponse{Found: ok}
	if ok {
		res.Node = &dto.NodeResponse{ID: n.ID, Lat: n.Lat, Lng: n.Lng}
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Nodes lists graph nodes. With lat, lng and radius it lists the nodes
// strictly inside that circle; with min_lat/max_lat or min_lng/max_lng it
// lists a coordinate band sorted along that axis; otherwise every node in
// graph order.
func (h *RouteHandler) Nodes(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	params := make(map[string]float64)
	for _, key := range []string{"lat", "lng", "radius", "min_lat", "max_lat", "min_lng", "max_lng"} {
		v := strings.TrimSpace(q.Get(key))
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) {
			writeError(w, r, http.StatusBadRequest, key+" must be a number")
			return
		}
		params[key] = f
	}
	has := func(keys ...string) bool {
		for _, k := range keys {
			if _, ok := params[k]; !ok {
				return false
			}
		}
		return true
	}

	g, _, err := h.refresh(r.Context(), false)
	if err != nil {
		writeServiceError(w, r, "list nodes", err)
		return
	}

	var nodes []graph.Node
	switch {
	case has("lat", "lng", "radius"):
		nodes = g.WithinRadius(params["lat"], params["lng"], params["radius"])
	case has("min_lat", "max_lat"):
		nodes = g.Index().WithinLatRange(params["min_lat"], params["max_lat"])
	case has("min_lng", "max_lng"):
		nodes = g.Index().WithinLngRange(params["min_lng"], params["max_lng"])
	case len(params) == 0:
		nodes = g.Nodes()
	default:
		writeError(w, r, http.StatusBadRequest, "use lat+lng+radius, min_lat+max_lat or min_lng+max_lng")
		return
	}

	res := dto.ListNodesResponse{Nodes: make([]dto.NodeResponse, 0, len(nodes))}
	for _, n := range nodes {
		res.Nodes = append(res.Nodes, dto.NodeResponse{ID: n.ID, Lat: n.Lat, Lng: n.Lng})
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Tours plans a collection tour from the depot (or the given start) over the
// requested sites, every site by default.
func (h *RouteHandler) Tours(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.TourRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start := strings.TrimSpace(req.Start)
	if start == "" {
		start = h.Engine.Config().Depot.ID
	}

	route, err := services.PlanCollectionRoute(r.Context(), services.PlanCollectionRequest{
		Start:         start,
		Targets:       req.Targets,
		ExcludeClosed: req.ExcludeClosed,
		ForceRebuild:  req.ForceRebuild,
	}, h.Repo, h.Engine)
	if err != nil {
		writeServiceError(w, r, "plan tour", err)
		return
	}

	res := dto.TourResponse{
		Stops:             route.Tour.Stops,
		TotalDistance:     route.Tour.TotalDistance,
		TotalKm:           route.TotalKm,
		EstimatedMinutes:  route.EstimatedMinutes,
		Legs:              make([]dto.TourLegResponse, 0, len(route.Legs)),
		GenerationVersion: route.GenerationVersion,
	}
	for _, l := range route.Legs {
		res.Legs = append(res.Legs, dto.TourLegResponse{From: l.From, To: l.To, Distance: l.Distance, Km: l.Km})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RouteHandler) Selections(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	depot := h.Engine.Config().Depot
	ref := domain.Coordinates{Lat: depot.Lat, Lng: depot.Lng}
	if req.RefLat != nil {
		ref.Lat = *req.RefLat
	}
	if req.RefLng != nil {
		ref.Lng = *req.RefLng
	}

	if _, _, err := h.refresh(r.Context(), false); err != nil {
		writeServiceError(w, r, "select centers", err)
		return
	}
	sel, err := h.Engine.SelectOptimalCenters(req.Available, req.MaxCount, ref)
	if err != nil {
		writeServiceError(w, r, "select centers", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SelectionResponse{SiteIDs: sel.SiteIDs})
}
