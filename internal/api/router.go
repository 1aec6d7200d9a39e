package api

import (
	"collection-route-service/internal/api/handlers"
	"collection-route-service/internal/engine"
	"collection-route-service/internal/ports"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.SiteRepository, eng *engine.Engine) http.Handler {
	mux := http.NewServeMux()
	routes := make(map[string]bool)

	healthHandler := &handlers.HealthHandler{Engine: eng}
	siteHandler := &handlers.SiteHandler{Repo: repo}
	routeHandler := &handlers.RouteHandler{Repo: repo, Engine: eng}

	handle := func(path string, h http.Handler) {
		routes[path] = true
		mux.Handle(path, h)
	}

	handle("/health", http.HandlerFunc(healthHandler.Health))
	handle("/sites", http.HandlerFunc(siteHandler.Sites))
	handle("/graph/rebuild", http.HandlerFunc(routeHandler.Rebuild))
	handle("/distances", http.HandlerFunc(routeHandler.Distances))
	handle("/paths", http.HandlerFunc(routeHandler.Paths))
	handle("/nodes", http.HandlerFunc(routeHandler.Nodes))
	handle("/nearest", http.HandlerFunc(routeHandler.Nearest))
	handle("/tours", http.HandlerFunc(routeHandler.Tours))
	handle("/selections", http.HandlerFunc(routeHandler.Selections))
	handle("/submissions/sort", http.HandlerFunc(handlers.SortSubmissions))
	handle("/metrics", promhttp.Handler())

	return requestIDMiddleware(loggingMiddleware(routes, mux))
}
