package handlers

import (
	"collection-route-service/internal/engine"
	"net/http"
)

type HealthHandler struct {
	Engine *engine.Engine
}

// Health provides a liveness check that also reports the active graph generation.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	res := map[string]any{"status": "ok", "graph_version": uint64(0)}
	if g := h.Engine.Current(); g != nil {
		res["graph_version"] = g.Version
	}
	writeJSON(w, r, http.StatusOK, res)
}
