package handlers

import (
	"collection-route-service/internal/api/dto"
	"collection-route-service/internal/domain"
	"collection-route-service/internal/ports"
	"net/http"
	"strings"
)

// SiteHandler exposes the collection site directory.
type SiteHandler struct {
	Repo ports.SiteRepository
}

func (h *SiteHandler) Sites(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPatch:
		h.update(w, r)
	default:
		w.Header().Set("Allow", "GET, PATCH")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SiteHandler) list(w http.ResponseWriter, r *http.Request) {
	sites, err := h.Repo.ListSites(r.Context())
	if err != nil {
		writeServiceError(w, r, "list sites", err)
		return
	}

	res := dto.ListSitesResponse{Sites: make([]dto.SiteResponse, 0, len(sites))}
	for _, s := range sites {
		res.Sites = append(res.Sites, siteResponse(s))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// update changes a site's status and, when given, its guidelines.
func (h *SiteHandler) update(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	var req dto.UpdateSiteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := domain.ParseSiteStatus(req.Status)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "status must be one of Open, Busy, Closed")
		return
	}

	sites, err := h.Repo.ListSites(r.Context())
	if err != nil {
		writeServiceError(w, r, "update site", err)
		return
	}
	var current *domain.Site
	for i := range sites {
		if sites[i].ID == id {
			current = &sites[i]
			break
		}
	}
	if current == nil {
		writeError(w, r, http.StatusNotFound, "site not found")
		return
	}

	guidelines := current.Guidelines
	if req.Guidelines != nil {
		guidelines = strings.TrimSpace(*req.Guidelines)
	}

	if err := h.Repo.UpdateSite(r.Context(), id, status, guidelines); err != nil {
		writeServiceError(w, r, "update site", err)
		return
	}

	current.Status = status
	current.Guidelines = guidelines
	writeJSON(w, r, http.StatusOK, siteResponse(*current))
}

func siteResponse(s domain.Site) dto.SiteResponse {
	return dto.SiteResponse{
		ID:         s.ID,
		Lat:        s.Lat,
		Lng:        s.Lng,
		Coords:     s.Coordinates().CoordsToList(),
		Status:     string(s.Status),
		Guidelines: s.Guidelines,
		Barangay:   s.Barangay,
	}
}
