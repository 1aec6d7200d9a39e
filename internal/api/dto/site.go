package dto

type SiteResponse struct {
	ID         string    `json:"id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Coords     []float64 `json:"coords"`
	Status     string    `json:"status"`
	Guidelines string    `json:"guidelines"`
	Barangay   string    `json:"barangay"`
}

type ListSitesResponse struct {
	Sites []SiteResponse `json:"sites"`
}

type UpdateSiteRequest struct {
	Status     string  `json:"status"`
	Guidelines *string `json:"guidelines"`
}
