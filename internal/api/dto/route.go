package dto

import "time"

type RebuildRequest struct {
	Force bool `json:"force"`
}

type GenerationResponse struct {
	Version     uint64    `json:"version"`
	BuiltAt     time.Time `json:"built_at"`
	Fingerprint string    `json:"fingerprint"`
	Nodes       int       `json:"nodes"`
	Edges       int       `json:"edges"`
	Threshold   float64   `json:"connection_threshold"`
	Rebuilt     bool      `json:"rebuilt"`
}

// Unreachable distances are encoded as null.
type DistancesResponse struct {
	Source    string              `json:"source"`
	Distances map[string]*float64 `json:"distances"`
}

type PathResponse struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Nodes     []string `json:"nodes"`
	Distance  *float64 `json:"distance"`
	Reachable bool     `json:"reachable"`
}

type NodeResponse struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ListNodesResponse struct {
	Nodes []NodeResponse `json:"nodes"`
}

type NearestResponse struct {
	Found bool          `json:"found"`
	Node  *NodeResponse `json:"node,omitempty"`
}

type TourRequest struct {
	Start         string   `json:"start"`
	Targets       []string `json:"targets"`
	ExcludeClosed bool     `json:"exclude_closed"`
	ForceRebuild  bool     `json:"force_rebuild"`
}

type TourLegResponse struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Distance float64 `json:"distance"`
	Km       float64 `json:"km"`
}

type TourResponse struct {
	Stops             []string          `json:"stops"`
	TotalDistance     float64           `json:"total_distance"`
	TotalKm           float64           `json:"total_km"`
	EstimatedMinutes  float64           `json:"estimated_minutes"`
	Legs              []TourLegResponse `json:"legs"`
	GenerationVersion uint64            `json:"generation_version"`
}

type SelectionRequest struct {
	Available []string `json:"available"`
	MaxCount  int      `json:"max_count"`
	RefLat    *float64 `json:"ref_lat"`
	RefLng    *float64 `json:"ref_lng"`
}

type SelectionResponse struct {
	SiteIDs []string `json:"site_ids"`
}
