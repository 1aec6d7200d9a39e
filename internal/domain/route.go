package domain

// Represents a planned visiting tour.
// Stops begin and end at the start node and may contain intermediate nodes
// taken from shortest paths. TotalDistance is in planar coordinate units.
// A Tour is produced fresh for every planning call and never cached.
type Tour struct {
	Stops         []string
	TotalDistance float64
}

// Represents one hop of a tour between consecutive stops.
type TourLeg struct {
	From     string
	To       string
	Distance float64
}

// Ordered subset of candidate sites chosen by the selection heuristic.
type SiteSelection struct {
	SiteIDs []string
}
