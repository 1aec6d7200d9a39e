package domain

// Immutable planar coordinates (latitude, longitude).
// The engine treats differences between them as distances directly.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Return coordinates as [lat, lng] for map rendering.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lat, c.Lng} }
