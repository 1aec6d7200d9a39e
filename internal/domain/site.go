package domain

import (
	"fmt"
	"strings"
)

// Operational status of a collection site.
type SiteStatus string

const (
	SiteOpen   SiteStatus = "Open"
	SiteBusy   SiteStatus = "Busy"
	SiteClosed SiteStatus = "Closed"
)

// Parse a status string, accepting any letter case.
func ParseSiteStatus(s string) (SiteStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return SiteOpen, nil
	case "busy":
		return SiteBusy, nil
	case "closed":
		return SiteClosed, nil
	}
	return "", fmt.Errorf("parse site status: unknown status %q", s)
}

// Represents a collection point where residents drop off recyclables.
// Only ID and coordinates take part in routing; the remaining fields are
// directory data shown to residents.
type Site struct {
	ID         string
	Lat        float64
	Lng        float64
	Status     SiteStatus
	Guidelines string
	Barangay   string
}

func (s Site) Coordinates() Coordinates { return Coordinates{Lat: s.Lat, Lng: s.Lng} }

// Return site IDs in directory order.
func SiteIDs(sites []Site) []string {
	ids := make([]string, 0, len(sites))
	for _, s := range sites {
		ids = append(ids, s.ID)
	}
	return ids
}
