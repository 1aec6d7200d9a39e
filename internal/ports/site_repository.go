package ports

import (
	"collection-route-service/internal/domain"
	"context"
	"errors"
)

// ErrSiteNotFound is returned when an update targets an unknown site id.
var ErrSiteNotFound = errors.New("site not found")

// Port: a boundary for the collection site directory.
type SiteRepository interface {
	// Retrieve every site in directory order.
	ListSites(ctx context.Context) ([]domain.Site, error)
	// Change the status and guidelines of one site.
	UpdateSite(ctx context.Context, id string, status domain.SiteStatus, guidelines string) error
}
