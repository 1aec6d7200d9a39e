package repositories

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/ports"
	"context"
	"fmt"
	"sync"
)

// In-memory SiteRepository, used when no database is configured and in tests.
type MemorySiteRepository struct {
	mu    sync.RWMutex
	sites []domain.Site
}

func NewMemorySiteRepository(sites []domain.Site) *MemorySiteRepository {
	cp := make([]domain.Site, len(sites))
	copy(cp, sites)
	return &MemorySiteRepository{sites: cp}
}

func (m *MemorySiteRepository) ListSites(ctx context.Context) ([]domain.Site, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Site, len(m.sites))
	copy(out, m.sites)
	return out, nil
}

func (m *MemorySiteRepository) UpdateSite(ctx context.Context, id string, status domain.SiteStatus, guidelines string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("update site: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.sites {
		if m.sites[i].ID == id {
			m.sites[i].Status = status
			m.sites[i].Guidelines = guidelines
			return nil
		}
	}
	return fmt.Errorf("update site: site_id=%s: %w", id, ports.ErrSiteNotFound)
}
