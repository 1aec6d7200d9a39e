package repositories

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/obs"
	"collection-route-service/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgreSQL-backed implementation of the SiteRepository port.
type PostgresSiteRepository struct{ DB *sql.DB }

func NewPostgresSiteRepository(db *sql.DB) *PostgresSiteRepository {
	return &PostgresSiteRepository{DB: db}
}

// Return all sites in directory order.
func (p *PostgresSiteRepository) ListSites(ctx context.Context) (sites []domain.Site, err error) {
	defer obs.Time(ctx, "list_sites")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres site repository: DB is nil")
	}

	query := `
	SELECT
		site_id,
		lat,
		lng,
		status,
		guidelines,
		barangay
	FROM sites
	ORDER BY position, site_id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sites: query sites table: %w", err)
	}
	defer rows.Close()

	sites = make([]domain.Site, 0, 16)
	for rows.Next() {
		var s domain.Site
		var status string
		if err := rows.Scan(&s.ID, &s.Lat, &s.Lng, &status, &s.Guidelines, &s.Barangay); err != nil {
			return nil, fmt.Errorf("list sites: scan row: %w", err)
		}
		if s.Status, err = domain.ParseSiteStatus(status); err != nil {
			return nil, fmt.Errorf("list sites: site_id=%s: %w", s.ID, err)
		}
		sites = append(sites, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sites: row iteration: %w", err)
	}

	return sites, nil
}

// Update the status and guidelines of one site.
func (p *PostgresSiteRepository) UpdateSite(ctx context.Context, id string, status domain.SiteStatus, guidelines string) (err error) {
	defer obs.Time(ctx, "update_site")(&err)

	if p.DB == nil {
		return errors.New("postgres site repository: DB is nil")
	}

	query := `
	UPDATE sites
	SET status = $2, guidelines = $3
	WHERE site_id = $1;
	`
	res, err := p.DB.ExecContext(ctx, query, id, string(status), guidelines)
	if err != nil {
		return fmt.Errorf("update site: site_id=%s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update site: site_id=%s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update site: site_id=%s: %w", id, ports.ErrSiteNotFound)
	}

	return nil
}
