package repositories

import (
	"collection-route-service/internal/domain"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the PostgreSQL database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSitesQuery := `
	CREATE TABLE IF NOT EXISTS sites (
		site_id    TEXT PRIMARY KEY,
		position   INTEGER NOT NULL,
		lat        DOUBLE PRECISION NOT NULL,
		lng        DOUBLE PRECISION NOT NULL,
		status     TEXT NOT NULL DEFAULT 'Open'
			CHECK (status IN ('Open', 'Busy', 'Closed')),
		guidelines TEXT NOT NULL DEFAULT '',
		barangay   TEXT NOT NULL DEFAULT ''
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_sites_position
	ON sites(position);
	`

	statements := []string{
		createSitesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type SiteSeed struct {
	ID         string  `json:"id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Status     string  `json:"status"`
	Guidelines string  `json:"guidelines"`
	Barangay   string  `json:"barangay"`
}

// Read and validate site seeds from a JSON file. Seeds keep file order.
func LoadSiteSeeds(jsonPath string) ([]domain.Site, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed sites: read %q: %w", jsonPath, err)
	}

	var data []SiteSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed sites: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	sites := make([]domain.Site, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("seed sites: item at index %d: id cannot be empty", i+1)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("seed sites: item at index %d: duplicate id %q", i+1, id)
		}
		seen[id] = struct{}{}

		status := domain.SiteOpen
		if strings.TrimSpace(item.Status) != "" {
			status, err = domain.ParseSiteStatus(item.Status)
			if err != nil {
				return nil, fmt.Errorf("seed sites: item %q: %w", id, err)
			}
		}

		sites = append(sites, domain.Site{
			ID:         id,
			Lat:        item.Lat,
			Lng:        item.Lng,
			Status:     status,
			Guidelines: item.Guidelines,
			Barangay:   item.Barangay,
		})
	}

	return sites, nil
}

// Populate the sites table from a JSON file. Existing rows with the same id
// are overwritten.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	sites, err := LoadSiteSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed sites: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO sites (
		site_id,
		position,
		lat,
		lng,
		status,
		guidelines,
		barangay
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (site_id) DO UPDATE SET
		position   = EXCLUDED.position,
		lat        = EXCLUDED.lat,
		lng        = EXCLUDED.lng,
		status     = EXCLUDED.status,
		guidelines = EXCLUDED.guidelines,
		barangay   = EXCLUDED.barangay;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed sites: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range sites {
		if _, err := stmt.ExecContext(ctx, s.ID, i+1, s.Lat, s.Lng, string(s.Status), s.Guidelines, s.Barangay); err != nil {
			return fmt.Errorf("seed sites: insert site_id=%s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed sites: commit tx: %w", err)
	}

	return nil
}
