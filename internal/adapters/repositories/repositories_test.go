package repositories

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/db"
	"collection-route-service/internal/ports"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSiteSeeds(t *testing.T) {
	sites, err := LoadSiteSeeds(filepath.Join("..", "..", "..", "data", "seeds", "sites.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sites) != 5 {
		t.Fatalf("len(sites) = %d, want 5", len(sites))
	}
	if sites[0].ID != "BRGY-001" || sites[0].Barangay != "Mandalagan" {
		t.Fatalf("first site = %+v, want BRGY-001 Mandalagan", sites[0])
	}
	if sites[4].Status != domain.SiteClosed {
		t.Fatalf("BRGY-005 status = %q, want Closed", sites[4].Status)
	}
}

func TestLoadSiteSeedsRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"empty id":   `[{"id": " ", "lat": 1, "lng": 2}]`,
		"duplicate":  `[{"id": "A"}, {"id": "A"}]`,
		"bad status": `[{"id": "A", "status": "Sleeping"}]`,
		"bad json":   `{`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatalf("write seed: %v", err)
			}
			if _, err := LoadSiteSeeds(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	path := filepath.Join(dir, "default.json")
	if err := os.WriteFile(path, []byte(`[{"id": "A", "lat": 1, "lng": 2}]`), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	sites, err := LoadSiteSeeds(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sites[0].Status != domain.SiteOpen {
		t.Fatalf("status = %q, want Open", sites[0].Status)
	}
}

func TestMemorySiteRepository(t *testing.T) {
	ctx := context.Background()
	seed := []domain.Site{
		{ID: "A", Status: domain.SiteOpen},
		{ID: "B", Status: domain.SiteOpen},
	}
	repo := NewMemorySiteRepository(seed)

	if err := repo.UpdateSite(ctx, "B", domain.SiteClosed, "closed for repairs"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seed[1].Status != domain.SiteOpen {
		t.Fatalf("seed slice was modified")
	}

	sites, err := repo.ListSites(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sites[1].Status != domain.SiteClosed || sites[1].Guidelines != "closed for repairs" {
		t.Fatalf("site B = %+v", sites[1])
	}

	sites[0].ID = "mutated"
	again, _ := repo.ListSites(ctx)
	if again[0].ID != "A" {
		t.Fatalf("ListSites must return a copy")
	}

	err = repo.UpdateSite(ctx, "Z", domain.SiteBusy, "")
	if !errors.Is(err, ports.ErrSiteNotFound) {
		t.Fatalf("err = %v, want ErrSiteNotFound", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := repo.ListSites(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

// Runs against a real database when TEST_DATABASE_URL is set.
func TestPostgresSiteRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, url)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if err := InitSchema(ctx, conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	if err := SeedFromJSON(ctx, conn, filepath.Join("..", "..", "..", "data", "seeds", "sites.json")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewPostgresSiteRepository(conn)
	sites, err := repo.ListSites(ctx)
	if err != nil {
		t.Fatalf("list sites: %v", err)
	}
	if len(sites) < 5 || sites[0].ID != "BRGY-001" {
		t.Fatalf("sites = %+v", sites)
	}

	if err := repo.UpdateSite(ctx, "BRGY-003", domain.SiteOpen, "back to normal"); err != nil {
		t.Fatalf("update site: %v", err)
	}
	if err := repo.UpdateSite(ctx, "NOPE", domain.SiteOpen, ""); !errors.Is(err, ports.ErrSiteNotFound) {
		t.Fatalf("err = %v, want ErrSiteNotFound", err)
	}
}
