package main

import (
	"collection-route-service/internal/adapters/repositories"
	"collection-route-service/internal/api"
	"collection-route-service/internal/config"
	"collection-route-service/internal/engine"
	"collection-route-service/internal/platform/db"
	"collection-route-service/internal/ports"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires the site directory (PostgreSQL, or an in-memory copy of the seed
// file when DATABASE_URL is unset) and the route engine behind the HTTP API.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := config.Get("PORT", "8080")
	seedPath := config.Get("SEED_PATH", "data/seeds/sites.json")

	engCfg, err := config.Engine()
	if err != nil {
		log.Fatal(err)
	}
	eng, err := engine.New(engCfg)
	if err != nil {
		log.Fatal(err)
	}

	repo, closeRepo, err := openSiteRepository(ctx, config.Get("DATABASE_URL", ""), seedPath)
	if err != nil {
		log.Fatal(err)
	}
	defer closeRepo()

	// Build the first generation up front so the first request does not pay for it.
	sites, err := repo.ListSites(ctx)
	if err != nil {
		log.Fatal(err)
	}
	g, err := eng.ForceRebuild(sites)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf(
		"graph ready version=%d nodes=%d edges=%d invalidation=%s validity=%s",
		g.Version, g.Len(), g.EdgeCount(), engCfg.Invalidation, engCfg.ValidityWindow,
	)

	router := api.NewRouter(repo, eng)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: err=%v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

func openSiteRepository(ctx context.Context, databaseURL, seedPath string) (ports.SiteRepository, func(), error) {
	if databaseURL == "" {
		log.Printf("DATABASE_URL not set, serving sites from %s in memory", seedPath)
		sites, err := repositories.LoadSiteSeeds(seedPath)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewMemorySiteRepository(sites), func() {}, nil
	}

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return repositories.NewPostgresSiteRepository(conn), func() { _ = conn.Close() }, nil
}
