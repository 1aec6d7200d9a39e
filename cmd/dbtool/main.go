package main

import (
	"collection-route-service/internal/adapters/repositories"
	"collection-route-service/internal/config"
	"collection-route-service/internal/platform/db"
	"context"
	"database/sql"
	"flag"
	"log"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	schemaOnly := flag.Bool("schema-only", false, "create the schema without seeding sites")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/sites.json")
	if err := initAndSeed(ctx, conn, seedPath, *schemaOnly); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string, schemaOnly bool) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	log.Println("Schema ready.")

	if schemaOnly {
		return nil
	}

	log.Printf("Seeding sites from %s...", seedPath)
	if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
