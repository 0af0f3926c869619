package main

import (
	"log"

	"referral-arcade/internal/config"
	"referral-arcade/internal/database"
)

// Runs the schema migrations without starting the server. Useful for
// deploy pipelines that migrate before rolling the service.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations applied")
}
