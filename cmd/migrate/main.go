// Command migrate applies the database schema. Production deployments run
// this explicitly; development environments auto-migrate on connect.
package main

import (
	"flag"
	"fmt"
	"log"

	"noticeboard/internal/config"
	"noticeboard/internal/database"
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Println("Schema is up to date.")
	for _, model := range database.AllModels() {
		fmt.Printf("  - %T\n", model)
	}
}
