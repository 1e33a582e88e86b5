// Command seed populates a development database with generated data.
package main

import (
	"flag"
	"log"

	"noticeboard/internal/config"
	"noticeboard/internal/database"
	"noticeboard/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Wipe existing data before seeding")
	adminEmail := flag.String("admin-email", "", "Ensure an admin account with this email")
	adminPassword := flag.String("admin-password", "", "Password for the ensured admin account")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		Users:       *numUsers,
		Posts:       *numPosts,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if *adminEmail != "" {
		admin, err := seed.EnsureAdmin(db, *adminEmail, *adminPassword)
		if err != nil {
			log.Fatalf("Failed to ensure admin account: %v", err)
		}
		log.Printf("admin account ready: %s (id=%d)", admin.Email, admin.ID)
	}
}
