// Command seed populates the database with demo content.
package main

import (
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of generated users")
	numArticles := flag.Int("articles", 80, "Number of generated articles")
	numDiscussions := flag.Int("discussions", 12, "Number of generated discussions")
	numProposals := flag.Int("proposals", 10, "Number of generated proposals")
	fixtures := flag.String("fixtures", "", "YAML fixture file (defaults to the built-in set)")
	skipFixtures := flag.Bool("no-fixtures", false, "Skip the fixture set")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Seed for generated content (0 = random)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}
	middleware.Logger = middleware.NewLogger(cfg.Env, "warn")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if !*skipFixtures {
		var fx *seed.Fixtures
		if *fixtures != "" {
			fx, err = seed.LoadFixtures(*fixtures)
		} else {
			fx, err = seed.DefaultFixtures()
		}
		if err != nil {
			log.Fatalf("❌ Fixtures: %v", err)
		}
		sum, err := s.ApplyFixtures(fx)
		if err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
		log.Printf("✓ fixtures: %s", sum)
	}

	sum, err := s.SeedDemo(seed.Options{
		NumUsers:       *numUsers,
		NumArticles:    *numArticles,
		NumDiscussions: *numDiscussions,
		NumProposals:   *numProposals,
		Seed:           *randSeed,
	})
	if err != nil {
		log.Fatalf("❌ Demo seeding failed: %v", err)
	}
	log.Printf("✓ generated: %s", sum)

	log.Println("✨ All done! Your database is now populated with demo data.")
	log.Printf("📧 All seeded users have the password: %s", seed.DemoPassword)
}
