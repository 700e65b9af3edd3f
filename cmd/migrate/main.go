// Command migrate applies the GORM schema to the configured database.
package main

import (
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env, "warn")

	// Connect only migrates outside production.
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("schema up to date (%d models)", len(database.PersistentModels()))
}
