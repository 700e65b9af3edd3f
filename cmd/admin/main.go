// Command admin provisions the admin credential used by /api/admin/authenticate.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"inkwell/internal/bootstrap"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin set [-username name] [-password secret]  - create or rotate the admin credential")
	fmt.Println("  go run ./cmd/admin show                                     - print the provisioned admin username")
	fmt.Println()
	fmt.Println("Flags default to ADMIN_USERNAME / ADMIN_PASSWORD.")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env, "warn")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "set":
		fs := flag.NewFlagSet("set", flag.ExitOnError)
		username := fs.String("username", cfg.AdminUsername, "admin username")
		password := fs.String("password", cfg.AdminPassword, "admin password")
		_ = fs.Parse(os.Args[2:])

		if strings.TrimSpace(*username) == "" || *password == "" {
			fmt.Println("username and password are required")
			os.Exit(1)
		}
		cfg.AdminUsername, cfg.AdminPassword = *username, *password
		if err := bootstrap.EnsureAdmin(context.Background(), cfg, db); err != nil {
			log.Fatalf("Failed to set admin credential: %v", err)
		}
		fmt.Printf("✅ Admin credential for %s is set\n", *username)

	case "show":
		var creds []models.AdminCredential
		if err := db.Order("updated_at DESC").Find(&creds).Error; err != nil {
			log.Fatalf("Failed to read admin credential: %v", err)
		}
		if len(creds) == 0 {
			fmt.Println("No admin credential provisioned")
			return
		}
		for _, c := range creds {
			fmt.Printf("%s (updated %s)\n", c.Username, c.UpdatedAt.Format("2006-01-02 15:04"))
		}

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

