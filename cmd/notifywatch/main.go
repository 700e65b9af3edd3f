// Command notifywatch signs in, opens the live notification stream and prints
// every broadcast it receives. It reconnects with a fresh ticket when the
// stream drops.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8375", "API base URL")
	username := flag.String("username", "", "Username to sign in with")
	password := flag.String("password", "password123", "Password to sign in with")
	token := flag.String("token", os.Getenv("INKWELL_TOKEN"), "Bearer token (skips sign-in)")
	retry := flag.Duration("retry", 3*time.Second, "Delay before reconnecting")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newClient(*baseURL)
	if *token != "" {
		c.token = *token
	} else {
		if *username == "" {
			log.Fatal("either -token or -username is required")
		}
		if err := c.login(ctx, *username, *password); err != nil {
			log.Fatalf("❌ Login failed: %v", err)
		}
		log.Printf("✅ Signed in as %s", *username)
	}

	for {
		err := c.watch(ctx, func(ev event) {
			if ev.Payload == nil {
				log.Printf("📨 %s", ev.Type)
				return
			}
			log.Printf("📨 %s #%d: %s - %s", ev.Type, ev.Payload.ID, ev.Payload.Title, ev.Payload.Message)
		})
		if ctx.Err() != nil {
			log.Println("🛑 Stopped")
			return
		}
		log.Printf("⚠️  Stream closed: %v (retrying in %s)", err, *retry)
		select {
		case <-ctx.Done():
			return
		case <-time.After(*retry):
		}
	}
}
