// Command migrate runs schema operations for the backend.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"sportpulse/internal/config"
	"sportpulse/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status|constraints|reset>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Connect only auto-migrates outside production; "up" is the production path.
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("migrations applied")
	case "status":
		statuses, err := database.SchemaStatus(db)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		for _, s := range statuses {
			log.Printf("table=%s exists=%t", s.Table, s.Exists)
		}
		if pending := database.Pending(statuses); len(pending) > 0 {
			log.Printf("pending: %s", strings.Join(pending, ", "))
		}
	case "constraints":
		constraints, err := database.Constraints(db)
		if err != nil {
			return err
		}
		for _, c := range constraints {
			fmt.Printf(" - %s on %s: %s\n", c.Name, c.Table, c.Definition)
		}
	case "reset":
		if cfg.IsProduction() {
			return fmt.Errorf("refusing to drop tables in production")
		}
		if err := database.Reset(db); err != nil {
			return err
		}
		log.Println("tables dropped; run \"up\" to recreate them")
	default:
		return usage()
	}
	return nil
}
