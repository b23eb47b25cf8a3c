// Command main runs the database seeder for SportPulse.
package main

import (
	"flag"
	"log"

	"sportpulse/internal/config"
	"sportpulse/internal/database"
	"sportpulse/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	maxComments := flag.Int("comments", 6, "Maximum comments per post")
	maxDays := flag.Int("days", 90, "Spread content over the last N days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	flag.Parse()

	_ = godotenv.Load()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

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

	summary, err := seed.Seed(db, seed.Options{
		NumUsers:           *numUsers,
		NumPosts:           *numPosts,
		MaxCommentsPerPost: *maxComments,
		ShouldClean:        *shouldClean,
		MaxDays:            *maxDays,
		Seed:               *randSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d posts, %d comments", summary.Users, summary.Posts, summary.Comments)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
