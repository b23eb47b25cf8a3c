// Package bootstrap wires the process-wide runtime dependencies shared by the binaries.
package bootstrap

import (
	"fmt"
	"log"

	"sportpulse/internal/cache"
	"sportpulse/internal/config"
	"sportpulse/internal/database"
	"sportpulse/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData populates an empty development database.
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cache.Options{URL: cfg.RedisURL, ClientName: cfg.Service()})
	r := cache.GetClient()

	if opts.SeedDemoData {
		if err := seedIfEmpty(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

func seedIfEmpty(cfg *config.Config, db *gorm.DB) error {
	if cfg.IsProduction() {
		return nil
	}
	var users int64
	if err := db.Table("users").Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}
	summary, err := seed.Seed(db, seed.Options{NumUsers: 20, NumPosts: 60, MaxCommentsPerPost: 4})
	if err != nil {
		return err
	}
	log.Printf("seeded demo data: %d users, %d posts, %d comments", summary.Users, summary.Posts, summary.Comments)
	return nil
}
