package seed

import (
	"fmt"
	"log"

	"sportpulse/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers           int
	NumPosts           int
	MaxCommentsPerPost int
	ShouldClean        bool
	SkipBcrypt         bool
	MaxDays            int
	// Seed makes the generated data reproducible when non-zero.
	Seed int64
}

// Summary reports what a Seed run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
}

// demoAccounts always exist after seeding so the apps have a known login.
var demoAccounts = []struct {
	username string
	role     models.Role
	complete bool
}{
	{"demo", "", false},
	{"coach_kim", models.RoleCoach, true},
	{"athlete_max", models.RoleAthlete, true},
}

// Seed populates the database with demo data
func Seed(db *gorm.DB, opts Options) (Summary, error) {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)
	var summary Summary

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return summary, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f := NewFactory(db, FactoryOptions{
		SkipBcrypt: opts.SkipBcrypt,
		MaxDays:    opts.MaxDays,
		Seed:       opts.Seed,
	})

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return summary, fmt.Errorf("failed to create users: %w", err)
	}
	summary.Users = len(users)
	log.Printf("%d users created", len(users))
	if len(users) == 0 {
		return summary, nil
	}

	posts, err := createPosts(f, users, opts.NumPosts)
	if err != nil {
		return summary, fmt.Errorf("failed to create posts: %w", err)
	}
	summary.Posts = len(posts)
	log.Printf("%d posts created", len(posts))

	comments, err := createComments(f, users, posts, opts.MaxCommentsPerPost)
	if err != nil {
		return summary, fmt.Errorf("failed to create comments: %w", err)
	}
	summary.Comments = comments
	log.Printf("%d comments created", comments)

	log.Println("Database seeding completed successfully")
	return summary, nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	return db.Transaction(func(tx *gorm.DB) error {
		session := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped()
		for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
			if err := session.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	for i := 0; i < count && i < len(demoAccounts); i++ {
		demo := demoAccounts[i]
		user, err := f.CreateUser(func(u *models.User) {
			u.Username = demo.username
			u.Email = demo.username + "@example.com"
			u.Role = demo.role
			if !demo.complete {
				u.PersonalInfo = models.PersonalInfo{}
				u.ProfileCompletedAt = nil
			} else if u.ProfileCompletedAt == nil {
				f.completeProfile(u, u.Username)
			}
		})
		if err != nil {
			log.Printf("Skipping demo user %s: %v", demo.username, err)
			continue
		}
		users = append(users, user)
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createPosts(f *Factory, users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[f.faker.Number(0, len(users)-1)]
		posts = append(posts, f.BuildPost(author))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func createComments(f *Factory, users []*models.User, posts []*models.Post, maxPerPost int) (int, error) {
	if maxPerPost <= 0 {
		return 0, nil
	}
	total := 0
	for _, post := range posts {
		n := f.faker.Number(0, maxPerPost)
		for i := 0; i < n; i++ {
			author := users[f.faker.Number(0, len(users)-1)]
			if _, err := f.CreateComment(author, post); err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
