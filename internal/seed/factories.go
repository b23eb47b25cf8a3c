// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"strings"
	"time"

	"sportpulse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Categories used for seeded posts.
var Categories = []string{
	"running", "cycling", "swimming", "strength", "yoga",
	"football", "basketball", "nutrition", models.DefaultCategory,
}

var (
	goals = []string{
		"Run a sub-3 marathon", "Finish a sprint triathlon", "Deadlift twice my bodyweight",
		"Swim 5k without stopping", "Lose 8kg before summer", "Make the regional team",
		"Ride 200km in one day", "Hold a 2 minute plank", "Stay consistent four days a week",
	}
	activityLevels = []models.ActivityLevel{
		models.ActivitySedentary, models.ActivityLight, models.ActivityModerate,
		models.ActivityVery, models.ActivityExtra,
	}
	genders = []models.Gender{models.GenderMale, models.GenderFemale, models.GenderOther}
)

// FactoryOptions tune how entities are generated.
type FactoryOptions struct {
	// DryRun builds entities without touching the database.
	DryRun bool
	// SkipBcrypt stores a cheap hash; for tests only.
	SkipBcrypt bool
	// MaxDays spreads created_at over the last N days.
	MaxDays int
	// Seed makes generated content reproducible when non-zero.
	Seed int64
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by Seed and tests.
type Factory struct {
	db       *gorm.DB
	opts     FactoryOptions
	faker    *gofakeit.Faker
	password string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts FactoryOptions) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{db: db, opts: opts, faker: gofakeit.New(seed)}
}

func (f *Factory) passwordHash() string {
	if f.password != "" {
		return f.password
	}
	cost := bcrypt.DefaultCost
	if f.opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		log.Printf("hash seed password: %v", err)
		return ""
	}
	f.password = string(hashed)
	return f.password
}

func (f *Factory) pastTime() time.Time {
	now := time.Now()
	return f.faker.DateRange(now.Add(-time.Duration(f.opts.MaxDays)*24*time.Hour), now)
}

// BuildUser returns an unsaved user. Roughly a third stop at each onboarding step.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	first, last := f.faker.FirstName(), f.faker.LastName()
	username := strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, f.faker.Number(10, 999)))
	if len(username) > 30 {
		username = username[:30]
	}

	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  f.passwordHash(),
		Telephone: f.faker.Phone(),
		CreatedAt: f.pastTime(),
	}

	switch f.faker.Number(0, 2) {
	case 0:
		// still picking a role
	case 1:
		user.Role = f.role()
	default:
		user.Role = f.role()
		f.completeProfile(user, first+" "+last)
	}

	for _, override := range overrides {
		override(user)
	}
	user.SyncStep()
	return user
}

func (f *Factory) role() models.Role {
	return models.Roles[f.faker.Number(0, len(models.Roles)-1)]
}

func (f *Factory) completeProfile(user *models.User, fullName string) {
	birthdate := f.faker.DateRange(
		time.Now().AddDate(-60, 0, 0),
		time.Now().AddDate(-16, 0, 0),
	)
	completed := user.CreatedAt.Add(time.Duration(f.faker.Number(1, 72)) * time.Hour)

	n := f.faker.Number(0, 2)
	achievements := make([]string, 0, n)
	for i := 0; i < n; i++ {
		achievements = append(achievements, f.faker.Sentence(4))
	}

	user.PersonalInfo = models.PersonalInfo{
		FullName:         fullName,
		Birthdate:        &birthdate,
		Gender:           genders[f.faker.Number(0, len(genders)-1)],
		City:             f.faker.City(),
		Address:          f.faker.Street(),
		Height:           float64(f.faker.Number(150, 205)),
		Weight:           float64(f.faker.Number(48, 120)),
		Age:              int(time.Since(birthdate).Hours() / 24 / 365),
		Experience:       f.faker.RandomString([]string{"under a year", "1-3 years", "3-5 years", "over 5 years"}),
		FitnessGoals:     goals[f.faker.Number(0, len(goals)-1)],
		ActivityLevel:    activityLevels[f.faker.Number(0, len(activityLevels)-1)],
		Achievements:     achievements,
		MarketingConsent: f.faker.Bool(),
		ConsentedAt:      &completed,
	}
	user.ProfileCompletedAt = &completed
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)

	if f.opts.DryRun {
		user.ID = uuid.NewString()
		log.Printf("[dry-run] CreateUser: %s (%s)", user.Username, user.RegistrationStep)
		return user, nil
	}

	if err := f.db.Omit("Posts").Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost returns an unsaved post authored by user.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	category := Categories[f.faker.Number(0, len(Categories)-1)]
	post := &models.Post{
		Title:     strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 7)), "."),
		Text:      f.faker.Paragraph(1, f.faker.Number(2, 5), 12, " "),
		Category:  category,
		AuthorID:  author.ID,
		Username:  author.Username,
		Views:     f.faker.Number(0, 500),
		CreatedAt: f.pastTime(),
	}
	if f.faker.Number(1, 10) <= 4 {
		post.ImgURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID())
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			p.ID = uuid.NewString()
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Omit("Comments").CreateInBatches(posts, 100).Error
}

// CreateComment builds and persists a comment by author on post.
func (f *Factory) CreateComment(author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	created := post.CreatedAt.Add(time.Duration(f.faker.Number(1, 48*60)) * time.Minute)
	if created.After(time.Now()) {
		created = time.Now()
	}
	comment := &models.Comment{
		Comment:   f.faker.Sentence(f.faker.Number(4, 14)),
		Author:    author.Username,
		AuthorID:  author.ID,
		PostID:    post.ID,
		CreatedAt: created,
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		comment.ID = uuid.NewString()
		return comment, nil
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
