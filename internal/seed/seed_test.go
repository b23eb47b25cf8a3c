package seed

import (
	"testing"
	"time"

	"sportpulse/internal/models"
	"sportpulse/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeed_PopulatesDatabase(t *testing.T) {
	t.Parallel()
	db := testutil.NewSQLiteDB(t)

	summary, err := Seed(db, Options{
		NumUsers:           6,
		NumPosts:           15,
		MaxCommentsPerPost: 3,
		SkipBcrypt:         true,
		Seed:               42,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Users)
	assert.Equal(t, 15, summary.Posts)
	assert.LessOrEqual(t, summary.Comments, 45)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 6)
	ids := map[string]bool{}
	for _, u := range users {
		ids[u.ID] = true
	}

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 15)
	for _, p := range posts {
		assert.True(t, ids[p.AuthorID], "post %s has unknown author", p.ID)
		assert.Contains(t, Categories, p.Category)
		assert.NotEmpty(t, p.Title)
	}

	var comments int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(summary.Comments), comments)
}

func TestSeed_DemoAccounts(t *testing.T) {
	t.Parallel()
	db := testutil.NewSQLiteDB(t)

	_, err := Seed(db, Options{NumUsers: 3, SkipBcrypt: true, Seed: 7})
	require.NoError(t, err)

	tests := []struct {
		username string
		role     models.Role
		step     models.RegistrationStep
	}{
		{"demo", "", models.StepRole},
		{"coach_kim", models.RoleCoach, models.StepComplete},
		{"athlete_max", models.RoleAthlete, models.StepComplete},
	}
	for _, tt := range tests {
		var u models.User
		require.NoError(t, db.Where("username = ?", tt.username).First(&u).Error)
		assert.Equal(t, tt.role, u.Role, tt.username)
		assert.Equal(t, tt.step, u.RegistrationStep, tt.username)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(DefaultPassword)))
	}
}

func TestSeed_CleanReplacesExistingData(t *testing.T) {
	t.Parallel()
	db := testutil.NewSQLiteDB(t)
	opts := Options{NumUsers: 4, NumPosts: 5, MaxCommentsPerPost: 1, SkipBcrypt: true, ShouldClean: true, Seed: 3}

	_, err := Seed(db, opts)
	require.NoError(t, err)
	opts.Seed = 4
	_, err = Seed(db, opts)
	require.NoError(t, err)

	var users, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(4), users)
	assert.Equal(t, int64(5), posts)
}

func TestFactory_DryRun(t *testing.T) {
	t.Parallel()
	f := NewFactory(nil, FactoryOptions{DryRun: true, SkipBcrypt: true, MaxDays: 30, Seed: 1})

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.LessOrEqual(t, len(user.Username), 30)
	assert.Equal(t, user.Step(), user.RegistrationStep)

	posts := []*models.Post{f.BuildPost(user), f.BuildPost(user)}
	require.NoError(t, f.CreatePostsBatch(posts))
	for _, p := range posts {
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, user.ID, p.AuthorID)
		assert.WithinDuration(t, time.Now(), p.CreatedAt, 31*24*time.Hour)
	}

	comment, err := f.CreateComment(user, posts[0])
	require.NoError(t, err)
	assert.Equal(t, user.Username, comment.Author)
	assert.False(t, comment.CreatedAt.Before(posts[0].CreatedAt))
}

func TestFactory_ReproducibleWithSeed(t *testing.T) {
	t.Parallel()
	a := NewFactory(nil, FactoryOptions{DryRun: true, SkipBcrypt: true, Seed: 99})
	b := NewFactory(nil, FactoryOptions{DryRun: true, SkipBcrypt: true, Seed: 99})

	ua, ub := a.BuildUser(), b.BuildUser()
	assert.Equal(t, ua.Username, ub.Username)
	assert.Equal(t, ua.Role, ub.Role)
}
