package service

import (
	"context"
	"testing"
	"time"

	"sportpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPersonalInfo() PersonalInfoInput {
	return PersonalInfoInput{
		FullName:      "Bob One",
		Birthdate:     "1990-05-17",
		Gender:        "male",
		City:          "Kyiv",
		Height:        182,
		Weight:        78.5,
		FitnessGoals:  "Run a marathon",
		ActivityLevel: "moderate",
		Achievements:  []string{" half marathon ", ""},
		Consents:      Consents{Participation: true, DataProcessing: true},
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role    string
		want    models.Role
		wantErr bool
	}{
		{role: "coach", want: models.RoleCoach},
		{role: " Athlete ", want: models.RoleAthlete},
		{role: "beginner", want: models.RoleBeginner},
		{role: "admin", wantErr: true},
		{role: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			t.Parallel()
			repo := noopUserRepo()
			called := false
			repo.updateRoleFn = func(_ context.Context, _ string, r models.Role) error {
				called = true
				assert.Equal(t, tt.want, r)
				return nil
			}
			svc := NewUserService(repo)

			got, err := svc.UpdateRole(context.Background(), "u-1", tt.role)
			if tt.wantErr {
				assertAppError(t, err, models.CodeValidation)
				assert.False(t, called, "stored role must not change")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, called)
		})
	}
}

func TestUserService_UpdatePersonalInfo(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := noopUserRepo()
	repo.updateFn = func(_ context.Context, id string, mutate func(*models.User) error) (*models.User, error) {
		u := &models.User{ID: id, Role: models.RoleCoach}
		if err := mutate(u); err != nil {
			return nil, err
		}
		u.SyncStep()
		return u, nil
	}
	svc := NewUserService(repo)
	svc.now = func() time.Time { return now }

	user, err := svc.UpdatePersonalInfo(context.Background(), "u-1", validPersonalInfo())
	require.NoError(t, err)
	assert.Equal(t, models.StepComplete, user.RegistrationStep)
	assert.Equal(t, "Bob One", user.PersonalInfo.FullName)
	assert.Equal(t, models.ActivityModerate, user.PersonalInfo.ActivityLevel)
	assert.Equal(t, []string{"half marathon"}, user.PersonalInfo.Achievements)
	require.NotNil(t, user.PersonalInfo.Birthdate)
	assert.Equal(t, 1990, user.PersonalInfo.Birthdate.Year())
	require.NotNil(t, user.PersonalInfo.ConsentedAt)
	assert.True(t, now.Equal(*user.PersonalInfo.ConsentedAt))
}

func TestUserService_UpdatePersonalInfo_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*PersonalInfoInput)
		field  string
	}{
		{name: "missing consent", mutate: func(in *PersonalInfoInput) { in.Consents.DataProcessing = false }, field: "consents.dataProcessing"},
		{name: "missing participation", mutate: func(in *PersonalInfoInput) { in.Consents.Participation = false }, field: "consents.participation"},
		{name: "blank name", mutate: func(in *PersonalInfoInput) { in.FullName = "  " }, field: "fullName"},
		{name: "future birthdate", mutate: func(in *PersonalInfoInput) { in.Birthdate = "2999-01-01" }, field: "birthdate"},
		{name: "bad gender", mutate: func(in *PersonalInfoInput) { in.Gender = "robot" }, field: "gender"},
		{name: "zero height", mutate: func(in *PersonalInfoInput) { in.Height = 0 }, field: "height"},
		{name: "heavy", mutate: func(in *PersonalInfoInput) { in.Weight = 900 }, field: "weight"},
		{name: "activity", mutate: func(in *PersonalInfoInput) { in.ActivityLevel = "couch" }, field: "activityLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := noopUserRepo()
			repo.updateFn = func(context.Context, string, func(*models.User) error) (*models.User, error) {
				t.Fatal("repository must not be called for invalid input")
				return nil, nil
			}
			svc := NewUserService(repo)

			in := validPersonalInfo()
			tt.mutate(&in)
			_, err := svc.UpdatePersonalInfo(context.Background(), "u-1", in)
			assertAppError(t, err, models.CodeValidation)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestUserService_UpdatePersonalInfo_RequiresRole(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())
	_, err := svc.UpdatePersonalInfo(context.Background(), "u-1", validPersonalInfo())
	assertAppError(t, err, models.CodeValidation)
}
