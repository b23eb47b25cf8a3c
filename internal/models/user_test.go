package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserStep(t *testing.T) {
	t.Parallel()
	now := time.Now()

	tests := []struct {
		name string
		user User
		want RegistrationStep
	}{
		{"no role", User{}, StepRole},
		{"role without profile", User{Role: RoleCoach}, StepPersonal},
		{"profile completed", User{Role: RoleAthlete, ProfileCompletedAt: &now}, StepComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			u.SyncStep()
			assert.Equal(t, tt.want, u.RegistrationStep)
		})
	}
}

func TestRoleValid(t *testing.T) {
	t.Parallel()
	for _, r := range Roles {
		assert.True(t, r.Valid(), string(r))
	}
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}

func TestStatusFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 404, StatusFor(NewNotFoundError("Post", "x")))
	assert.Equal(t, 400, StatusFor(NewValidationError("bad")))
	assert.Equal(t, 409, StatusFor(NewConflictError("taken")))
	assert.Equal(t, 401, StatusFor(NewUnauthorizedError("nope")))
	assert.Equal(t, 403, StatusFor(NewForbiddenError("nope")))
	assert.Equal(t, 500, StatusFor(assert.AnError))
}
