// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the sport role a user picks during onboarding.
type Role string

const (
	RoleAthlete  Role = "athlete"
	RoleCoach    Role = "coach"
	RoleBeginner Role = "beginner"
)

// Roles lists the accepted roles in display order.
var Roles = []Role{RoleAthlete, RoleCoach, RoleBeginner}

// Valid reports whether r is one of the accepted roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAthlete, RoleCoach, RoleBeginner:
		return true
	}
	return false
}

// Gender values accepted on the profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// ActivityLevel is the self-reported weekly activity.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityVery      ActivityLevel = "very"
	ActivityExtra     ActivityLevel = "extra"
)

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityVery, ActivityExtra:
		return true
	}
	return false
}

// RegistrationStep is the coarse onboarding phase of an account.
type RegistrationStep string

const (
	StepRole     RegistrationStep = "role"
	StepPersonal RegistrationStep = "personal"
	StepComplete RegistrationStep = "complete"
)

// PersonalInfo holds the profile collected by the registration wizard.
type PersonalInfo struct {
	FullName         string        `gorm:"size:120" json:"fullName,omitempty"`
	Birthdate        *time.Time    `json:"birthdate,omitempty"`
	Gender           Gender        `gorm:"size:10" json:"gender,omitempty"`
	City             string        `gorm:"size:120" json:"city,omitempty"`
	Address          string        `gorm:"size:255" json:"address,omitempty"`
	Height           float64       `json:"height,omitempty"`
	Weight           float64       `json:"weight,omitempty"`
	Age              int           `json:"age,omitempty"`
	Experience       string        `gorm:"size:255" json:"experience,omitempty"`
	FitnessGoals     string        `gorm:"type:text" json:"fitnessGoals,omitempty"`
	ActivityLevel    ActivityLevel `gorm:"size:20" json:"activityLevel,omitempty"`
	Achievements     []string      `gorm:"serializer:json" json:"achievements,omitempty"`
	MarketingConsent bool          `json:"marketingConsent"`
	ConsentedAt      *time.Time    `json:"consentedAt,omitempty"`
}

// User represents an account in the SportPulse application.
type User struct {
	ID                 string           `gorm:"primaryKey;size:36" json:"_id"`
	Username           string           `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email              string           `gorm:"uniqueIndex;not null" json:"email"`
	Password           string           `gorm:"not null" json:"-"`
	Telephone          string           `gorm:"size:32" json:"telephone,omitempty"`
	Role               Role             `gorm:"size:20" json:"role,omitempty"`
	PersonalInfo       PersonalInfo     `gorm:"embedded" json:"personalInfo"`
	ProfileCompletedAt *time.Time       `json:"-"`
	RegistrationStep   RegistrationStep `gorm:"-" json:"registrationStep"`
	Posts              []Post           `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// AfterFind fills the derived registration step.
func (u *User) AfterFind(_ *gorm.DB) error {
	u.SyncStep()
	return nil
}

// Step derives the onboarding phase: no role, then no completed profile, then done.
func (u *User) Step() RegistrationStep {
	switch {
	case u.Role == "":
		return StepRole
	case u.ProfileCompletedAt == nil:
		return StepPersonal
	default:
		return StepComplete
	}
}

// SyncStep refreshes RegistrationStep from the persisted fields.
func (u *User) SyncStep() {
	u.RegistrationStep = u.Step()
}
