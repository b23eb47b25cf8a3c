package service

import (
	"context"
	"strings"
	"time"

	"sportpulse/internal/models"
	"sportpulse/internal/repository"
	"sportpulse/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// Consents are the checkboxes on the last wizard step.
type Consents struct {
	Participation  bool `json:"participation"`
	DataProcessing bool `json:"dataProcessing"`
	Marketing      bool `json:"marketing"`
}

// PersonalInfoInput is the profile payload sent by the registration wizard.
type PersonalInfoInput struct {
	FullName      string   `json:"fullName"`
	Birthdate     string   `json:"birthdate"`
	Gender        string   `json:"gender"`
	City          string   `json:"city"`
	Address       string   `json:"address"`
	Height        float64  `json:"height"`
	Weight        float64  `json:"weight"`
	Age           int      `json:"age"`
	Experience    string   `json:"experience"`
	FitnessGoals  string   `json:"fitnessGoals"`
	ActivityLevel string   `json:"activityLevel"`
	Achievements  []string `json:"achievements"`
	Consents      Consents `json:"consents"`
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo, now: time.Now}
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateRole stores the onboarding role. The stored role is left untouched on invalid input.
func (s *UserService) UpdateRole(ctx context.Context, userID string, role string) (models.Role, error) {
	r := models.Role(strings.ToLower(strings.TrimSpace(role)))
	if !r.Valid() {
		return "", models.NewValidationError("Invalid role. Must be one of: athlete, coach, beginner")
	}
	if err := s.userRepo.UpdateRole(ctx, userID, r); err != nil {
		return "", err
	}
	return r, nil
}

// UpdatePersonalInfo validates the wizard payload and marks the profile complete.
func (s *UserService) UpdatePersonalInfo(ctx context.Context, userID string, in PersonalInfoInput) (*models.User, error) {
	now := s.now().UTC()
	info, err := buildPersonalInfo(in, now)
	if err != nil {
		return nil, err
	}

	return s.userRepo.Update(ctx, userID, func(u *models.User) error {
		if u.Role == "" {
			return models.NewValidationError("Choose a role before completing the profile")
		}
		if u.PersonalInfo.ConsentedAt != nil {
			info.ConsentedAt = u.PersonalInfo.ConsentedAt
		} else {
			info.ConsentedAt = &now
		}
		u.PersonalInfo = info
		u.ProfileCompletedAt = &now
		return nil
	})
}

func buildPersonalInfo(in PersonalInfoInput, now time.Time) (models.PersonalInfo, error) {
	errs := validation.FieldErrors{}
	errs.Required(map[string]string{
		"fullName":     in.FullName,
		"birthdate":    in.Birthdate,
		"gender":       in.Gender,
		"city":         in.City,
		"fitnessGoals": in.FitnessGoals,
	})

	var birthdate *time.Time
	if strings.TrimSpace(in.Birthdate) != "" {
		b, err := validation.ParseBirthdate(in.Birthdate, now)
		if err != nil {
			errs.Add("birthdate", err.Error())
		} else {
			birthdate = &b
		}
	}

	gender := models.Gender(strings.ToLower(strings.TrimSpace(in.Gender)))
	if in.Gender != "" && !gender.Valid() {
		errs.Add("gender", "must be one of male, female, other")
	}
	activity := models.ActivityLevel(strings.ToLower(strings.TrimSpace(in.ActivityLevel)))
	if !activity.Valid() {
		errs.Add("activityLevel", "must be one of sedentary, light, moderate, very, extra")
	}
	errs.Range("height", in.Height, validation.MinHeightCM, validation.MaxHeightCM)
	errs.Range("weight", in.Weight, validation.MinWeightKG, validation.MaxWeightKG)
	if in.Age < 0 || in.Age > 120 {
		errs.Add("age", "must be between 0 and 120")
	}
	if !in.Consents.Participation {
		errs.Add("consents.participation", "is required")
	}
	if !in.Consents.DataProcessing {
		errs.Add("consents.dataProcessing", "is required")
	}

	if err := errs.Err(); err != nil {
		return models.PersonalInfo{}, &models.AppError{
			Code:    models.CodeValidation,
			Message: "Invalid personal information",
			Err:     err,
		}
	}

	achievements := make([]string, 0, len(in.Achievements))
	for _, a := range in.Achievements {
		if a = strings.TrimSpace(a); a != "" {
			achievements = append(achievements, a)
		}
	}

	return models.PersonalInfo{
		FullName:         strings.TrimSpace(in.FullName),
		Birthdate:        birthdate,
		Gender:           gender,
		City:             strings.TrimSpace(in.City),
		Address:          strings.TrimSpace(in.Address),
		Height:           in.Height,
		Weight:           in.Weight,
		Age:              in.Age,
		Experience:       strings.TrimSpace(in.Experience),
		FitnessGoals:     strings.TrimSpace(in.FitnessGoals),
		ActivityLevel:    activity,
		Achievements:     achievements,
		MarketingConsent: in.Consents.Marketing,
	}, nil
}
