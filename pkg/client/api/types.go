package api

import "time"

// Roles accepted by the onboarding role step.
const (
	RoleAthlete  = "athlete"
	RoleCoach    = "coach"
	RoleBeginner = "beginner"
)

// Roles lists the accepted roles.
var Roles = []string{RoleAthlete, RoleCoach, RoleBeginner}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Registration steps reported by the server.
const (
	StepRole     = "role"
	StepPersonal = "personal"
	StepComplete = "complete"
)

type PersonalInfo struct {
	FullName         string     `json:"fullName,omitempty"`
	Birthdate        *time.Time `json:"birthdate,omitempty"`
	Gender           string     `json:"gender,omitempty"`
	City             string     `json:"city,omitempty"`
	Address          string     `json:"address,omitempty"`
	Height           float64    `json:"height,omitempty"`
	Weight           float64    `json:"weight,omitempty"`
	Age              int        `json:"age,omitempty"`
	Experience       string     `json:"experience,omitempty"`
	FitnessGoals     string     `json:"fitnessGoals,omitempty"`
	ActivityLevel    string     `json:"activityLevel,omitempty"`
	Achievements     []string   `json:"achievements,omitempty"`
	MarketingConsent bool       `json:"marketingConsent"`
	ConsentedAt      *time.Time `json:"consentedAt,omitempty"`
}

type User struct {
	ID               string       `json:"_id"`
	Username         string       `json:"username"`
	Email            string       `json:"email"`
	Telephone        string       `json:"telephone,omitempty"`
	Role             string       `json:"role,omitempty"`
	PersonalInfo     PersonalInfo `json:"personalInfo"`
	RegistrationStep string       `json:"registrationStep"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

type Comment struct {
	ID        string    `json:"_id"`
	Comment   string    `json:"comment"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId,omitempty"`
	PostID    string    `json:"post"`
	CreatedAt time.Time `json:"createdAt"`
}

type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	ImgURL    string    `json:"imgUrl"`
	Category  string    `json:"category"`
	Author    string    `json:"author"`
	Username  string    `json:"username"`
	Views     int       `json:"views"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Consents struct {
	Participation  bool `json:"participation"`
	DataProcessing bool `json:"dataProcessing"`
	Marketing      bool `json:"marketing"`
}

// PersonalInfoInput is the body of PUT /auth/personal-info.
type PersonalInfoInput struct {
	FullName      string   `json:"fullName"`
	Birthdate     string   `json:"birthdate"`
	Gender        string   `json:"gender"`
	City          string   `json:"city"`
	Address       string   `json:"address,omitempty"`
	Height        float64  `json:"height"`
	Weight        float64  `json:"weight"`
	Age           int      `json:"age,omitempty"`
	Experience    string   `json:"experience,omitempty"`
	FitnessGoals  string   `json:"fitnessGoals"`
	ActivityLevel string   `json:"activityLevel"`
	Achievements  []string `json:"achievements,omitempty"`
	Consents      Consents `json:"consents"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}

type MeResponse struct {
	User             User         `json:"user"`
	Token            string       `json:"token"`
	Role             string       `json:"role"`
	PersonalInfo     PersonalInfo `json:"personalInfo"`
	RegistrationStep string       `json:"registrationStep"`
}

type RoleResponse struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type PersonalInfoResponse struct {
	PersonalInfo     PersonalInfo `json:"personalInfo"`
	Message          string       `json:"message"`
	RegistrationStep string       `json:"registrationStep"`
}

type DeleteResponse struct {
	ID      string `json:"_id"`
	Message string `json:"message"`
}

// PostInput is sent as multipart form data. Image is optional; empty fields are left
// unchanged on update.
type PostInput struct {
	Title     string
	Text      string
	Category  string
	Image     []byte
	ImageName string
}

// PageQuery pages GET /posts. Zero values use the server defaults.
type PageQuery struct {
	Limit  int
	Offset int
}
