// Package wizard sequences profile completion in three steps: identity facts,
// body and goals, consent. The step index round-trips through the "pstep"
// query parameter and the form is snapshotted to storage on every change.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"sportpulse/pkg/client/api"
	"sportpulse/pkg/client/auth"
	"sportpulse/pkg/client/storage"
)

// Step indexes.
const (
	StepIdentity = iota
	StepBody
	StepConsent

	Steps = 3
)

// ActivityLevels accepted on the body step.
var ActivityLevels = []string{"sedentary", "light", "moderate", "very", "extra"}

// ErrNotReady means the caller is not signed in, is not loaded yet or has not
// chosen a role.
var ErrNotReady = errors.New("wizard: sign in and choose a role first")

// Form is the profile being collected.
type Form struct {
	FullName      string       `json:"fullName"`
	Birthdate     string       `json:"birthdate"`
	Gender        string       `json:"gender"`
	City          string       `json:"city"`
	Address       string       `json:"address,omitempty"`
	Height        float64      `json:"height,omitempty"`
	Weight        float64      `json:"weight,omitempty"`
	Age           int          `json:"age,omitempty"`
	Experience    string       `json:"experience,omitempty"`
	FitnessGoals  string       `json:"fitnessGoals"`
	ActivityLevel string       `json:"activityLevel"`
	Achievements  []string     `json:"achievements,omitempty"`
	Consents      api.Consents `json:"consents"`
}

// Input converts the form to the request body.
func (f Form) Input() api.PersonalInfoInput {
	return api.PersonalInfoInput{
		FullName:      strings.TrimSpace(f.FullName),
		Birthdate:     strings.TrimSpace(f.Birthdate),
		Gender:        f.Gender,
		City:          strings.TrimSpace(f.City),
		Address:       strings.TrimSpace(f.Address),
		Height:        f.Height,
		Weight:        f.Weight,
		Age:           f.Age,
		Experience:    f.Experience,
		FitnessGoals:  strings.TrimSpace(f.FitnessGoals),
		ActivityLevel: f.ActivityLevel,
		Achievements:  f.Achievements,
		Consents:      f.Consents,
	}
}

// Snapshot is what survives a restart. It belongs to one user and is ignored
// for anyone else.
type Snapshot struct {
	UserID       string `json:"userId"`
	Role         string `json:"role"`
	PersonalInfo Form   `json:"personalInfo"`
}

// StepError lists the fields that block a step, keyed by JSON field name.
type StepError struct {
	Step   int
	Fields map[string]string
}

func (e *StepError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return fmt.Sprintf("step %d: %s", e.Step+1, strings.Join(parts, "; "))
}

// ValidateStep checks the fields owned by step.
func ValidateStep(step int, f Form) error {
	fields := map[string]string{}
	required := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			fields[name] = "required"
		}
	}

	switch step {
	case StepIdentity:
		required("fullName", f.FullName)
		required("birthdate", f.Birthdate)
		required("gender", f.Gender)
		required("city", f.City)
	case StepBody:
		if f.Height <= 0 {
			fields["height"] = "must be a positive number"
		}
		if f.Weight <= 0 {
			fields["weight"] = "must be a positive number"
		}
		required("fitnessGoals", f.FitnessGoals)
		if !validActivity(f.ActivityLevel) {
			fields["activityLevel"] = "choose one of " + strings.Join(ActivityLevels, ", ")
		}
	case StepConsent:
		if !f.Consents.Participation {
			fields["consents.participation"] = "required"
		}
		if !f.Consents.DataProcessing {
			fields["consents.dataProcessing"] = "required"
		}
	default:
		return fmt.Errorf("wizard: unknown step %d", step)
	}

	if len(fields) > 0 {
		return &StepError{Step: step, Fields: fields}
	}
	return nil
}

func validActivity(level string) bool {
	for _, l := range ActivityLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Clamp keeps a step index inside [0, Steps-1].
func Clamp(step int) int {
	switch {
	case step < 0:
		return 0
	case step >= Steps:
		return Steps - 1
	default:
		return step
	}
}

// ParseStep reads a "pstep" value. Anything non-numeric is step 0.
func ParseStep(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return Clamp(n)
}

// Profile is the part of the auth store the wizard drives.
type Profile interface {
	State() auth.State
	UpdatePersonalInfo(ctx context.Context, in api.PersonalInfoInput) error
}

// Wizard is the profile-completion flow of one signed-in user.
type Wizard struct {
	mu        sync.Mutex
	profile   Profile
	store     storage.Store
	userID    string
	role      string
	step      int
	form      Form
	submitted bool
	err       string
}

// New resumes the wizard at query's pstep with the caller's saved snapshot.
// A snapshot left by another user is replaced.
func New(profile Profile, store storage.Store, query url.Values) (*Wizard, error) {
	st := profile.State()
	if !st.IsAuthenticated || st.User == nil || st.Role == "" {
		return nil, ErrNotReady
	}

	w := &Wizard{
		profile: profile,
		store:   store,
		userID:  st.User.ID,
		role:    st.Role,
		step:    ParseStep(query.Get("pstep")),
	}

	var snap Snapshot
	found, err := storage.LoadJSON(store, storage.WizardKey, &snap)
	if err != nil {
		return nil, err
	}
	if found && snap.UserID == w.userID {
		w.form = snap.PersonalInfo
	} else if st.PersonalInfo != nil {
		w.form = fromProfile(*st.PersonalInfo)
	}
	return w, w.save()
}

// Forget drops the saved snapshot, if any.
func Forget(store storage.Store) error {
	return store.Delete(storage.WizardKey)
}

func fromProfile(p api.PersonalInfo) Form {
	f := Form{
		FullName:      p.FullName,
		Gender:        p.Gender,
		City:          p.City,
		Address:       p.Address,
		Height:        p.Height,
		Weight:        p.Weight,
		Age:           p.Age,
		Experience:    p.Experience,
		FitnessGoals:  p.FitnessGoals,
		ActivityLevel: p.ActivityLevel,
		Achievements:  p.Achievements,
	}
	if p.Birthdate != nil {
		f.Birthdate = p.Birthdate.Format("2006-01-02")
	}
	return f
}

// save writes the snapshot. Called with w.mu held or before w is shared.
func (w *Wizard) save() error {
	return storage.SaveJSON(w.store, storage.WizardKey, Snapshot{UserID: w.userID, Role: w.role, PersonalInfo: w.form})
}

// Step is the current index.
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Form returns a copy of the collected fields.
func (w *Wizard) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	f := w.form
	f.Achievements = append([]string(nil), w.form.Achievements...)
	return f
}

// Submitted reports a successful Submit.
func (w *Wizard) Submitted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitted
}

// LastError is the last validation or submit failure, or "".
func (w *Wizard) LastError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Query mirrors the position as URL parameters.
func (w *Wizard) Query() url.Values {
	w.mu.Lock()
	defer w.mu.Unlock()
	return url.Values{
		"step":  []string{"personal"},
		"pstep": []string{strconv.Itoa(w.step)},
	}
}

// Update edits the form and persists the snapshot.
func (w *Wizard) Update(edit func(*Form)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	edit(&w.form)
	return w.save()
}

// Next validates the current step and advances. On the last step it only validates.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := ValidateStep(w.step, w.form); err != nil {
		w.err = err.Error()
		return err
	}
	w.err = ""
	w.step = Clamp(w.step + 1)
	return nil
}

// Back moves one step back without validating.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = ""
	w.step = Clamp(w.step - 1)
}

// Submit validates every step and sends the profile. The wizard stays on the
// final step when anything fails; success clears the snapshot.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepConsent {
		w.mu.Unlock()
		return fmt.Errorf("wizard: submit from step %d", w.step+1)
	}
	form := w.form
	for step := StepIdentity; step < Steps; step++ {
		if err := ValidateStep(step, form); err != nil {
			w.err = err.Error()
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()

	err := w.profile.UpdatePersonalInfo(ctx, form.Input())

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.err = api.Message(err)
		return err
	}
	w.err = ""
	w.submitted = true
	return Forget(w.store)
}
