// Package auth tracks who the caller is and how far into onboarding they are.
// All mutations go through Store operations. Results of requests issued before
// a logout are discarded, as are fetches whose context was cancelled.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"sportpulse/pkg/client/api"
)

// Phase is the coarse onboarding position of the client.
type Phase string

const (
	PhaseAnonymous Phase = "anonymous"
	PhaseRole      Phase = "role"
	PhasePersonal  Phase = "personal"
	PhaseComplete  Phase = "complete"
	// PhaseUnknown means a token was restored but FetchSelf has not run yet.
	PhaseUnknown Phase = "unknown"
)

// ErrDiscarded is returned when a response arrived after a logout and was dropped.
var ErrDiscarded = errors.New("auth: response discarded after logout")

// Gateway is the subset of the API client the store needs.
type Gateway interface {
	Register(ctx context.Context, in api.RegisterInput) (*api.AuthResponse, error)
	Login(ctx context.Context, identifier, password string) (*api.AuthResponse, error)
	Me(ctx context.Context) (*api.MeResponse, error)
	UpdateRole(ctx context.Context, role string) (*api.RoleResponse, error)
	UpdatePersonalInfo(ctx context.Context, in api.PersonalInfoInput) (*api.PersonalInfoResponse, error)
}

// TokenPersister keeps the token across runs.
type TokenPersister interface {
	Token() string
	Save(token string) error
	Clear() error
}

// State is a snapshot of the client identity. IsAuthenticated is true iff Token is set.
type State struct {
	User             *api.User
	Token            string
	Role             string
	PersonalInfo     *api.PersonalInfo
	IsAuthenticated  bool
	RegistrationStep string
	IsLoading        bool
	Error            string
}

// Phase derives the onboarding phase from the snapshot.
func (s State) Phase() Phase {
	if !s.IsAuthenticated {
		return PhaseAnonymous
	}
	switch s.RegistrationStep {
	case api.StepRole:
		return PhaseRole
	case api.StepPersonal:
		return PhasePersonal
	case "":
		return PhaseUnknown
	default:
		return PhaseComplete
	}
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	if s.PersonalInfo != nil {
		p := *s.PersonalInfo
		s.PersonalInfo = &p
	}
	return s
}

func signedOut() State {
	return State{RegistrationStep: api.StepComplete}
}

var stepRank = map[string]int{api.StepRole: 0, api.StepPersonal: 1, api.StepComplete: 2}

// Store is the auth state machine.
type Store struct {
	mu      sync.Mutex
	state   State
	epoch   uint64
	pending int

	gw       Gateway
	tokens   TokenPersister
	logger   *slog.Logger
	onLogout []func() error
}

// NewStore seeds the state from the persisted token. The user and the
// registration step are unknown until FetchSelf.
func NewStore(gw Gateway, tokens TokenPersister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{gw: gw, tokens: tokens, logger: logger, state: signedOut()}
	if token := tokens.Token(); token != "" {
		s.state.Token = token
		s.state.IsAuthenticated = true
		s.state.RegistrationStep = ""
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// OnLogout registers fn to run after every logout, forced ones included.
// Use it to drop per-user client data.
func (s *Store) OnLogout(fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

func (s *Store) Phase() Phase {
	return s.State().Phase()
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending++
	s.state.IsLoading = true
	s.state.Error = ""
	return s.epoch
}

// finish applies a fetch result if it is still wanted. Called with the result
// of the request issued after begin returned epoch.
func (s *Store) finish(ctx context.Context, epoch uint64, err error, apply func(*State)) error {
	return s.complete(ctx, epoch, err, apply, false)
}

// settle is finish for writes. A write the server confirmed applies even when
// ctx was cancelled while waiting for it.
func (s *Store) settle(ctx context.Context, epoch uint64, err error, apply func(*State)) error {
	return s.complete(ctx, epoch, err, apply, true)
}

func (s *Store) complete(ctx context.Context, epoch uint64, err error, apply func(*State), write bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return ErrDiscarded
	}
	s.pending--
	s.state.IsLoading = s.pending > 0

	if ctxErr := ctx.Err(); ctxErr != nil && (err != nil || !write) {
		return ctxErr
	}
	if err != nil {
		s.state.Error = api.Message(err)
		return err
	}
	if apply != nil {
		apply(&s.state)
	}
	return nil
}

// reject records a client-side failure without touching the network.
func (s *Store) reject(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = api.Message(err)
	return err
}

// persist stores a fresh token. Called with s.mu held.
func (s *Store) persist(token string) {
	if token == "" {
		return
	}
	if err := s.tokens.Save(token); err != nil {
		s.logger.Warn("failed to persist session token", slog.String("error", err.Error()))
	}
}

// advance moves the registration step forward, never back.
func advance(st *State, step string) {
	if stepRank[step] > stepRank[st.RegistrationStep] || st.RegistrationStep == "" {
		st.RegistrationStep = step
	}
}

func (s *Store) signIn(st *State, token string, user api.User, step string) {
	st.User = &user
	st.Token = token
	st.IsAuthenticated = token != ""
	st.Role = user.Role
	info := user.PersonalInfo
	st.PersonalInfo = &info
	st.RegistrationStep = step
	s.persist(token)
}

func validation(msg string) error {
	return &api.ValidationError{Message: msg}
}

// Register creates an account and signs in at the role step.
func (s *Store) Register(ctx context.Context, username, email, password string) error {
	in := api.RegisterInput{
		Username: strings.TrimSpace(username),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return s.reject(validation("Username, email and password are required"))
	}
	if !strings.Contains(in.Email, "@") {
		return s.reject(validation("Please enter a valid email address"))
	}

	epoch := s.begin()
	resp, err := s.gw.Register(ctx, in)
	return s.settle(ctx, epoch, err, func(st *State) {
		s.signIn(st, resp.Token, resp.User, api.StepRole)
	})
}

// Login signs in by username or email. The step comes from the server.
func (s *Store) Login(ctx context.Context, identifier, password string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return s.reject(validation("Username and password are required"))
	}

	epoch := s.begin()
	resp, err := s.gw.Login(ctx, identifier, password)
	return s.settle(ctx, epoch, err, func(st *State) {
		s.signIn(st, resp.Token, resp.User, stepOf(resp.User.RegistrationStep, resp.User.Role))
	})
}

func stepOf(step, role string) string {
	if step != "" {
		return step
	}
	if role == "" {
		return api.StepRole
	}
	return api.StepComplete
}

// FetchSelf re-derives the state from the server. An auth failure signs the
// client out; other failures keep the identity and record the error.
func (s *Store) FetchSelf(ctx context.Context) error {
	if !s.State().IsAuthenticated {
		return s.reject(&api.AuthError{Message: "Not authenticated"})
	}

	epoch := s.begin()
	resp, err := s.gw.Me(ctx)

	var authErr *api.AuthError
	var notFound *api.NotFoundError
	if errors.As(err, &authErr) || errors.As(err, &notFound) {
		if ferr := s.finish(ctx, epoch, err, nil); !errors.Is(ferr, err) {
			return ferr
		}
		s.forceLogout(api.Message(err))
		return err
	}

	return s.finish(ctx, epoch, err, func(st *State) {
		token := resp.Token
		if token == "" {
			token = st.Token
		}
		user := resp.User
		if resp.Role != "" {
			user.Role = resp.Role
		}
		user.PersonalInfo = resp.PersonalInfo
		s.signIn(st, token, user, stepOf(resp.RegistrationStep, user.Role))
	})
}

// UpdateRole stores the onboarding role and moves the step to personal unless
// the server already reported it complete. Invalid roles fail before any
// request and leave the stored role untouched.
func (s *Store) UpdateRole(ctx context.Context, role string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if !api.ValidRole(role) {
		return s.reject(validation("Role must be one of athlete, coach or beginner"))
	}
	if !s.State().IsAuthenticated {
		return s.reject(&api.AuthError{Message: "Not authenticated"})
	}

	epoch := s.begin()
	resp, err := s.gw.UpdateRole(ctx, role)
	return s.settle(ctx, epoch, err, func(st *State) {
		st.Role = resp.Role
		if st.User != nil {
			st.User.Role = resp.Role
		}
		advance(st, api.StepPersonal)
	})
}

// UpdatePersonalInfo submits the wizard profile and completes onboarding.
func (s *Store) UpdatePersonalInfo(ctx context.Context, in api.PersonalInfoInput) error {
	if !s.State().IsAuthenticated {
		return s.reject(&api.AuthError{Message: "Not authenticated"})
	}

	epoch := s.begin()
	resp, err := s.gw.UpdatePersonalInfo(ctx, in)
	return s.settle(ctx, epoch, err, func(st *State) {
		info := resp.PersonalInfo
		st.PersonalInfo = &info
		if st.User != nil {
			st.User.PersonalInfo = info
		}
		advance(st, stepOf(resp.RegistrationStep, api.StepComplete))
	})
}

// Logout clears identity and token locally. Responses to requests issued
// before the logout are discarded.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.epoch++
	s.pending = 0
	s.state = signedOut()
	hooks := append([]func() error(nil), s.onLogout...)
	s.mu.Unlock()

	var errs []error
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("failed to clear session token", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	for _, fn := range hooks {
		if err := fn(); err != nil {
			s.logger.Warn("logout cleanup failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) forceLogout(reason string) {
	_ = s.Logout()
	s.mu.Lock()
	s.state.Error = reason
	s.mu.Unlock()
}
