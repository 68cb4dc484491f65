package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agrimarket/agrimarket/internal/storage"
)

// Mode describes how the current session was established
type Mode string

const (
	ModeNone   Mode = ""
	ModeRemote Mode = "remote"
	ModeDemo   Mode = "demo"
)

// DemoRegistrationMessage acknowledges a registration saved for offline use
const DemoRegistrationMessage = "Registration successful! You can now sign in."

// RegisterResult is returned by a successful Register
type RegisterResult struct {
	Mode    Mode
	Message string
	// Raw is the remote response body, verbatim. Empty in demo mode.
	Raw json.RawMessage
}

// Store is the single source of truth for who is logged in. Every mutation
// is persisted before it returns, so readers never observe a session that
// storage does not hold.
type Store struct {
	repo   storage.Repository
	remote Authenticator
	log    zerolog.Logger

	mu          sync.RWMutex
	user        *User
	token       string
	initialized bool
}

// NewStore creates a store. remote may be nil, in which case every login
// takes the demo path.
func NewStore(repo storage.Repository, remote Authenticator, log zerolog.Logger) *Store {
	return &Store{
		repo:   repo,
		remote: remote,
		log:    log.With().Str("component", "session").Logger(),
	}
}

// Initialize loads the persisted session. Missing or unreadable data leaves
// the session empty.
func (s *Store) Initialize(ctx context.Context) {
	user := s.loadUser(ctx)
	token := s.loadToken(ctx)

	s.mu.Lock()
	s.user = user
	s.token = token
	s.initialized = true
	s.mu.Unlock()

	s.log.Debug().
		Bool("has_user", user != nil).
		Bool("has_token", token != "").
		Msg("Session initialized")
}

// Initialized reports whether Initialize has completed
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *Store) loadUser(ctx context.Context) *User {
	raw, err := s.repo.Get(ctx, storage.KeyUser)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Msg("Failed to read persisted user, starting logged out")
		}
		return nil
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.Warn().Err(err).Msg("Persisted user is corrupt, starting logged out")
		return nil
	}
	return &user
}

func (s *Store) loadToken(ctx context.Context) string {
	token, err := s.repo.Get(ctx, storage.KeyToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Msg("Failed to read persisted token")
		}
		return ""
	}
	return token
}

// Login signs in against the remote service and falls back to a demo
// identity when the service fails for any reason. Only missing email or
// password is reported as an error; storage failures are returned as-is.
func (s *Store) Login(ctx context.Context, email, password string, hint UserType) (*User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	user, token, err := s.tryRemote(ctx, email, password)
	if err == nil {
		if err := s.persist(ctx, user, token); err != nil {
			return nil, err
		}
		s.log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("Logged in via remote service")
		return user.clone(), nil
	}

	s.log.Info().Err(err).Str("email", email).Msg("Remote login failed, using demo mode")

	user = s.fallbackLocal(ctx, email, hint)
	if err := s.persist(ctx, user, ""); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Str("user_type", string(user.UserType)).
		Msg("Logged in with demo identity")
	return user.clone(), nil
}

// persist replaces the session. An empty token removes any stale credential
// left by an earlier remote login. The token is written before the user so a
// failed write never pairs a new user with an old token.
func (s *Store) persist(ctx context.Context, user *User, token string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if token != "" {
		err = s.repo.Set(ctx, storage.KeyToken, token)
	} else {
		err = s.repo.Clear(ctx, storage.KeyToken)
	}
	if err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}

	if err := s.repo.Set(ctx, storage.KeyUser, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.user = user.clone()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Register signs up against the remote service. The session itself is never
// changed; the user still has to log in. When the service fails, a complete
// request is remembered locally so a later demo login returns the same
// identity.
func (s *Store) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	remoteErr := ErrRemoteUnavailable
	if s.remote != nil {
		raw, err := s.remote.SignUp(ctx, req)
		if err == nil {
			s.log.Info().Str("email", req.Email).Msg("Registered via remote service")
			return &RegisterResult{Mode: ModeRemote, Message: messageOf(raw), Raw: raw}, nil
		}
		remoteErr = err
	}

	s.log.Info().Err(remoteErr).Str("email", req.Email).Msg("Remote registration failed, using demo mode")

	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	userType := req.UserType
	if userType == "" {
		userType = UserTypeFarmer
	}

	identity := User{
		ID:       demoID(userType),
		Name:     req.Name,
		Email:    req.Email,
		UserType: userType,
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal registered user: %w", err)
	}
	if err := s.repo.Set(ctx, storage.KeyRegisteredUser, string(data)); err != nil {
		return nil, fmt.Errorf("failed to save registered user: %w", err)
	}

	return &RegisterResult{Mode: ModeDemo, Message: DemoRegistrationMessage}, nil
}

// messageOf extracts the "message" field that sign-up responses usually carry
func messageOf(raw json.RawMessage) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}

// Logout clears the user and token. Logging out twice is harmless.
func (s *Store) Logout(ctx context.Context) {
	s.clear(ctx)
	s.log.Info().Msg("Logged out")
}

// Expire ends a session whose credential the remote service rejected
func (s *Store) Expire(ctx context.Context) {
	s.clear(ctx)
	s.log.Warn().Msg("Session expired, credentials cleared")
}

func (s *Store) clear(ctx context.Context) {
	if err := s.repo.Clear(ctx, storage.KeyToken, storage.KeyUser); err != nil {
		s.log.Error().Err(err).Msg("Failed to clear persisted session")
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

// CurrentUser returns a copy of the persisted user, or nil
func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.clone()
}

// Token returns the persisted bearer token, or ""
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated requires both a user and a token. A demo session has a
// user but no token and therefore reports false.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// Mode reports how the current session was established
func (s *Store) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.user == nil:
		return ModeNone
	case s.token == "":
		return ModeDemo
	default:
		return ModeRemote
	}
}

// RefreshProfile replaces the persisted user with the profile the remote
// service reports for the current token. Demo sessions are left untouched.
func (s *Store) RefreshProfile(ctx context.Context, source ProfileSource) (*User, error) {
	token := s.Token()
	if token == "" || s.CurrentUser() == nil {
		return s.CurrentUser(), nil
	}

	profile, err := source.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	user := &User{
		ID:       profile.ID,
		Name:     profile.Name,
		Email:    profile.Email,
		UserType: profile.UserType,
	}

	// The session may have been expired by the profile request itself
	if s.Token() != token {
		return nil, fmt.Errorf("session changed while fetching profile")
	}
	if err := s.persist(ctx, user, token); err != nil {
		return nil, err
	}
	return user.clone(), nil
}
