// Package session owns the client's authenticated session: the credential
// token and user record held in memory, their durable copies, and the
// login/logout/register operations that move between the two.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/careline/careline/internal/platform/api"
)

// User is the authenticated-user record stored alongside the token.
type User struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasAnyRole reports whether the user holds at least one of the given roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Result is the outcome of a login or register attempt. Backend failures are
// reported here, never as Go errors: the Message is already suitable for
// inline display.
type Result struct {
	OK      bool
	Message string
}

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type loginResponse struct {
	AccessToken string   `json:"accessToken"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
}

// Store holds the current session. All accessors are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	token   string
	user    *User
	ready   bool
	storage Storage

	client               *api.Client
	logger               zerolog.Logger
	logoutOnUnauthorized bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithLogoutOnUnauthorized makes NotifyUnauthorized clear the session instead
// of only logging the signal.
func WithLogoutOnUnauthorized(v bool) StoreOption {
	return func(s *Store) { s.logoutOnUnauthorized = v }
}

// NewStore creates a Store over the given durable storage and gateway client.
// The session starts empty and not ready; call Restore before consulting it.
func NewStore(storage Storage, client *api.Client, opts ...StoreOption) *Store {
	s := &Store{
		storage: storage,
		client:  client,
		logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Restore loads the session from durable storage. Both entries must be
// present and the user record must parse; anything else clears both entries
// and leaves the session empty. Ready is set regardless of outcome.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() { s.ready = true }()

	token, tokenErr := s.storage.ReadToken()
	userData, userErr := s.storage.ReadUser()

	if errors.Is(tokenErr, ErrNotFound) && errors.Is(userErr, ErrNotFound) {
		return
	}
	if tokenErr != nil || userErr != nil || token == "" {
		s.clearLocked()
		return
	}

	var user User
	if err := json.Unmarshal(userData, &user); err != nil {
		s.logger.Warn().Err(err).Msg("stored user record is corrupted, clearing session")
		s.clearLocked()
		return
	}

	s.token = token
	s.user = &user
}

// Login authenticates against the backend and, on success, stores the token
// and user record in memory and durable storage together.
func (s *Store) Login(ctx context.Context, identifier, secret string) Result {
	var resp loginResponse
	err := s.client.Post(ctx, "/auth/login", loginRequest{
		UsernameOrEmail: identifier,
		Password:        secret,
	}, &resp)
	if err != nil {
		s.logger.Debug().Err(err).Msg("login failed")
		return Result{OK: false, Message: failureMessage(err, "Login failed. Please check your credentials.")}
	}

	user := &User{Username: resp.Username, Roles: resp.Roles}
	userData, err := json.Marshal(user)
	if err != nil {
		return Result{OK: false, Message: "Login failed. Please try again."}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.WriteToken(resp.AccessToken); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist token")
		return Result{OK: false, Message: "Login failed. Please try again."}
	}
	if err := s.storage.WriteUser(userData); err != nil {
		// Never leave a token without its user record.
		s.storage.Clear()
		s.logger.Error().Err(err).Msg("failed to persist user record")
		return Result{OK: false, Message: "Login failed. Please try again."}
	}
	s.token = resp.AccessToken
	s.user = user
	return Result{OK: true}
}

// Register creates an account. It does not mutate the session: registration
// does not imply login.
func (s *Store) Register(ctx context.Context, req RegisterRequest) Result {
	var message string
	if err := s.client.Post(ctx, "/auth/register", req, &message); err != nil {
		return Result{OK: false, Message: failureMessage(err, "Registration failed. Please try again.")}
	}
	if message == "" {
		message = "Registration successful! You can now log in."
	}
	return Result{OK: true, Message: message}
}

// Logout clears the in-memory session and both durable entries.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// NotifyUnauthorized is the 401 signal sink wired into the request gateway.
func (s *Store) NotifyUnauthorized() {
	s.logger.Warn().Msg("backend rejected the session token")
	if s.logoutOnUnauthorized {
		s.Logout()
	}
}

// Token returns the current credential token, or "" without a session.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user record, or nil without a session.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether both token and user are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// Ready reports whether the initial restore attempt has completed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Store) clearLocked() {
	s.token = ""
	s.user = nil
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear stored session")
	}
}

// failureMessage prefers the backend-extracted message and falls back to a
// generic one for transport-level failures, which are not user-presentable.
func failureMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
