// Package auth handles account access: login, registration, identity, and
// the stored bearer credential's lifecycle.
package auth

import (
	"context"

	"ragify/internal/gateway"
)

// User is the authenticated account identity.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the user may call admin endpoints.
func (u *User) IsAdmin() bool { return u.Role == "admin" }

// Service issues the auth calls and keeps the credential store in sync with
// their outcomes.
type Service struct {
	gw    *gateway.Client
	creds *gateway.CredentialStore
}

// NewService wraps the gateway and credential store for auth calls.
func NewService(gw *gateway.Client, creds *gateway.CredentialStore) *Service {
	return &Service{gw: gw, creds: creds}
}

// loginPayload is the login response: the identity plus a fresh token.
type loginPayload struct {
	User
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. The token is stored for
// subsequent requests and also returned so the caller can persist it.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	var payload loginPayload
	body := map[string]string{"username": username, "password": password}
	if _, err := s.gw.Post(ctx, "/auth/login", body, &payload); err != nil {
		return nil, "", err
	}
	s.creds.Set(payload.Token)
	user := payload.User
	return &user, payload.Token, nil
}

// Register creates an account. It does not log in; the caller signs in
// separately once the account exists.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	var user User
	body := map[string]string{"username": username, "password": password}
	if _, err := s.gw.Post(ctx, "/auth/register", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser fetches the identity behind the stored token. A stale token
// surfaces as ErrUnauthenticated with the credential already cleared.
func (s *Service) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if _, err := s.gw.Get(ctx, "/auth/user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout forgets the in-memory credential. The persisted copy is the
// caller's to drop.
func (s *Service) Logout() {
	s.creds.Clear()
}
