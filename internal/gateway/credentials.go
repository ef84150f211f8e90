package gateway

import "sync"

// CredentialStore holds the bearer token for the current login.
// It is the single process-wide slot for the credential: set on login,
// cleared on logout or on the first 401 the client observes.
type CredentialStore struct {
	mu    sync.RWMutex
	token string
}

// NewCredentialStore creates a store seeded with an existing token.
// An empty token means unauthenticated.
func NewCredentialStore(token string) *CredentialStore {
	return &CredentialStore{token: token}
}

// Set replaces the stored token.
func (s *CredentialStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the current token, or "" when unauthenticated.
func (s *CredentialStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Clear drops the stored token. Safe to call more than once.
func (s *CredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
