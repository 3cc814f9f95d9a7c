// Package auth defines the authentication collaborators consumed by the HTTP
// client: the token store, the authentication service and the user-facing
// notifier. Default in-memory and JWT-backed implementations are provided;
// applications wire their own implementations for production providers.
package auth

import "sync"

// TokenStore holds the current bearer token. Implementations must be safe
// for concurrent use; the HTTP client reads the token before every
// authenticated request and re-reads it after a refresh.
type TokenStore interface {
	// Token returns the current token and whether one is present.
	Token() (string, bool)
	// SetToken replaces the current token.
	SetToken(token string)
	// Clear removes the current token.
	Clear()
}

// MemoryStore is a mutex-guarded in-memory TokenStore.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token returns the stored token, if any.
func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// SetToken replaces the stored token.
func (s *MemoryStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear removes the stored token.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
