// Package session holds the process-wide client state: who is logged in and
// which subscription changes have happened. Both are injected, never looked up.
package session

import (
	"strings"
	"sync"
)

// User is the identified account. ID scopes API requests.
type User struct {
	ID    string
	Email string
}

// UserFromEmail derives the identifier the backend expects from a login email.
func UserFromEmail(email string) User {
	e := strings.TrimSpace(email)
	return User{ID: e, Email: e}
}

// Store holds the current user. The zero value is an empty, usable store.
type Store struct {
	mu   sync.RWMutex
	user User
	set  bool
}

func NewStore() *Store { return &Store{} }

// SetUser overwrites the current user unconditionally.
func (s *Store) SetUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.set = true
}

// Current returns the user and whether one was ever set.
func (s *Store) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.set
}

// UserID is the current identifier, or "" when nobody logged in.
func (s *Store) UserID() string {
	u, _ := s.Current()
	return u.ID
}
