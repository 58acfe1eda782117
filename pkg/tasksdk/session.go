package tasksdk

import (
	"sync"
	"time"
)

// Session is an authenticated connection to the API. It is safe for
// concurrent use. Tokens cannot be refreshed; log in again once
// ExpiresAt has passed.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
	user        User
}

func newSession(c *SDKClient, sr SessionResponse) *Session {
	return &Session{
		client:      c,
		accessToken: sr.AccessToken,
		expiresAt:   sr.ExpiresAt,
		user:        sr.User,
	}
}

// NewSessionFromToken wraps an access token obtained elsewhere.
func (c *SDKClient) NewSessionFromToken(accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken}
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// ExpiresAt is zero for sessions created from a bare token.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// User is the account as of the last call that returned it.
func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) setUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}
