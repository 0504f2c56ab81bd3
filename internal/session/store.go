// Package session keeps the identity of the logged-in LMS user.
package session

import (
	"sync"
	"time"

	"lms-engagement-client/internal/models"
)

const DefaultPrefix = "sess-"

// DeriveID computes the session correlation key: the prefix followed by the
// user id. It is a pure function of its inputs.
func DeriveID(prefix string, userID models.ID) string {
	return prefix + userID.String()
}

// Store holds the process-wide session. Only the login flow writes it.
type Store struct {
	mu      sync.RWMutex
	prefix  string
	current *models.Session
	now     func() time.Time
}

func NewStore(prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{prefix: prefix, now: time.Now}
}

func (s *Store) Prefix() string { return s.prefix }

// Login replaces the current session with one built from a login result.
func (s *Store) Login(result models.LoginResult) models.Session {
	sess := models.Session{
		UserID:      result.User.ID,
		Username:    result.User.Username,
		DisplayName: result.User.DisplayName,
		SessionID:   DeriveID(s.prefix, result.User.ID),
		StartedAt:   s.now().UTC(),
	}
	if result.EdumindStudentID != nil {
		sess.EdumindStudentID = *result.EdumindStudentID
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Current returns a copy of the active session.
func (s *Store) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Session{}, false
	}
	return *s.current, true
}
