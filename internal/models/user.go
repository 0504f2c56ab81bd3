package models

import "time"

// User is the LMS account returned by the login endpoint.
type User struct {
	ID          ID     `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	User             User    `json:"user"`
	EdumindStudentID *string `json:"edumind_student_id"`
}

// Session identifies the authenticated actor for the lifetime of a login.
// SessionID is a correlation key derived from UserID, not a credential.
type Session struct {
	UserID           ID        `json:"user_id"`
	Username         string    `json:"username"`
	DisplayName      string    `json:"display_name,omitempty"`
	EdumindStudentID string    `json:"edumind_student_id,omitempty"`
	SessionID        string    `json:"session_id"`
	StartedAt        time.Time `json:"started_at"`
}

// Name prefers the display name and falls back to the username.
func (s Session) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Username
}

// Label is the navbar rendering of the session.
func (s Session) Label() string {
	if s.EdumindStudentID != "" {
		return s.Name() + " (EduMind: " + s.EdumindStudentID + ")"
	}
	return s.Name() + " (no EduMind mapping)"
}
