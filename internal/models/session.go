package models

import "strings"

// Role identifies which portal a session may enter.
type Role string

const (
	RoleGuest     Role = "Guest"
	RoleUser      Role = "User"
	RoleAuthority Role = "Authority"
)

// ParseRole maps a persisted role string onto a Role. Unknown values become RoleGuest.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "user", "citizen":
		return RoleUser
	case "authority":
		return RoleAuthority
	default:
		return RoleGuest
	}
}

// Session is the authentication state of one client.
// An unauthenticated session always carries RoleGuest.
type Session struct {
	ID            string `json:"-"`
	UserID        string `json:"user_id,omitempty"`
	DisplayName   string `json:"name,omitempty"`
	Role          Role   `json:"role"`
	Authenticated bool   `json:"authenticated"`
}

// GuestSession returns the session of a visitor who is not signed in.
func GuestSession() Session {
	return Session{Role: RoleGuest}
}

// NewSession builds an authenticated session. A Guest role yields a guest session.
func NewSession(id, userID, displayName string, role Role) Session {
	s := Session{
		ID:            id,
		UserID:        userID,
		DisplayName:   displayName,
		Role:          role,
		Authenticated: true,
	}
	return s.Normalize()
}

// Normalize restores the invariant authenticated == false => role == Guest.
func (s Session) Normalize() Session {
	if s.Role != RoleUser && s.Role != RoleAuthority {
		return GuestSession()
	}
	if !s.Authenticated {
		return GuestSession()
	}
	return s
}

// IsAuthority reports whether the session belongs to an authority officer.
func (s Session) IsAuthority() bool {
	return s.Authenticated && s.Role == RoleAuthority
}
