package hiyauth

import (
	"context"
	"time"
)

// ScopeWildcard grants every scope.
const ScopeWildcard = "*"

// User is the minimal account representation the engine works with. Storage is
// owned by the [UserDirectory] implementation; the engine references users by
// id only once tokens are signed.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

// UserDirectory is the user-lookup collaborator callers must implement.
// Lookups by email or username are case-insensitive on either field. Absent
// users are reported as [ErrUserNotFound]; any other error is treated as an
// infrastructure failure and propagated uncaught.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmailOrUsername(ctx context.Context, emailOrUsername string) (*User, error)
	// Create persists a new user. Implementations return [ErrUserExists] when
	// the email or username is already taken.
	Create(ctx context.Context, user *User) error
}

// TokenResponse is the wire shape returned by CreateTokenPair, Login, and
// Refresh.
type TokenResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	PairID       string   `json:"pairId"`
	Scopes       []string `json:"scopes,omitempty"`
	ExpiresIn    int64    `json:"expiresIn"`
	Type         string   `json:"type"`
}

// Session is an authenticated request identity: a validated, unrevoked access
// token resolved into its claims.
type Session struct {
	UserID    string
	Username  string
	Scopes    []string
	PairID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasScope reports whether the session's scope set contains scope or the
// wildcard.
func (s *Session) HasScope(scope string) bool {
	if s == nil {
		return false
	}
	for _, held := range s.Scopes {
		if held == ScopeWildcard || held == scope {
			return true
		}
	}
	return false
}
