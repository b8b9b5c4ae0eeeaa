package hiyauth

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials is returned by Login for a bad username/email or
	// password. It never distinguishes which, to avoid a user-existence oracle.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for malformed, unsigned, expired, or
	// wrong-issuer tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidRefreshToken is returned when a presented pair fails the
	// refresh protocol (wrong type, mismatched pair ids). The specific check
	// that failed is deliberately not revealed.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrInvalidTokenPair is returned when both tokens verify individually but
	// the pair is revoked or its user no longer exists.
	ErrInvalidTokenPair = errors.New("invalid token pair")
	// ErrUnauthorized is returned by scope guards when no session resolves.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidScopes is returned when a session carries no scopes at all.
	ErrInvalidScopes = errors.New("invalid scopes")
	// ErrUserNotFound is the sentinel UserDirectory implementations return for
	// an absent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned by CreateUser on a duplicate email or username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidEmail is returned by CreateUser for a syntactically invalid email.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidAccountParams is returned by CreateUser when a non-email field
	// fails validation.
	ErrInvalidAccountParams = errors.New("invalid account parameters")
	// ErrLoginRateLimited is returned when login throttling is enabled and the
	// identifier exhausted its attempt budget.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrEngineNotReady is returned when an Engine method is called on a nil
	// or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// MissingScopesError reports which required scopes the session lacks.
type MissingScopesError struct {
	Scopes []string
}

func (e *MissingScopesError) Error() string {
	return "missing scopes: " + strings.Join(e.Scopes, ", ")
}
