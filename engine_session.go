package hiyauth

import (
	"context"
	"encoding/json"
	"net/http"
)

// TokenCookieName is the cookie consulted when no Authorization header is set.
const TokenCookieName = "token"

type tokenCookie struct {
	AccessToken string `json:"accessToken"`
}

// ExtractAccessToken locates a bearer token on the request. Precedence:
// Authorization header, then the structured token cookie, then the raw cookie
// value as a compatibility fallback. Extraction never fails — a request
// without a usable token yields "".
func ExtractAccessToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		const bearer = "Bearer "
		if len(header) > len(bearer) && header[:len(bearer)] == bearer {
			return header[len(bearer):]
		}
		return ""
	}

	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	var structured tokenCookie
	if err := json.Unmarshal([]byte(cookie.Value), &structured); err == nil && structured.AccessToken != "" {
		return structured.AccessToken
	}

	return cookie.Value
}

// GetSession resolves the request's bearer token into an authenticated
// session. A missing, invalid, expired, or revoked token yields (nil, nil) —
// absence is the signal, not an error. Only revocation-store infrastructure
// failures return an error.
func (e *Engine) GetSession(ctx context.Context, r *http.Request) (*Session, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	token := ExtractAccessToken(r)
	if token == "" {
		return nil, nil
	}

	claims, err := e.ValidateAccessToken(token)
	if err != nil {
		e.metrics.Inc(MetricSessionRejected)
		return nil, nil
	}

	revoked, err := e.IsInvalidated(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		e.metrics.Inc(MetricSessionRejected)
		return nil, nil
	}

	e.metrics.Inc(MetricSessionResolved)

	session := &Session{
		UserID:   claims.User.ID,
		Username: claims.User.Username,
		Scopes:   claims.Scopes,
		PairID:   claims.PairID,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}

// CheckScopes verifies that session covers every required scope. The wildcard
// scope grants everything; a session with no scopes at all fails with
// [ErrInvalidScopes]; otherwise the missing names are reported.
func (e *Engine) CheckScopes(session *Session, required []string) error {
	if session == nil {
		return ErrUnauthorized
	}
	if len(required) == 0 {
		return nil
	}
	if len(session.Scopes) == 0 {
		return ErrInvalidScopes
	}

	for _, held := range session.Scopes {
		if held == ScopeWildcard {
			return nil
		}
	}

	var missing []string
	for _, scope := range required {
		if !session.HasScope(scope) {
			missing = append(missing, scope)
		}
	}
	if len(missing) > 0 {
		return &MissingScopesError{Scopes: missing}
	}

	return nil
}

// VerifyScopes returns an authorization gate usable as request middleware:
// it resolves the session and checks the required scopes against it.
func (e *Engine) VerifyScopes(required []string) func(r *http.Request) error {
	return func(r *http.Request) error {
		session, err := e.GetSession(r.Context(), r)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrUnauthorized
		}
		return e.CheckScopes(session, required)
	}
}
