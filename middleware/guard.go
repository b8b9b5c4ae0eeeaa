package middleware

import (
	"context"
	"errors"
	"net/http"

	hiyauth "github.com/zerite/hiyauth"
)

type sessionContextKey struct{}

// SessionFromContext returns the session a guard stored on the request context.
func SessionFromContext(ctx context.Context) (*hiyauth.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*hiyauth.Session)
	return session, ok
}

// Guard requires an authenticated, unrevoked session and stores it on the
// request context.
func Guard(engine *hiyauth.Engine) func(http.Handler) http.Handler {
	return RequireScopes(engine)
}

// RequireScopes is Guard plus scope enforcement: the session must cover every
// listed scope (or hold the wildcard). Missing or invalid sessions yield 401;
// insufficient scopes 403.
func RequireScopes(engine *hiyauth.Engine, scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			session, err := engine.GetSession(r.Context(), r)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if session == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if err := engine.CheckScopes(session, scopes); err != nil {
				var missing *hiyauth.MissingScopesError
				if errors.As(err, &missing) || errors.Is(err, hiyauth.ErrInvalidScopes) {
					http.Error(w, err.Error(), http.StatusForbidden)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
