package hiyauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/zerite/hiyauth/internal/rate"
)

// Login authenticates a local account by username or email (case-insensitive
// on either field) and issues a wildcard-scoped token pair. Every credential
// failure collapses into [ErrInvalidCredentials]; directory infrastructure
// errors propagate as-is.
func (e *Engine) Login(ctx context.Context, usernameOrEmail, pass string) (*TokenResponse, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	if e.limiter != nil {
		if err := e.limiter.Check(ctx, usernameOrEmail); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metrics.Inc(MetricLoginRateLimited)
				return nil, ErrLoginRateLimited
			}
			return nil, err
		}
	}

	user, err := e.users.FindByEmailOrUsername(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, e.loginRejected(ctx, usernameOrEmail)
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	ok, err := e.hasher.Verify(pass, user.PasswordHash)
	if err != nil || !ok {
		return nil, e.loginRejected(ctx, usernameOrEmail)
	}

	if e.limiter != nil {
		if err := e.limiter.Reset(ctx, usernameOrEmail); err != nil {
			return nil, err
		}
	}

	response, err := e.CreateTokenPair(user, []string{ScopeWildcard})
	if err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricLoginSuccess)
	e.emitAudit(AuditLoginSuccess, user.ID, response.PairID)

	return response, nil
}

func (e *Engine) loginRejected(ctx context.Context, identifier string) error {
	e.metrics.Inc(MetricLoginFailure)
	e.emitAudit(AuditLoginFailure, "", "")

	if e.limiter != nil {
		if err := e.limiter.Increment(ctx, identifier); err != nil && !errors.Is(err, rate.ErrRateLimited) {
			return err
		}
	}

	return ErrInvalidCredentials
}
