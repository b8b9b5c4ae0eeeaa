package hiyauth

import (
	"context"
	"time"

	"github.com/zerite/hiyauth/jwt"
)

// Invalidate revokes the pair identifier carried by token, killing both the
// access and refresh token of that pair. The token must still verify — an
// expired token is already dead and fails with [ErrInvalidToken]. Invalidate
// is idempotent: it reports false when the pair was already revoked.
func (e *Engine) Invalidate(ctx context.Context, token string) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}

	claims, err := e.jwt.Parse(token)
	if err != nil {
		return false, ErrInvalidToken
	}
	if claims.User.ID == "" || claims.PairID == "" {
		return false, ErrInvalidToken
	}

	changed, err := e.revoked.Add(ctx, claims.User.ID, claims.PairID)
	if err != nil {
		return false, err
	}
	if changed {
		e.metrics.Inc(MetricPairRevoked)
		e.emitAudit(AuditInvalidate, claims.User.ID, claims.PairID)
	}

	return changed, nil
}

// IsInvalidated reports whether the pair identifier carried by token is no
// longer trusted. The token is decoded without verification: the caller may
// hold an expired token, and expiry alone already settles the answer. An
// already-expired token reports true and queues eviction of any stale set
// membership; the cleanup never blocks this call.
func (e *Engine) IsInvalidated(ctx context.Context, token string) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}

	claims, err := e.jwt.Decode(token)
	if err != nil {
		return false, ErrInvalidToken
	}
	if claims.User.ID == "" || claims.PairID == "" {
		return false, ErrInvalidToken
	}

	if expired(claims) {
		e.revoked.Evict(claims.User.ID, claims.PairID)
		return true, nil
	}

	return e.revoked.Contains(ctx, claims.User.ID, claims.PairID)
}

func expired(claims *jwt.Claims) bool {
	return claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now())
}
