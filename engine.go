package hiyauth

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zerite/hiyauth/internal/rate"
	"github.com/zerite/hiyauth/jwt"
	"github.com/zerite/hiyauth/pairid"
	"github.com/zerite/hiyauth/password"
	"github.com/zerite/hiyauth/revoke"
)

// Engine is the token/session core. Construct one through [Builder.Build];
// all methods are then safe for concurrent use.
type Engine struct {
	config  Config
	jwt     *jwt.Manager
	pairs   *pairid.Generator
	revoked *revoke.Store
	hasher  *password.Hasher
	limiter *rate.Limiter
	users   UserDirectory
	metrics *Metrics
	audit   *auditDispatcher
	verify  *validator.Validate
}

// Close stops the engine's background workers, draining queued evictions and
// audit events. The engine must not be used afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.revoked.Close()
	e.audit.Close()
}

// CreateTokenPair mints one pair identifier and issues the access/refresh
// tokens bound to it. Both tokens reference the same pair id, which is what
// makes refresh-pair validation possible without a store round trip per check.
func (e *Engine) CreateTokenPair(user *User, scopes []string) (*TokenResponse, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	pairID := e.pairs.Next()

	accessToken, err := e.jwt.SignAccess(jwt.TokenUser{ID: user.ID, Username: user.Username}, scopes, pairID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := e.jwt.SignRefresh(user.ID, pairID)
	if err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricPairIssued)

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		PairID:       pairID,
		Scopes:       scopes,
		ExpiresIn:    int64(e.jwt.AccessTTL().Seconds()),
		Type:         "Bearer",
	}, nil
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports audit events discarded because the buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// EvictionsDropped reports revoked-set evictions discarded because the
// cleanup queue was full.
func (e *Engine) EvictionsDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.revoked.Dropped()
}

func (e *Engine) emitAudit(kind AuditKind, userID, pairID string) {
	if e.audit == nil {
		return
	}
	e.audit.Emit(context.Background(), AuditEvent{
		Kind:   kind,
		UserID: userID,
		PairID: pairID,
		At:     time.Now(),
	})
}
