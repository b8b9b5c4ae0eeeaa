package hiyauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/zerite/hiyauth/jwt"
)

// ValidateAccessToken fully verifies token and asserts it is an access token.
// Refresh tokens presented as access tokens fail here, at the transport layer.
func (e *Engine) ValidateAccessToken(token string) (*jwt.Claims, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.jwt.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != jwt.TypeAccess {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateRefreshToken checks that accessToken and refreshToken form one
// legitimate pair and returns the validated access claims. The refresh token
// is verified fully; the access token with expiration ignored — it is expected
// to be expired or about to expire, but its signature and issuer must still
// check out. The pair-id equality is the anti-token-mixing guard: without it
// an attacker could pair an unrelated valid refresh token with a stolen access
// token. Which check failed is never revealed.
func (e *Engine) ValidateRefreshToken(accessToken, refreshToken string) (*jwt.Claims, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	refreshClaims, err := e.jwt.Parse(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	accessClaims, err := e.jwt.ParseIgnoringExpiry(accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if refreshClaims.Type != jwt.TypeRefresh ||
		accessClaims.Type != jwt.TypeAccess ||
		refreshClaims.PairID != accessClaims.PairID ||
		refreshClaims.User.ID != accessClaims.User.ID {
		return nil, ErrInvalidRefreshToken
	}

	return accessClaims, nil
}

// Refresh rotates a token pair: it validates the presented pair, rejects it if
// either side's pair id is already revoked, re-looks-up the user, revokes the
// old pair, and issues a new one. The old refresh token becomes unusable by
// side effect — the new pair carries a new pair id.
//
// The revoke-then-issue step is not transactional. A crash in between leaves
// the client without a valid pair and re-authentication is the recovery path.
func (e *Engine) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenResponse, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	accessClaims, err := e.ValidateRefreshToken(accessToken, refreshToken)
	if err != nil {
		return nil, e.refreshRejected(err)
	}

	// Both tokens carry the same pair id after validation, so one membership
	// check covers the old access token and its sibling refresh token alike.
	// The expiry-as-revoked policy of IsInvalidated does not apply here: an
	// expired access token is exactly what a legitimate refresh presents.
	revoked, err := e.revoked.Contains(ctx, accessClaims.User.ID, accessClaims.PairID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, e.refreshRejected(ErrInvalidTokenPair)
	}

	user, err := e.users.FindByID(ctx, accessClaims.User.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, e.refreshRejected(ErrInvalidTokenPair)
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	// Consume the presented pair. Store-level Add instead of Invalidate: the
	// access token may be expired, and Invalidate refuses expired tokens.
	changed, err := e.revoked.Add(ctx, accessClaims.User.ID, accessClaims.PairID)
	if err != nil {
		return nil, err
	}
	if changed {
		e.metrics.Inc(MetricPairRevoked)
	}

	response, err := e.CreateTokenPair(user, accessClaims.Scopes)
	if err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricRefreshSuccess)
	e.emitAudit(AuditRefresh, user.ID, response.PairID)

	return response, nil
}

func (e *Engine) refreshRejected(err error) error {
	e.metrics.Inc(MetricRefreshFailure)
	e.emitAudit(AuditRefreshRejected, "", "")
	return err
}
