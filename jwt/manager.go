package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType tags a claim set as belonging to an access token or a refresh token.
type TokenType string

const (
	// TypeAccess marks claims that authorize API access directly.
	TypeAccess TokenType = "access"
	// TypeRefresh marks claims that may only be used to obtain a new pair.
	TypeRefresh TokenType = "refresh"
)

var (
	// ErrTokenInvalid is returned for any structural, signature, issuer, or
	// expiration failure. Callers must not distinguish which check failed.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrNoSigningKeys is returned by NewManager when no key material is configured.
	ErrNoSigningKeys = errors.New("no signing keys configured")
)

// TokenUser is the user reference embedded in signed claims.
type TokenUser struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

// Claims is the payload shared by both token kinds. Access tokens populate
// User.Username and Scopes; refresh tokens carry only User.ID and PairID.
// Claims are immutable once signed — the signature binds the full set.
type Claims struct {
	Type   TokenType `json:"type"`
	User   TokenUser `json:"user"`
	Scopes []string  `json:"scopes,omitempty"`
	PairID string    `json:"pairId"`
	jwt.RegisteredClaims
}

// SigningKey is one symmetric key in the rotation list. ID is optional; when
// set it is emitted as the kid header and used to short-circuit verification.
type SigningKey struct {
	ID     string
	Secret []byte
}

// Config holds the signing and verification parameters for a [Manager].
type Config struct {
	// Keys is ordered newest-first. Keys[0] signs; all keys verify.
	Keys       []SigningKey
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Leeway     time.Duration
}

// Manager signs and verifies hiyauth token claims with HS256. It holds no
// mutable state and is safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a ready [Manager]. AccessTTL and
// RefreshTTL must both be positive; at least one non-empty key is required.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Keys) == 0 {
		return nil, ErrNoSigningKeys
	}
	for _, key := range cfg.Keys {
		if len(key.Secret) == 0 {
			return nil, errors.New("signing key with empty secret")
		}
	}
	if cfg.Issuer == "" {
		return nil, errors.New("issuer must be configured")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: cfg}, nil
}

// AccessTTL reports the configured access-token lifetime.
func (m *Manager) AccessTTL() time.Duration { return m.config.AccessTTL }

// RefreshTTL reports the configured refresh-token lifetime.
func (m *Manager) RefreshTTL() time.Duration { return m.config.RefreshTTL }

// SignAccess issues an access token for user with the given scope set and
// pair identifier, expiring after AccessTTL.
func (m *Manager) SignAccess(user TokenUser, scopes []string, pairID string) (string, error) {
	return m.sign(Claims{
		Type:   TypeAccess,
		User:   user,
		Scopes: scopes,
		PairID: pairID,
	}, m.config.AccessTTL)
}

// SignRefresh issues a refresh token referencing userID and pairID, expiring
// after RefreshTTL. Refresh claims never carry username or scopes.
func (m *Manager) SignRefresh(userID, pairID string) (string, error) {
	return m.sign(Claims{
		Type:   TypeRefresh,
		User:   TokenUser{ID: userID},
		PairID: pairID,
	}, m.config.RefreshTTL)
}

func (m *Manager) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    m.config.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signing := m.config.Keys[0]
	if signing.ID != "" {
		token.Header["kid"] = signing.ID
	}

	return token.SignedString(signing.Secret)
}

// Parse verifies a token fully: signature against the rotation list, issuer,
// and expiration. Every failure collapses into [ErrTokenInvalid].
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, false)
}

// ParseIgnoringExpiry verifies signature and issuer but tolerates an expired
// token. Used only for refresh-time cross-validation of an access token
// against its sibling refresh token.
func (m *Manager) ParseIgnoringExpiry(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, true)
}

func (m *Manager) parse(tokenStr string, ignoreExpiry bool) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if ignoreExpiry {
		// Signature is still checked below; only claim validation is replaced
		// by the manual issuer/expiry handling that follows.
		options = []jwt.ParserOption{
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		}
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, m.verifyKeys)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if ignoreExpiry {
		if claims.Issuer != m.config.Issuer {
			return nil, fmt.Errorf("%w: issuer mismatch", ErrTokenInvalid)
		}
		if claims.ExpiresAt == nil {
			return nil, fmt.Errorf("%w: missing expiration", ErrTokenInvalid)
		}
	}

	return claims, nil
}

func (m *Manager) verifyKeys(t *jwt.Token) (interface{}, error) {
	if kid, _ := t.Header["kid"].(string); kid != "" {
		for _, key := range m.config.Keys {
			if key.ID == kid {
				return key.Secret, nil
			}
		}
		return nil, errors.New("unknown kid")
	}

	set := jwt.VerificationKeySet{Keys: make([]jwt.VerificationKey, 0, len(m.config.Keys))}
	for _, key := range m.config.Keys {
		set.Keys = append(set.Keys, key.Secret)
	}
	return set, nil
}

// Decode extracts claims without any verification. The result must never be
// used to authorize an action; the sole caller is the revocation path where
// the token is already known-expired and verification is moot.
func (m *Manager) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	return claims, nil
}
