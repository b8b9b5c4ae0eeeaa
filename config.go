package hiyauth

import (
	"errors"
	"time"

	"github.com/zerite/hiyauth/jwt"
)

// DefaultIssuer is the iss claim stamped on and required of every token.
const DefaultIssuer = "api.hiya.gg"

// Config is the full engine configuration tree. Zero values are filled from
// defaultConfig by [Builder.Build]; key material and collaborators have no
// defaults and must be supplied explicitly.
type Config struct {
	JWT        JWTConfig
	Revocation RevocationConfig
	Password   PasswordConfig
	RateLimit  RateLimitConfig
	Audit      AuditConfig
	Metrics    MetricsConfig

	// NodeID distinguishes pair id generators across processes (0–1023).
	NodeID int64
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures signing and verification. Keys is ordered newest-first:
// the first key signs, every key verifies, which is how rotation works without
// cutting issued tokens dead.
type JWTConfig struct {
	Keys       []jwt.SigningKey
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Leeway     time.Duration
}

/*
====================================
REVOCATION CONFIG
====================================
*/

// RevocationConfig configures the Redis-backed revoked-pair sets.
type RevocationConfig struct {
	KeyPrefix      string
	EvictionBuffer int
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds argon2id cost parameters. Memory is in KB.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig enables optional login throttling. Disabled by default.
type RateLimitConfig struct {
	EnableLoginThrottle bool
	MaxLoginAttempts    int
	LoginCooldown       time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig enables asynchronous security event delivery to an [AuditSink].
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull discards events when the buffer is full instead of applying
	// backpressure to the emitting request.
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig enables the in-process counters exposed via MetricsSnapshot.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			Issuer:     DefaultIssuer,
			AccessTTL:  24 * time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Revocation: RevocationConfig{
			KeyPrefix:      "invalid:",
			EvictionBuffer: 64,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        2,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		RateLimit: RateLimitConfig{
			MaxLoginAttempts: 10,
			LoginCooldown:    15 * time.Minute,
		},
		Audit: AuditConfig{
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func mergeDefaults(cfg Config) Config {
	def := defaultConfig()

	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = def.JWT.Issuer
	}
	if cfg.JWT.AccessTTL == 0 {
		cfg.JWT.AccessTTL = def.JWT.AccessTTL
	}
	if cfg.JWT.RefreshTTL == 0 {
		cfg.JWT.RefreshTTL = def.JWT.RefreshTTL
	}
	if cfg.Revocation.KeyPrefix == "" {
		cfg.Revocation.KeyPrefix = def.Revocation.KeyPrefix
	}
	if cfg.Revocation.EvictionBuffer == 0 {
		cfg.Revocation.EvictionBuffer = def.Revocation.EvictionBuffer
	}
	if cfg.Password == (PasswordConfig{}) {
		cfg.Password = def.Password
	}
	if cfg.RateLimit.MaxLoginAttempts == 0 {
		cfg.RateLimit.MaxLoginAttempts = def.RateLimit.MaxLoginAttempts
	}
	if cfg.RateLimit.LoginCooldown == 0 {
		cfg.RateLimit.LoginCooldown = def.RateLimit.LoginCooldown
	}
	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = def.Audit.BufferSize
	}

	return cfg
}

func validateConfig(cfg Config) error {
	if len(cfg.JWT.Keys) == 0 {
		return errors.New("at least one signing key is required")
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if cfg.JWT.RefreshTTL < cfg.JWT.AccessTTL {
		return errors.New("refresh TTL must not be shorter than access TTL")
	}
	if cfg.NodeID < 0 || cfg.NodeID > 1023 {
		return errors.New("node id out of range")
	}
	if cfg.RateLimit.EnableLoginThrottle {
		if cfg.RateLimit.MaxLoginAttempts <= 0 || cfg.RateLimit.LoginCooldown <= 0 {
			return errors.New("login throttle requires positive attempts and cooldown")
		}
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	keys := make([]jwt.SigningKey, len(cfg.JWT.Keys))
	for i, key := range cfg.JWT.Keys {
		secret := make([]byte, len(key.Secret))
		copy(secret, key.Secret)
		keys[i] = jwt.SigningKey{ID: key.ID, Secret: secret}
	}
	cfg.JWT.Keys = keys
	return cfg
}
