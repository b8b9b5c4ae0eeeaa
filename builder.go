package hiyauth

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/zerite/hiyauth/internal/rate"
	"github.com/zerite/hiyauth/jwt"
	"github.com/zerite/hiyauth/pairid"
	"github.com/zerite/hiyauth/password"
	"github.com/zerite/hiyauth/revoke"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the engine's methods are called.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	directory UserDirectory
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the configuration tree. Zero-valued fields are filled
// from defaults at Build.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSigningSecret is a convenience for single-key setups without rotation.
func (b *Builder) WithSigningSecret(secret []byte) *Builder {
	b.config.JWT.Keys = []jwt.SigningKey{{Secret: secret}}
	return b
}

// WithRedis sets the client backing the revoked sets and login throttling.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserDirectory sets the user-lookup collaborator.
func (b *Builder) WithUserDirectory(directory UserDirectory) *Builder {
	b.directory = directory
	return b
}

// WithAuditSink sets the destination for audit events. Only consulted when
// Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration, wires all components, and returns a
// ready Engine. A builder builds at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already consumed")
	}

	cfg := mergeDefaults(b.config)
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.directory == nil {
		return nil, errors.New("user directory is required")
	}

	jwtManager, err := jwt.NewManager(jwt.Config{
		Keys:       cfg.JWT.Keys,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
		Leeway:     cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	pairs, err := pairid.NewGenerator(cfg.NodeID)
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if cfg.RateLimit.EnableLoginThrottle {
		limiter = rate.New(b.redis, rate.Config{
			MaxAttempts: cfg.RateLimit.MaxLoginAttempts,
			Cooldown:    cfg.RateLimit.LoginCooldown,
		})
	}

	b.built = true

	return &Engine{
		config:  cfg,
		jwt:     jwtManager,
		pairs:   pairs,
		revoked: revoke.NewStore(b.redis, revoke.Config{KeyPrefix: cfg.Revocation.KeyPrefix, EvictionBuffer: cfg.Revocation.EvictionBuffer}),
		hasher:  hasher,
		limiter: limiter,
		users:   b.directory,
		metrics: newMetrics(cfg.Metrics),
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		verify:  validator.New(),
	}, nil
}
