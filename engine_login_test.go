package hiyauth

import (
	"context"
	"errors"
	"testing"
)

func TestLoginByUsernameAndEmail(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedUser(t, engine, "alice", "alice@hiya.gg", "hunter2hunter2")
	ctx := context.Background()

	for _, identifier := range []string{"alice", "alice@hiya.gg", "ALICE", "Alice@HIYA.gg"} {
		pair, err := engine.Login(ctx, identifier, "hunter2hunter2")
		if err != nil {
			t.Fatalf("Login(%q) failed: %v", identifier, err)
		}
		if len(pair.Scopes) != 1 || pair.Scopes[0] != ScopeWildcard {
			t.Fatalf("login must issue wildcard scopes, got %v", pair.Scopes)
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedUser(t, engine, "alice", "alice@hiya.gg", "hunter2hunter2")
	ctx := context.Background()

	if _, err := engine.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := engine.Login(ctx, "nobody", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown users must look identical to bad passwords, got %v", err)
	}
}

func TestLoginThrottleWhenEnabled(t *testing.T) {
	engine, _ := newTestEngine(t, func(b *Builder) {
		b.config.RateLimit.EnableLoginThrottle = true
		b.config.RateLimit.MaxLoginAttempts = 3
	})
	seedUser(t, engine, "alice", "alice@hiya.gg", "hunter2hunter2")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := engine.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	// Budget exhausted: even the right password is throttled now.
	if _, err := engine.Login(ctx, "alice", "hunter2hunter2"); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected ErrLoginRateLimited, got %v", err)
	}
}

func TestLoginThrottleResetsOnSuccess(t *testing.T) {
	engine, _ := newTestEngine(t, func(b *Builder) {
		b.config.RateLimit.EnableLoginThrottle = true
		b.config.RateLimit.MaxLoginAttempts = 3
	})
	seedUser(t, engine, "alice", "alice@hiya.gg", "hunter2hunter2")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _ = engine.Login(ctx, "alice", "wrong-password")
	}
	if _, err := engine.Login(ctx, "alice", "hunter2hunter2"); err != nil {
		t.Fatalf("login within budget failed: %v", err)
	}

	// The successful login cleared the counter; two more failures fit.
	for i := 0; i < 2; i++ {
		if _, err := engine.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
}

func TestLoginCountsMetrics(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedUser(t, engine, "alice", "alice@hiya.gg", "hunter2hunter2")
	ctx := context.Background()

	if _, err := engine.Login(ctx, "alice", "hunter2hunter2"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	_, _ = engine.Login(ctx, "alice", "wrong-password")

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricLoginSuccess] != 1 {
		t.Fatalf("expected 1 login success, got %d", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricLoginFailure] != 1 {
		t.Fatalf("expected 1 login failure, got %d", snap.Counters[MetricLoginFailure])
	}
}
