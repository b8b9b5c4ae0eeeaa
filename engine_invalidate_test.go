package hiyauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInvalidateRevokesPair(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedUser(t, engine, "alice", "alice@hiya.gg", "hunter2hunter2")
	ctx := context.Background()

	pair, err := engine.Login(ctx, "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	changed, err := engine.Invalidate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if !changed {
		t.Fatal("first invalidation must report a change")
	}

	revoked, err := engine.IsInvalidated(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("IsInvalidated failed: %v", err)
	}
	if !revoked {
		t.Fatal("pair should be revoked after Invalidate")
	}

	// The refresh token shares the pair id, so it is revoked too.
	revoked, err = engine.IsInvalidated(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("IsInvalidated failed: %v", err)
	}
	if !revoked {
		t.Fatal("sibling refresh token should be revoked too")
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedUser(t, engine, "alice", "alice@hiya.gg", "hunter2hunter2")
	ctx := context.Background()

	pair, err := engine.Login(ctx, "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	changed, err := engine.Invalidate(ctx, pair.AccessToken)
	if err != nil || !changed {
		t.Fatalf("first Invalidate: changed=%v err=%v", changed, err)
	}
	changed, err = engine.Invalidate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("second Invalidate failed: %v", err)
	}
	if changed {
		t.Fatal("second invalidation of the same pair must be a no-op")
	}
}

func TestInvalidateRejectsBadTokens(t *testing.T) {
	engine, _ := newTestEngine(t)
	user := seedUser(t, engine, "alice", "alice@hiya.gg", "hunter2hunter2")
	ctx := context.Background()

	if _, err := engine.Invalidate(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// Expired tokens cannot be invalidated; they are already past use.
	expired := signExpiredAccess(t, user, []string{ScopeWildcard}, "1234")
	if _, err := engine.Invalidate(ctx, expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestIsInvalidatedTreatsExpiredAsRevoked(t *testing.T) {
	engine, _ := newTestEngine(t)
	user := seedUser(t, engine, "alice", "alice@hiya.gg", "hunter2hunter2")
	ctx := context.Background()

	expired := signExpiredAccess(t, user, []string{ScopeWildcard}, "5678")

	revoked, err := engine.IsInvalidated(ctx, expired)
	if err != nil {
		t.Fatalf("IsInvalidated failed: %v", err)
	}
	if !revoked {
		t.Fatal("expired token must read as revoked")
	}
}

func TestIsInvalidatedEvictsExpiredEntries(t *testing.T) {
	engine, _ := newTestEngine(t)
	user := seedUser(t, engine, "alice", "alice@hiya.gg", "hunter2hunter2")
	ctx := context.Background()

	pairID := "9012"
	expired := signExpiredAccess(t, user, []string{ScopeWildcard}, pairID)

	// Seed the revoked set directly, as if the pair had been invalidated
	// before its access token expired.
	if _, err := engine.revoked.Add(ctx, user.ID, pairID); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	revoked, err := engine.IsInvalidated(ctx, expired)
	if err != nil {
		t.Fatalf("IsInvalidated failed: %v", err)
	}
	if !revoked {
		t.Fatal("expired token must read as revoked")
	}

	// Eviction is asynchronous. Poll until the entry disappears.
	deadline := time.Now().Add(2 * time.Second)
	for {
		present, err := engine.revoked.Contains(ctx, user.ID, pairID)
		if err != nil {
			t.Fatalf("Contains failed: %v", err)
		}
		if !present {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expired entry was not evicted")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestIsInvalidatedFreshToken(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedUser(t, engine, "alice", "alice@hiya.gg", "hunter2hunter2")
	ctx := context.Background()

	pair, err := engine.Login(ctx, "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	revoked, err := engine.IsInvalidated(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("IsInvalidated failed: %v", err)
	}
	if revoked {
		t.Fatal("fresh token must not read as revoked")
	}
}
