package hiyauth

import (
	"context"
	"time"
)

// AuditKind classifies security events.
type AuditKind string

const (
	// AuditLoginSuccess records a credential login that issued a pair.
	AuditLoginSuccess AuditKind = "login.success"
	// AuditLoginFailure records a rejected credential login.
	AuditLoginFailure AuditKind = "login.failure"
	// AuditRefresh records a successful pair rotation.
	AuditRefresh AuditKind = "refresh"
	// AuditRefreshRejected records a refresh attempt that failed validation.
	AuditRefreshRejected AuditKind = "refresh.rejected"
	// AuditInvalidate records an explicit pair revocation.
	AuditInvalidate AuditKind = "invalidate"
	// AuditAccountCreated records a new local account.
	AuditAccountCreated AuditKind = "account.created"
)

// AuditEvent is one security event. PairID is empty for events that never
// reached token issuance.
type AuditEvent struct {
	Kind   AuditKind
	UserID string
	PairID string
	At     time.Time
}

// AuditSink receives audit events. Emit is called from a single dispatcher
// goroutine; implementations may block without affecting request paths.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards all events.
type NoOpSink struct{}

// Emit implements [AuditSink].
func (NoOpSink) Emit(context.Context, AuditEvent) {}
