// Package revoke persists the per-user sets of revoked pair identifiers.
//
// # Key layout
//
// One Redis set per user, keyed "invalid:<userId>", whose members are pair
// identifiers. Set-add, set-ismember, and set-remove are each atomic at the
// store, so no in-process locking is needed.
//
// # Lazy eviction
//
// A membership check against an already-expired token reports revoked and
// queues removal of the stale member on a background worker. Eviction is
// fire-and-forget: it never blocks or fails the caller, and completion is not
// ordered relative to the caller's response.
//
// # Architecture boundaries
//
// This package owns set membership only. Token decoding and the decision of
// which (userId, pairId) to revoke belong to the Engine.
package revoke
