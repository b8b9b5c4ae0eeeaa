// Package middleware exposes net/http adapters for session resolution and
// scope enforcement built on top of hiyauth.Engine.
//
// # Guards
//
//   - [Guard] — requires an authenticated, unrevoked session.
//   - [RequireScopes] — [Guard] plus a scope check against the session.
//
// Each guard resolves the session through Engine.GetSession and injects it
// into the request context for [SessionFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT parse
// tokens, touch Redis, or make authorization decisions itself.
package middleware
