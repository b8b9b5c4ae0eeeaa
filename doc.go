// Package hiyauth issues, validates, and revokes the paired access/refresh tokens that
// authorize api.hiya.gg requests, and links local accounts to third-party OAuth
// providers through the linking subpackage.
//
// The package is designed for concurrent server workloads: Engine methods are safe to
// call from multiple goroutines after initialization through [Builder.Build].
//
// # Token model
//
// Every login or refresh mints one pair identifier shared by exactly one access token
// (24h) and one refresh token (7d). The signed tokens are the source of truth for
// who/what/when; the Redis-backed revoked set ("invalid:<userId>") is the single
// source of truth for whether a pair identifier is still trusted. Refreshing consumes
// the presented pair: the old pair id is revoked and a new pair is issued.
//
// # Architecture boundaries
//
// hiyauth is the public surface. It exposes [Engine], [Builder], [Config], and value
// types ([TokenResponse], [Session], [User]). Signing lives in jwt/, pair id minting
// in pairid/, revoked-set persistence in revoke/, password hashing in password/, and
// provider linking in linking/. User storage stays behind [UserDirectory] — this
// module never owns a relational schema.
//
// # What this package must NOT do
//
//   - Expose Redis clients or store key layouts in its public API.
//   - Reveal which refresh-protocol check failed (single opaque failure per class).
//   - Block a request path on revoked-set cleanup (eviction is fire-and-forget).
package hiyauth
