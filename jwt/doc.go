// Package jwt manages signing, verification, and unverified decoding of the paired
// access/refresh claim sets used by hiyauth.
//
// # Claim shape
//
// Both token kinds share one [Claims] struct tagged by [TokenType]. Access claims carry
// the user identity, the scope set, and the pair identifier; refresh claims carry only
// the user id reference and the pair identifier. The pair identifier is the correlation
// key binding one access token to one refresh token.
//
// # Key rotation
//
// [Config.Keys] is ordered newest-first. Tokens are always signed with the first key;
// verification accepts any configured key, so tokens issued before a rotation stay
// valid until they expire.
//
// # Architecture boundaries
//
// This package owns claim serialization and signature checks only. Revocation state,
// user lookup, and the refresh pairing protocol live in the Engine.
//
// # What this package must NOT do
//
//   - Access Redis or any I/O.
//   - Import the root hiyauth package (no upward imports).
//   - Authorize anything from [Manager.Decode] output — decoded claims are unverified.
package jwt
