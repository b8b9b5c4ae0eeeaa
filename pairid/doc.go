// Package pairid mints the unique, approximately time-ordered identifiers that bind
// one access token to one refresh token. The pair identifier is also the unit of
// revocation: invalidating a pair id kills both tokens that carry it.
//
// Ids are snowflake-style: a millisecond timestamp, a node id, and a per-millisecond
// sequence. Ordering is useful for debugging and auditing only — it carries no
// security meaning.
package pairid
