// Package linking connects local accounts to third-party OAuth providers via
// the authorization-code flow.
//
// A [Registry] holds one configured [Service] per provider. Each service
// builds authorize URLs with a fresh uuid state, exchanges callback codes for
// provider tokens, and resolves the provider-side identity (platform id and
// username) needed to record a connection. Provider profile metadata beyond
// that identity is out of scope.
//
// # What this package must NOT do
//
//   - Persist connections (callers own storage).
//   - Log or expose provider access tokens.
//   - Import the root hiyauth package.
package linking
