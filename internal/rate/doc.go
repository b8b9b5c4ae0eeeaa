// Package rate provides the fixed-window Redis counters backing optional login
// throttling. Counters use INCR plus a conditional EXPIRE on first hit, keyed
// "lr:<identifier>".
//
// # What this package must NOT do
//
//   - Implement lockout policy (the Engine decides when to check and increment).
//   - Be imported outside the hiyauth module.
package rate
