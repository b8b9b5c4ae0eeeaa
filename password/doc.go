// Package password hashes and verifies local-account passwords with argon2id,
// encoded in the PHC string format. Policy beyond the hashing primitive itself
// (history, complexity rules, rotation) is out of scope.
package password
