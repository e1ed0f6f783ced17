// Package authfile implements the authentication core of the authfile
// service: credential hashing, stateless access/refresh token issuance,
// the single-use verification and reset token state machine, and the
// session manager that binds refresh tokens to a server-side revocation
// registry.
//
// Token lifecycle:
//   - Access tokens are short-lived, self-contained JWTs that are never
//     persisted and cannot be revoked before expiry; the short TTL bounds
//     the exposure window.
//   - Refresh tokens are honored only while a matching revocation record
//     exists in the registry. Deleting a subject's records invalidates all
//     of their outstanding refresh tokens immediately.
//   - Single-use tokens back the email verification and password reset
//     flows. They are random opaque values consumed exactly once; minting
//     a replacement supersedes any prior live link for the same purpose.
//
// Collaborators (persistence, revocation registry, mail transport, object
// storage) are injected at construction. The package holds no global state
// beyond the process-wide signing configuration loaded at startup.
package authfile
