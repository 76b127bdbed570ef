// Package auth issues and verifies the bearer tokens that guard the relay's
// HTTP API.
//
// Tokens are HS256 JWTs signed with relay.api.jwt_secret. They carry the
// operator's name as subject and a scope:
//   - read:   audit history, version and the live event stream
//   - stream: the live event stream only (for dashboards)
//
// Verification is by signature and expiry only; there is no server-side
// token store, so rotating the secret revokes every token.
package auth
