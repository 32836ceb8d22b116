// Package jwt is helpers for working with JSON Web Tokens (JWT).
//
// It includes:
//   - A typed Claims wrapper carrying the signed-in phone and token kind.
//   - A symmetric HS512 implementation used by the sandbox API.
//   - ExpiresAt, which reads the expiry of a token the client cannot verify.
//   - Context helpers for storing and retrieving authenticated claims.
package jwt
