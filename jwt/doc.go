// Package jwt issues and verifies the stateless signed identity assertions
// of the auth core: compact HS256 tokens over a shared secret whose validity
// derives solely from signature correctness and expiry — no store round-trip.
package jwt
