// Package jwt creates and verifies JSON Web Tokens in compact
// serialization. Twelve signature algorithms are supported: HS256/384/512,
// RS256/384/512, PS256/384/512 and ES256/384/512.
//
// Verification is allow-list driven. Verify dispatches on the token's
// "alg" header only within the caller-supplied set of algorithms, so a
// token can never select an algorithm the caller did not permit.
// Verification answers with a plain bool; decoding helpers are separate
// and never authenticate.
package jwt
