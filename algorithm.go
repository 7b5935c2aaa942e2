package jwt

import (
	"github.com/pkg/errors"
)

// Algorithm is one of the twelve JWS signature algorithms. Implementations
// own their key material, are immutable after construction and are safe for
// concurrent use. Key objects are derived from the stored material on every
// call and never cached.
type Algorithm interface {
	// Name returns the JWS algorithm name carried in the header, e.g. "HS256".
	Name() string
	// Sign produces the raw signature bytes for the signing input.
	Sign(signingInput []byte) ([]byte, error)
	// Verify reports whether the token's signature is valid under this
	// algorithm. It never panics and never returns an error: any internal
	// failure yields false.
	Verify(token string) bool
}

// Option adjusts how an algorithm is constructed.
type Option func(*options)

type options struct {
	provider Provider
}

// WithProvider routes an algorithm's cryptographic primitives through p
// instead of the built-in system provider.
func WithProvider(p Provider) Option {
	return func(o *options) {
		if p != nil {
			o.provider = p
		}
	}
}

func newOptions(opts []Option) options {
	o := options{provider: SystemProvider()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Keys carries the material for NewAlgorithm: Secret feeds the HS family,
// the PEM pair feeds the others. Unused fields may stay empty.
type Keys struct {
	Secret        []byte
	PrivateKeyPEM string
	PublicKeyPEM  string
}

// NewAlgorithm builds one of the twelve algorithms by its exact JWS name.
// Names are case-sensitive; anything else fails.
func NewAlgorithm(name string, keys Keys, opts ...Option) (Algorithm, error) {
	switch name {
	case "HS256":
		return NewHS256(keys.Secret, opts...), nil
	case "HS384":
		return NewHS384(keys.Secret, opts...), nil
	case "HS512":
		return NewHS512(keys.Secret, opts...), nil
	case "RS256":
		return NewRS256(keys.PrivateKeyPEM, keys.PublicKeyPEM, opts...), nil
	case "RS384":
		return NewRS384(keys.PrivateKeyPEM, keys.PublicKeyPEM, opts...), nil
	case "RS512":
		return NewRS512(keys.PrivateKeyPEM, keys.PublicKeyPEM, opts...), nil
	case "PS256":
		return NewPS256(keys.PrivateKeyPEM, keys.PublicKeyPEM, opts...), nil
	case "PS384":
		return NewPS384(keys.PrivateKeyPEM, keys.PublicKeyPEM, opts...), nil
	case "PS512":
		return NewPS512(keys.PrivateKeyPEM, keys.PublicKeyPEM, opts...), nil
	case "ES256":
		return NewES256(keys.PrivateKeyPEM, keys.PublicKeyPEM, opts...), nil
	case "ES384":
		return NewES384(keys.PrivateKeyPEM, keys.PublicKeyPEM, opts...), nil
	case "ES512":
		return NewES512(keys.PrivateKeyPEM, keys.PublicKeyPEM, opts...), nil
	}
	return nil, errors.Errorf("unsupported algorithm %q", name)
}

// algorithmByName returns the first algorithm whose name matches exactly,
// or nil. Matching is case-sensitive and never falls back to a different
// algorithm.
func algorithmByName(name string, algorithms []Algorithm) Algorithm {
	for _, a := range algorithms {
		if a != nil && a.Name() == name {
			return a
		}
	}
	return nil
}
