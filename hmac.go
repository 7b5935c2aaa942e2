package jwt

import (
	"crypto"
	"crypto/hmac"
)

// HMACAlgorithm implements the HS256/HS384/HS512 signature family.
type HMACAlgorithm struct {
	name string
	hash crypto.Hash
	key  []byte
	prov Provider
}

// NewHS256 creates an HMAC-SHA256 algorithm keyed with the given secret.
func NewHS256(key []byte, opts ...Option) Algorithm {
	return newHMAC("HS256", crypto.SHA256, key, opts)
}

// NewHS384 creates an HMAC-SHA384 algorithm keyed with the given secret.
func NewHS384(key []byte, opts ...Option) Algorithm {
	return newHMAC("HS384", crypto.SHA384, key, opts)
}

// NewHS512 creates an HMAC-SHA512 algorithm keyed with the given secret.
func NewHS512(key []byte, opts ...Option) Algorithm {
	return newHMAC("HS512", crypto.SHA512, key, opts)
}

func newHMAC(name string, hash crypto.Hash, key []byte, opts []Option) Algorithm {
	o := newOptions(opts)
	return &HMACAlgorithm{
		name: name,
		hash: hash,
		key:  append([]byte(nil), key...),
		prov: o.provider,
	}
}

// Name returns the algorithm name.
func (h *HMACAlgorithm) Name() string {
	return h.name
}

// Sign computes the MAC over the signing input.
func (h *HMACAlgorithm) Sign(signingInput []byte) ([]byte, error) {
	return h.prov.HMAC(h.hash, h.key, signingInput), nil
}

// Verify recomputes the MAC over the token's signing input and compares it
// to the signature segment in constant time.
func (h *HMACAlgorithm) Verify(token string) bool {
	signingInput, signature, err := Decompose(token)
	if err != nil {
		return false
	}
	expected := h.prov.HMAC(h.hash, h.key, signingInput)
	return hmac.Equal(signature, expected)
}
