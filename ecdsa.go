package jwt

import (
	"crypto"

	"github.com/effective-security/xlog"

	"github.com/wisperia/jwt/internal/der"
	"github.com/wisperia/jwt/internal/pemkey"
)

// ECDSAAlgorithm implements the ES signature family. Signatures travel in
// the token as the fixed-width concatenation r||s; the provider produces
// and consumes ASN.1 DER, so both directions convert at this boundary.
type ECDSAAlgorithm struct {
	name       string
	hash       crypto.Hash
	keySize    int
	privatePEM string
	publicPEM  string
	prov       Provider
}

// NewES256 creates an ECDSA P-256 SHA-256 algorithm. Either PEM may be
// empty: signing needs the private key, verification the public key.
func NewES256(privateKeyPEM, publicKeyPEM string, opts ...Option) Algorithm {
	return newECDSA("ES256", crypto.SHA256, 32, privateKeyPEM, publicKeyPEM, opts)
}

// NewES384 creates an ECDSA P-384 SHA-384 algorithm.
func NewES384(privateKeyPEM, publicKeyPEM string, opts ...Option) Algorithm {
	return newECDSA("ES384", crypto.SHA384, 48, privateKeyPEM, publicKeyPEM, opts)
}

// NewES512 creates an ECDSA P-521 SHA-512 algorithm.
func NewES512(privateKeyPEM, publicKeyPEM string, opts ...Option) Algorithm {
	return newECDSA("ES512", crypto.SHA512, 66, privateKeyPEM, publicKeyPEM, opts)
}

func newECDSA(name string, hash crypto.Hash, keySize int, privatePEM, publicPEM string, opts []Option) Algorithm {
	o := newOptions(opts)
	return &ECDSAAlgorithm{
		name:       name,
		hash:       hash,
		keySize:    keySize,
		privatePEM: privatePEM,
		publicPEM:  publicPEM,
		prov:       o.provider,
	}
}

// Name returns the algorithm name.
func (e *ECDSAAlgorithm) Name() string {
	return e.name
}

// Sign extracts the private key, signs the digest of the input and converts
// the provider's DER signature to the raw r||s form, each half padded to the
// curve's byte size.
func (e *ECDSAAlgorithm) Sign(signingInput []byte) ([]byte, error) {
	material, err := pemkey.ECPrivate(e.privatePEM)
	if err != nil {
		return nil, wrapErr(ErrSignatureFailed, wrapErr(ErrInvalidKey, err))
	}
	key, err := e.prov.ImportKey(KeySpec{Type: KeyTypeEC, Class: KeyClassPrivate}, material)
	if err != nil {
		return nil, wrapErr(ErrSignatureFailed, wrapErr(ErrInvalidKey, err))
	}
	digest := e.prov.Digest(e.hash, signingInput)
	derSig, err := e.prov.Sign(key, SignatureScheme{Hash: e.hash}, digest)
	if err != nil {
		return nil, wrapErr(ErrSignatureFailed, err)
	}
	raw, err := der.SignatureFromDER(derSig)
	if err != nil {
		return nil, wrapErr(ErrSignatureFailed, err)
	}
	return raw, nil
}

// Verify checks the token's raw r||s signature against the public key.
// The signature must be exactly twice the curve size; anything else fails
// before any key material is touched.
func (e *ECDSAAlgorithm) Verify(token string) bool {
	signingInput, signature, err := Decompose(token)
	if err != nil {
		return false
	}
	if len(signature) != 2*e.keySize {
		return false
	}
	derSig, err := der.SignatureToDER(signature[:e.keySize], signature[e.keySize:])
	if err != nil {
		return false
	}
	material, err := pemkey.ECPublic(e.publicPEM)
	if err != nil {
		logger.KV(xlog.DEBUG, "alg", e.name, "reason", "public key extraction", "err", err.Error())
		return false
	}
	key, err := e.prov.ImportKey(KeySpec{Type: KeyTypeEC, Class: KeyClassPublic}, material)
	if err != nil {
		logger.KV(xlog.DEBUG, "alg", e.name, "reason", "public key import", "err", err.Error())
		return false
	}
	digest := e.prov.Digest(e.hash, signingInput)
	return e.prov.Verify(key, SignatureScheme{Hash: e.hash}, digest, derSig)
}
