package jwt

import (
	"crypto"

	"github.com/effective-security/xlog"

	"github.com/wisperia/jwt/internal/pemkey"
)

// RSAAlgorithm implements the RS (RSASSA-PKCS1-v1_5) and PS (RSASSA-PSS)
// signature families. Key material stays PEM-armored and is parsed on every
// call.
type RSAAlgorithm struct {
	name       string
	hash       crypto.Hash
	padding    Padding
	privatePEM string
	publicPEM  string
	prov       Provider
}

// NewRS256 creates an RSA PKCS#1 v1.5 SHA-256 algorithm. Either PEM may be
// empty: signing needs the private key, verification the public key.
func NewRS256(privateKeyPEM, publicKeyPEM string, opts ...Option) Algorithm {
	return newRSA("RS256", crypto.SHA256, PaddingPKCS1v15, privateKeyPEM, publicKeyPEM, opts)
}

// NewRS384 creates an RSA PKCS#1 v1.5 SHA-384 algorithm.
func NewRS384(privateKeyPEM, publicKeyPEM string, opts ...Option) Algorithm {
	return newRSA("RS384", crypto.SHA384, PaddingPKCS1v15, privateKeyPEM, publicKeyPEM, opts)
}

// NewRS512 creates an RSA PKCS#1 v1.5 SHA-512 algorithm.
func NewRS512(privateKeyPEM, publicKeyPEM string, opts ...Option) Algorithm {
	return newRSA("RS512", crypto.SHA512, PaddingPKCS1v15, privateKeyPEM, publicKeyPEM, opts)
}

// NewPS256 creates an RSA-PSS SHA-256 algorithm with the salt length fixed
// to the hash size.
func NewPS256(privateKeyPEM, publicKeyPEM string, opts ...Option) Algorithm {
	return newRSA("PS256", crypto.SHA256, PaddingPSS, privateKeyPEM, publicKeyPEM, opts)
}

// NewPS384 creates an RSA-PSS SHA-384 algorithm.
func NewPS384(privateKeyPEM, publicKeyPEM string, opts ...Option) Algorithm {
	return newRSA("PS384", crypto.SHA384, PaddingPSS, privateKeyPEM, publicKeyPEM, opts)
}

// NewPS512 creates an RSA-PSS SHA-512 algorithm.
func NewPS512(privateKeyPEM, publicKeyPEM string, opts ...Option) Algorithm {
	return newRSA("PS512", crypto.SHA512, PaddingPSS, privateKeyPEM, publicKeyPEM, opts)
}

func newRSA(name string, hash crypto.Hash, padding Padding, privatePEM, publicPEM string, opts []Option) Algorithm {
	o := newOptions(opts)
	return &RSAAlgorithm{
		name:       name,
		hash:       hash,
		padding:    padding,
		privatePEM: privatePEM,
		publicPEM:  publicPEM,
		prov:       o.provider,
	}
}

// Name returns the algorithm name.
func (r *RSAAlgorithm) Name() string {
	return r.name
}

// Sign extracts the private key from its PEM armor and signs the input with
// the configured padding and hash.
func (r *RSAAlgorithm) Sign(signingInput []byte) ([]byte, error) {
	material, err := pemkey.RSAPrivate(r.privatePEM)
	if err != nil {
		return nil, wrapErr(ErrSignatureFailed, wrapErr(ErrInvalidKey, err))
	}
	key, err := r.prov.ImportKey(KeySpec{Type: KeyTypeRSA, Class: KeyClassPrivate}, material)
	if err != nil {
		return nil, wrapErr(ErrSignatureFailed, wrapErr(ErrInvalidKey, err))
	}
	signature, err := r.prov.Sign(key, SignatureScheme{Hash: r.hash, Padding: r.padding}, signingInput)
	if err != nil {
		return nil, wrapErr(ErrSignatureFailed, err)
	}
	return signature, nil
}

// Verify checks the token's signature against the public key. The signature
// is taken from the token as-is; RSA signatures need no re-encoding. Any
// failure yields false.
func (r *RSAAlgorithm) Verify(token string) bool {
	signingInput, signature, err := Decompose(token)
	if err != nil {
		return false
	}
	material, err := pemkey.RSAPublic(r.publicPEM)
	if err != nil {
		logger.KV(xlog.DEBUG, "alg", r.name, "reason", "public key extraction", "err", err.Error())
		return false
	}
	key, err := r.prov.ImportKey(KeySpec{Type: KeyTypeRSA, Class: KeyClassPublic}, material)
	if err != nil {
		logger.KV(xlog.DEBUG, "alg", r.name, "reason", "public key import", "err", err.Error())
		return false
	}
	return r.prov.Verify(key, SignatureScheme{Hash: r.hash, Padding: r.padding}, signingInput, signature)
}
