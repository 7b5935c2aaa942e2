package jwt

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"math/big"

	// Register the SHA-2 family for crypto.Hash.New.
	_ "crypto/sha256"
	_ "crypto/sha512"

	"github.com/pkg/errors"
)

// KeyType identifies the key family a provider imports.
type KeyType int

// Key families.
const (
	KeyTypeRSA KeyType = iota
	KeyTypeEC
)

// KeyClass distinguishes private from public key material.
type KeyClass int

// Key classes.
const (
	KeyClassPrivate KeyClass = iota
	KeyClassPublic
)

// KeySpec tells a provider how to interpret imported key material.
type KeySpec struct {
	Type  KeyType
	Class KeyClass
}

// KeyHandle is an opaque provider-owned key reference returned by ImportKey
// and passed back to Sign and Verify.
type KeyHandle any

// Padding selects the RSA signature padding scheme.
type Padding int

// RSA padding schemes.
const (
	PaddingPKCS1v15 Padding = iota
	PaddingPSS
)

// SignatureScheme identifies the signing primitive for a provider call.
// RSA schemes receive the message and hash it internally; EC schemes receive
// a precomputed digest and exchange DER-encoded signatures.
type SignatureScheme struct {
	Hash    crypto.Hash
	Padding Padding // RSA only
}

// Provider supplies the cryptographic primitives the algorithms delegate to.
// Implementations must be reentrant: algorithm values are shared freely
// between goroutines.
type Provider interface {
	// HMAC computes the keyed MAC of data with the given hash.
	HMAC(h crypto.Hash, key, data []byte) []byte
	// Digest hashes data with h.
	Digest(h crypto.Hash, data []byte) []byte
	// ImportKey turns extracted key material into a handle for Sign and
	// Verify. Material that does not fit the given KeySpec is rejected
	// with an error.
	ImportKey(spec KeySpec, material []byte) (KeyHandle, error)
	// Sign signs data under the given scheme.
	Sign(key KeyHandle, scheme SignatureScheme, data []byte) ([]byte, error)
	// Verify reports whether signature is valid for data under the given
	// scheme.
	Verify(key KeyHandle, scheme SignatureScheme, data, signature []byte) bool
}

// SystemProvider returns the Provider backed by the Go standard crypto
// libraries. It is stateless and safe to share.
func SystemProvider() Provider {
	return systemProvider{}
}

type systemProvider struct{}

func (systemProvider) HMAC(h crypto.Hash, key, data []byte) []byte {
	mac := hmac.New(h.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func (systemProvider) Digest(h crypto.Hash, data []byte) []byte {
	d := h.New()
	d.Write(data)
	return d.Sum(nil)
}

func (systemProvider) ImportKey(spec KeySpec, material []byte) (KeyHandle, error) {
	switch spec.Type {
	case KeyTypeRSA:
		if spec.Class == KeyClassPrivate {
			key, err := x509.ParsePKCS1PrivateKey(material)
			if err != nil {
				return nil, errors.WithMessage(err, "import RSA private key")
			}
			return key, nil
		}
		pub, err := x509.ParsePKIXPublicKey(material)
		if err != nil {
			return nil, errors.WithMessage(err, "import RSA public key")
		}
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, errors.Errorf("not an RSA public key: %T", pub)
		}
		return rsaPub, nil
	case KeyTypeEC:
		if spec.Class == KeyClassPrivate {
			return importECPrivate(material)
		}
		return importECPublic(material)
	}
	return nil, errors.Errorf("unsupported key type %d", spec.Type)
}

func (p systemProvider) Sign(key KeyHandle, scheme SignatureScheme, data []byte) ([]byte, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		digest := p.Digest(scheme.Hash, data)
		if scheme.Padding == PaddingPSS {
			return rsa.SignPSS(rand.Reader, k, scheme.Hash, digest, pssOptions(scheme.Hash))
		}
		return rsa.SignPKCS1v15(rand.Reader, k, scheme.Hash, digest)
	case *ecdsa.PrivateKey:
		// data is the digest; the signature comes back DER-encoded.
		return ecdsa.SignASN1(rand.Reader, k, data)
	}
	return nil, errors.Errorf("cannot sign with key of type %T", key)
}

func (p systemProvider) Verify(key KeyHandle, scheme SignatureScheme, data, signature []byte) bool {
	switch k := key.(type) {
	case *rsa.PublicKey:
		digest := p.Digest(scheme.Hash, data)
		if scheme.Padding == PaddingPSS {
			return rsa.VerifyPSS(k, scheme.Hash, digest, signature, pssOptions(scheme.Hash)) == nil
		}
		return rsa.VerifyPKCS1v15(k, scheme.Hash, digest, signature) == nil
	case *ecdsa.PublicKey:
		return ecdsa.VerifyASN1(k, data, signature)
	}
	return false
}

// pssOptions fixes the salt length to the hash size, as RFC 7518 requires
// for the PS algorithms.
func pssOptions(h crypto.Hash) *rsa.PSSOptions {
	return &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: h}
}

// importECPrivate rebuilds an ECDSA private key from the uncompressed public
// point followed by the private scalar. The curve is inferred from the total
// material length.
func importECPrivate(material []byte) (KeyHandle, error) {
	var curve elliptic.Curve
	var pointLen int
	switch len(material) {
	case 97: // 65-byte point + 32-byte scalar
		curve, pointLen = elliptic.P256(), 65
	case 145: // 97-byte point + 48-byte scalar
		curve, pointLen = elliptic.P384(), 97
	case 199: // 133-byte point + 66-byte scalar
		curve, pointLen = elliptic.P521(), 133
	default:
		return nil, errors.Errorf("EC private key material of unsupported length %d", len(material))
	}
	x, y := elliptic.Unmarshal(curve, material[:pointLen])
	if x == nil {
		return nil, errors.New("EC public point is not on the curve")
	}
	return &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
		D:         new(big.Int).SetBytes(material[pointLen:]),
	}, nil
}

// importECPublic rebuilds an ECDSA public key from an uncompressed point,
// inferring the curve from the point length.
func importECPublic(material []byte) (KeyHandle, error) {
	var curve elliptic.Curve
	switch len(material) {
	case 65:
		curve = elliptic.P256()
	case 97:
		curve = elliptic.P384()
	case 133:
		curve = elliptic.P521()
	default:
		return nil, errors.Errorf("EC public key material of unsupported length %d", len(material))
	}
	x, y := elliptic.Unmarshal(curve, material)
	if x == nil {
		return nil, errors.New("EC public point is not on the curve")
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}
