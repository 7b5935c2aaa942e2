// Package pemkey extracts provider-ready key material from PEM-armored RSA
// and EC keys in PKCS#1, PKCS#8, SEC1 and X.509 SubjectPublicKeyInfo
// containers.
package pemkey

import (
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"

	"github.com/wisperia/jwt/internal/der"
)

// PEM begin labels after whitespace stripping.
const (
	labelECParameters = "BEGINECPARAMETERS"
	labelSEC1         = "BEGINECPRIVATEKEY"
	labelPKCS8        = "BEGINPRIVATEKEY"
)

// RSAPublic returns the X.509 SubjectPublicKeyInfo DER of an RSA public key
// PEM. The provider imports that structure as-is, so no unwrapping happens.
func RSAPublic(pemStr string) ([]byte, error) {
	_, raw, err := decode(pemStr)
	return raw, err
}

// RSAPrivate returns the bare PKCS#1 DER of an RSA private key PEM,
// stripping a PKCS#8 or X.509 wrapper when one is present.
func RSAPrivate(pemStr string) ([]byte, error) {
	_, raw, err := decode(pemStr)
	if err != nil {
		return nil, err
	}
	return removeX509Header(raw)
}

// ECPrivate returns the provider import layout of an EC private key PEM:
// the uncompressed public point followed by the private scalar. Both the
// SEC1 and PKCS#8 containers are supported, selected by the PEM label.
func ECPrivate(pemStr string) ([]byte, error) {
	label, raw, err := decode(pemStr)
	if err != nil {
		return nil, err
	}
	switch label {
	case labelSEC1:
		return ecPrivateSEC1(raw)
	case labelPKCS8:
		return ecPrivatePKCS8(raw)
	}
	return nil, errors.Errorf("unsupported EC private key label %q", label)
}

// ECPublic returns the provider import layout of an EC public key PEM: the
// uncompressed point held in the SubjectPublicKeyInfo BIT STRING.
func ECPublic(pemStr string) ([]byte, error) {
	_, raw, err := decode(pemStr)
	if err != nil {
		return nil, err
	}
	seq, err := der.Parse(raw)
	if err != nil {
		return nil, err
	}
	if seq.Kind != der.KindSequence || len(seq.Children) < 2 {
		return nil, errors.New("public key is not a two-element sequence")
	}
	point := trimLeadingZeros(seq.Children[1].Bytes)
	if len(point) == 0 {
		return nil, errors.New("public key element is empty")
	}
	return point, nil
}

// decode splits a PEM-armored string on its ----- boundaries and returns the
// begin label together with the DER bytes of the first key block. An
// EC curve-parameters preamble is skipped. Whitespace anywhere in the input
// is ignored, so single-line PEM strings decode too.
func decode(pemStr string) (string, []byte, error) {
	parts := strings.Split(stripWhitespace(pemStr), "-----")
	for len(parts) >= 5 && parts[1] == labelECParameters {
		parts = parts[4:]
	}
	if len(parts) < 5 {
		return "", nil, errors.New("malformed PEM: missing armor boundaries")
	}
	raw, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return "", nil, errors.WithMessage(err, "malformed PEM body")
	}
	return parts[1], raw, nil
}

// removeX509Header locates the PKCS#1 payload inside a DER RSA key buffer.
//
// A PKCS#8 RSA key with the standard rsaEncryption AlgorithmIdentifier always
// places the inner PKCS#1 SEQUENCE at offset 26: 4 bytes outer SEQUENCE
// header, 3 bytes version INTEGER, 15 bytes AlgorithmIdentifier and 4 bytes
// OCTET STRING header.
func removeX509Header(raw []byte) ([]byte, error) {
	if len(raw) > 26 && raw[26] == 0x30 {
		return raw[26:], nil
	}

	if len(raw) == 0 || raw[0] != 0x30 {
		return nil, errors.New("key does not start with a DER SEQUENCE")
	}
	rest, err := skipHeader(raw)
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 {
		return nil, errors.New("key sequence is empty")
	}
	if rest[0] == 0x02 {
		// Version INTEGER first: the buffer is already raw PKCS#1.
		return raw, nil
	}
	if rest[0] != 0x30 {
		return nil, errors.Errorf("unexpected tag 0x%02x inside key sequence", rest[0])
	}
	// AlgorithmIdentifier for rsaEncryption is a fixed 15-byte structure.
	if len(rest) < 15 {
		return nil, errors.New("truncated algorithm identifier")
	}
	rest = rest[15:]
	if len(rest) == 0 || rest[0] != 0x03 {
		return nil, errors.New("expected BIT STRING after algorithm identifier")
	}
	rest, err = skipHeader(rest)
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 {
		return nil, errors.New("empty BIT STRING in key")
	}
	// Skip the BIT STRING zero-padding byte.
	return rest[1:], nil
}

// skipHeader drops a DER tag and length field, returning the bytes that
// follow. Long-form lengths advance the start by the field size.
func skipHeader(b []byte) ([]byte, error) {
	if len(b) < 2 {
		return nil, errors.New("truncated DER header")
	}
	start := 2
	if b[1]&0x80 != 0 {
		start += int(b[1] & 0x7f)
	}
	if start > len(b) {
		return nil, errors.New("truncated DER header")
	}
	return b[start:], nil
}

// ecPrivateSEC1 extracts point and scalar from a SEC1 ECPrivateKey:
// SEQUENCE{version, privateKey OCTET STRING, [0] params, [1] publicKey}.
func ecPrivateSEC1(raw []byte) ([]byte, error) {
	seq, err := der.Parse(raw)
	if err != nil {
		return nil, err
	}
	if seq.Kind != der.KindSequence || len(seq.Children) < 4 {
		return nil, errors.New("SEC1 key is not a sequence of at least four elements")
	}
	scalar := seq.Children[1].Bytes
	if len(scalar) == 0 {
		return nil, errors.New("SEC1 key is missing the private scalar")
	}
	point := constructedBytes(seq.Children[3])
	if point == nil {
		return nil, errors.New("SEC1 key is missing the public key element")
	}
	return appendPointScalar(trimLeadingZeros(point), scalar), nil
}

// ecPrivatePKCS8 extracts point and scalar from a PKCS#8 container:
// SEQUENCE{version, AlgorithmIdentifier, privateKey OCTET STRING} where the
// OCTET STRING holds a SEC1-shaped sequence. The public key element sits at
// index 2 when the inner sequence omits curve parameters, index 3 otherwise.
func ecPrivatePKCS8(raw []byte) ([]byte, error) {
	outer, err := der.Parse(raw)
	if err != nil {
		return nil, err
	}
	if outer.Kind != der.KindSequence || len(outer.Children) < 3 {
		return nil, errors.New("PKCS#8 key is not a sequence of at least three elements")
	}
	inner, err := der.Parse(outer.Children[2].Bytes)
	if err != nil {
		return nil, err
	}
	if inner.Kind != der.KindSequence || len(inner.Children) < 3 {
		return nil, errors.New("PKCS#8 key payload is not a SEC1 sequence")
	}
	scalar := inner.Children[1].Bytes
	if len(scalar) == 0 {
		return nil, errors.New("PKCS#8 key is missing the private scalar")
	}
	point := taggedPublicPoint(inner.Children[2])
	if point == nil && len(inner.Children) > 3 {
		point = taggedPublicPoint(inner.Children[3])
	}
	if point == nil {
		return nil, errors.New("PKCS#8 key is missing the public key element")
	}
	return appendPointScalar(trimLeadingZeros(point), scalar), nil
}

// constructedBytes unwraps a context-constructed element and returns the raw
// bytes of the node inside it, or nil when the shape does not match.
func constructedBytes(el der.Element) []byte {
	if el.Kind != der.KindConstructed || el.Inner == nil || el.Inner.Kind != der.KindBytes {
		return nil
	}
	return el.Inner.Bytes
}

// taggedPublicPoint returns the bytes under a [1]-tagged constructed element,
// the position SEC1 reserves for the public key.
func taggedPublicPoint(el der.Element) []byte {
	if el.Tag != 1 {
		return nil
	}
	return constructedBytes(el)
}

// appendPointScalar builds the import layout in a fresh buffer so the result
// never aliases the parsed input.
func appendPointScalar(point, scalar []byte) []byte {
	out := make([]byte, 0, len(point)+len(scalar))
	out = append(out, point...)
	return append(out, scalar...)
}

// trimLeadingZeros drops the BIT STRING unused-bits byte (and any further
// zero padding) in front of an uncompressed EC point.
func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0x00 {
		b = b[1:]
	}
	return b
}

// stripWhitespace removes spaces, tabs and line breaks.
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
