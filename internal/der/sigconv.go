package der

import (
	"github.com/pkg/errors"
)

// SignatureToDER re-encodes the two fixed-width halves of a raw ECDSA
// signature as the DER SEQUENCE{INTEGER r, INTEGER s} form cryptographic
// providers consume. The half-length must be 32, 48 or 66 bytes, matching
// the P-256, P-384 and P-521 curves.
func SignatureToDER(r, s []byte) ([]byte, error) {
	if len(r) != len(s) {
		return nil, errors.Errorf("signature halves differ in length: %d vs %d", len(r), len(s))
	}
	switch len(r) {
	case 32, 48, 66:
	default:
		return nil, errors.Errorf("unsupported signature half-length %d", len(r))
	}
	payload := Integer(trimLeadingZeros(r))
	payload = append(payload, Integer(trimLeadingZeros(s))...)
	return Sequence(payload), nil
}

// SignatureFromDER converts a DER-encoded ECDSA signature into the
// fixed-width raw r||s form carried in a token's signature segment. The
// half-width is chosen from the total DER length: below 96 bytes for 32,
// below 132 for 48, otherwise 66.
func SignatureFromDER(sig []byte) ([]byte, error) {
	el, err := Parse(sig)
	if err != nil {
		return nil, err
	}
	if el.Kind != KindSequence || len(el.Children) != 2 ||
		el.Children[0].Kind != KindInteger || el.Children[1].Kind != KindInteger {
		return nil, errors.New("ECDSA signature is not a two-integer sequence")
	}

	half := 66
	switch {
	case len(sig) < 96:
		half = 32
	case len(sig) < 132:
		half = 48
	}

	out := make([]byte, 2*half)
	fillHalf(out[:half], el.Children[0].Bytes)
	fillHalf(out[half:], el.Children[1].Bytes)
	return out, nil
}

// fillHalf right-aligns an integer magnitude into dst, dropping excess
// leading bytes (DER sign padding) and zero-filling on the left when the
// magnitude is short.
func fillHalf(dst, magnitude []byte) {
	if len(magnitude) > len(dst) {
		magnitude = magnitude[len(magnitude)-len(dst):]
	}
	copy(dst[len(dst)-len(magnitude):], magnitude)
}

// trimLeadingZeros undoes fixed-width zero padding, keeping one byte for the
// zero value. The Integer writer restores a single sign byte where DER
// requires one.
func trimLeadingZeros(b []byte) []byte {
	for len(b) > 1 && b[0] == 0x00 {
		b = b[1:]
	}
	return b
}
