package jwt

import (
	"strings"

	"github.com/goccy/go-json"
)

// Token is a decomposed compact token. Decoding performs no signature
// verification; pair it with Verify when authenticity matters.
type Token struct {
	// Raw is the compact serialization the token was decoded from.
	Raw string
	// Header is the decoded header JSON.
	Header []byte
	// Payload is the decoded claims JSON.
	Payload []byte
	// Signature is the decoded signature.
	Signature []byte
}

// Decode splits and Base64URL-decodes a compact token without verifying it.
func Decode(token string) (*Token, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, ErrInvalidToken
	}

	header, err := DecodeSegment(parts[0])
	if err != nil {
		return nil, err
	}
	payload, err := DecodeSegment(parts[1])
	if err != nil {
		return nil, err
	}
	signature, err := DecodeSegment(parts[2])
	if err != nil {
		return nil, err
	}

	return &Token{
		Raw:       token,
		Header:    header,
		Payload:   payload,
		Signature: signature,
	}, nil
}

// HeaderMap unmarshals the header into a generic map.
func (t *Token) HeaderMap() (map[string]any, error) {
	var header map[string]any
	if err := json.Unmarshal(t.Header, &header); err != nil {
		return nil, wrapErr(ErrInvalidToken, err)
	}
	return header, nil
}

// ClaimsMap unmarshals the payload into a generic map.
func (t *Token) ClaimsMap() (map[string]any, error) {
	var claims map[string]any
	if err := json.Unmarshal(t.Payload, &claims); err != nil {
		return nil, wrapErr(ErrInvalidToken, err)
	}
	return claims, nil
}

// Claims unmarshals the payload into dst.
func (t *Token) Claims(dst any) error {
	if err := json.Unmarshal(t.Payload, dst); err != nil {
		return wrapErr(ErrInvalidToken, err)
	}
	return nil
}

// Algorithm returns the "alg" header value, or the empty string when the
// header is unreadable or the member is absent.
func (t *Token) Algorithm() string {
	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(t.Header, &header); err != nil {
		return ""
	}
	return header.Alg
}

// DecodeClaims decodes a token without verification and unmarshals its
// claims into T.
func DecodeClaims[T any](token string) (T, error) {
	var claims T
	tok, err := Decode(token)
	if err != nil {
		return claims, err
	}
	if err := tok.Claims(&claims); err != nil {
		return claims, err
	}
	return claims, nil
}
