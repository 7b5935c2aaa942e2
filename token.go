package jwt

import (
	"strings"

	"github.com/effective-security/xlog"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

var logger = xlog.NewPackageLogger("github.com/wisperia/jwt", "jwt")

// headerField is an extra header member added by a SignOption. Fields keep
// their insertion order in the serialized header.
type headerField struct {
	key   string
	value any
}

type signOptions struct {
	omitType bool
	fields   []headerField
}

// SignOption customizes the header of a token produced by Sign.
type SignOption func(*signOptions)

// WithoutType omits the "typ":"JWT" header member.
func WithoutType() SignOption {
	return func(o *signOptions) {
		o.omitType = true
	}
}

// WithKeyID sets the "kid" header member.
func WithKeyID(kid string) SignOption {
	return WithHeaderField("kid", kid)
}

// WithContentType sets the "cty" header member.
func WithContentType(cty string) SignOption {
	return WithHeaderField("cty", cty)
}

// WithHeaderField adds an arbitrary header member. The "alg" and "typ" keys
// are managed by Sign itself and are silently ignored here.
func WithHeaderField(key string, value any) SignOption {
	return func(o *signOptions) {
		if key == "alg" || key == "typ" {
			return
		}
		o.fields = append(o.fields, headerField{key: key, value: value})
	}
}

func newSignOptions(opts []SignOption) *signOptions {
	o := &signOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Sign serializes claims into a compact token signed with the given
// algorithm. Claims of type []byte or json.RawMessage are used as the
// payload verbatim; anything else is JSON-marshaled. The header carries
// "typ" then "alg" then any option-supplied members, in that order.
func Sign(algorithm Algorithm, claims any, opts ...SignOption) (string, error) {
	if algorithm == nil {
		return "", errors.New("algorithm cannot be nil")
	}

	o := newSignOptions(opts)
	header, err := encodeHeader(algorithm.Name(), o)
	if err != nil {
		return "", err
	}
	payload, err := encodePayload(claims)
	if err != nil {
		return "", err
	}

	headerB64 := EncodeSegment(header)
	payloadB64 := EncodeSegment(payload)

	var builder strings.Builder
	builder.Grow(len(headerB64) + 1 + len(payloadB64) + 1 + 88)

	builder.WriteString(headerB64)
	builder.WriteByte('.')
	builder.WriteString(payloadB64)

	signature, err := algorithm.Sign([]byte(builder.String()))
	if err != nil {
		return "", err
	}

	builder.WriteByte('.')
	builder.WriteString(EncodeSegment(signature))

	return builder.String(), nil
}

// encodeHeader builds the header JSON by hand so member order is stable
// regardless of how the JSON library serializes maps.
func encodeHeader(name string, o *signOptions) ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, '{')
	if !o.omitType {
		buf = append(buf, `"typ":"JWT",`...)
	}
	buf = append(buf, `"alg":`...)
	nameJSON, err := json.Marshal(name)
	if err != nil {
		return nil, errors.WithMessage(err, "marshal algorithm name")
	}
	buf = append(buf, nameJSON...)
	for _, f := range o.fields {
		keyJSON, err := json.Marshal(f.key)
		if err != nil {
			return nil, errors.WithMessagef(err, "marshal header key %q", f.key)
		}
		valueJSON, err := json.Marshal(f.value)
		if err != nil {
			return nil, errors.WithMessagef(err, "marshal header field %q", f.key)
		}
		buf = append(buf, ',')
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		buf = append(buf, valueJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}

func encodePayload(claims any) ([]byte, error) {
	switch c := claims.(type) {
	case json.RawMessage:
		return c, nil
	case []byte:
		return c, nil
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return nil, errors.WithMessage(err, "marshal claims")
	}
	return payload, nil
}

// Verify reports whether the token is authentic under one of the allowed
// algorithms. The token's "alg" header selects the verifier by exact name
// match; a token naming an algorithm outside the allowed set is rejected
// without any cryptographic work. Verify never panics on malformed input.
func Verify(token string, allowed ...Algorithm) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return false
	}

	headerJSON, err := DecodeSegment(parts[0])
	if err != nil {
		return false
	}

	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return false
	}

	algorithm := algorithmByName(header.Alg, allowed)
	if algorithm == nil {
		logger.KV(xlog.DEBUG, "reason", "algorithm not allowed", "alg", header.Alg)
		return false
	}

	return algorithm.Verify(token)
}

// Decompose splits a compact token into its signing input (the still-encoded
// "header64.payload64") and the decoded signature bytes. All three segments
// must be present and non-empty.
func Decompose(token string) (signingInput, signature []byte, err error) {
	firstDot := strings.IndexByte(token, '.')
	if firstDot <= 0 {
		return nil, nil, ErrInvalidToken
	}

	secondDot := strings.IndexByte(token[firstDot+1:], '.')
	if secondDot == -1 {
		return nil, nil, ErrInvalidToken
	}
	secondDot += firstDot + 1

	if secondDot == firstDot+1 || secondDot >= len(token)-1 {
		return nil, nil, ErrInvalidToken
	}
	if strings.IndexByte(token[secondDot+1:], '.') != -1 {
		return nil, nil, ErrInvalidToken
	}

	signature, err = DecodeSegment(token[secondDot+1:])
	if err != nil {
		return nil, nil, err
	}

	return []byte(token[:secondDot]), signature, nil
}
