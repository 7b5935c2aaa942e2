package jwt

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidToken reports a malformed compact token: wrong segment
	// count, a segment that is not valid Base64URL, or undecodable JSON in
	// the header or payload.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidKey reports key material that does not match any supported
	// PEM or DER container shape, or that the provider refused to import.
	ErrInvalidKey = errors.New("invalid key")

	// ErrSignatureFailed reports a provider signing failure or an ECDSA
	// signature that cannot be re-encoded between raw and DER forms.
	ErrSignatureFailed = errors.New("signature failed")
)

// wrapErr annotates kind with the underlying cause so that errors.Is still
// matches the kind while the message keeps the detail.
func wrapErr(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return errors.WithMessage(kind, cause.Error())
}
