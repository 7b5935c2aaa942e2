package jwt

import (
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// NumericDate is a JSON numeric date: seconds since the Unix epoch.
type NumericDate struct {
	time.Time
}

// NewNumericDate wraps t truncated to whole seconds.
func NewNumericDate(t time.Time) *NumericDate {
	return &NumericDate{t.Truncate(time.Second)}
}

// MarshalJSON serializes the date as integer Unix seconds.
func (d NumericDate) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, d.Unix(), 10), nil
}

// UnmarshalJSON accepts integer or fractional Unix seconds.
func (d *NumericDate) UnmarshalJSON(data []byte) error {
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return errors.WithMessage(err, "numeric date")
	}
	whole, frac := math.Modf(seconds)
	d.Time = time.Unix(int64(whole), int64(frac*1e9))
	return nil
}

// Audience is the "aud" claim. A bare JSON string and an array of strings
// both unmarshal into it; it always marshals as an array.
type Audience []string

// UnmarshalJSON implements the string-or-array form of the claim.
func (a *Audience) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = Audience{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.WithMessage(err, "audience")
	}
	*a = Audience(many)
	return nil
}

// RegisteredClaims are the claim names registered in RFC 7519 section 4.1.
// All members are optional. This package serializes claims; it does not
// judge them, so an expired "exp" still verifies.
type RegisteredClaims struct {
	Issuer    string       `json:"iss,omitempty"`
	Subject   string       `json:"sub,omitempty"`
	Audience  Audience     `json:"aud,omitempty"`
	ExpiresAt *NumericDate `json:"exp,omitempty"`
	NotBefore *NumericDate `json:"nbf,omitempty"`
	IssuedAt  *NumericDate `json:"iat,omitempty"`
	ID        string       `json:"jti,omitempty"`
}
