package der

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/asn1"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSequenceOfIntegers(t *testing.T) {
	raw := []byte{0x30, 0x06, 0x02, 0x01, 0x05, 0x02, 0x01, 0x07}

	el, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, KindSequence, el.Kind)
	require.Len(t, el.Children, 2)
	assert.Equal(t, KindInteger, el.Children[0].Kind)
	assert.Equal(t, []byte{0x05}, el.Children[0].Bytes)
	assert.Equal(t, KindInteger, el.Children[1].Kind)
	assert.Equal(t, []byte{0x07}, el.Children[1].Bytes)
}

func TestParseContextConstructed(t *testing.T) {
	// [1] wrapping a BIT STRING with one pad-free byte.
	raw := []byte{0xa1, 0x05, 0x03, 0x03, 0x00, 0x04, 0x01}

	el, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, KindConstructed, el.Kind)
	assert.Equal(t, 1, el.Tag)
	require.NotNil(t, el.Inner)
	assert.Equal(t, KindBytes, el.Inner.Kind)
	assert.Equal(t, []byte{0x00, 0x04, 0x01}, el.Inner.Bytes)
}

func TestParseECPrivateKeyStructure(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	raw, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	el, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, KindSequence, el.Kind)
	require.Len(t, el.Children, 4)

	assert.Equal(t, KindInteger, el.Children[0].Kind)
	assert.Equal(t, []byte{0x01}, el.Children[0].Bytes)

	scalar := make([]byte, 32)
	key.D.FillBytes(scalar)
	assert.Equal(t, KindBytes, el.Children[1].Kind)
	assert.Equal(t, scalar, el.Children[1].Bytes)

	require.Equal(t, KindConstructed, el.Children[2].Kind)
	assert.Equal(t, 0, el.Children[2].Tag)

	require.Equal(t, KindConstructed, el.Children[3].Kind)
	assert.Equal(t, 1, el.Children[3].Tag)
	bits := el.Children[3].Inner
	require.NotNil(t, bits)
	require.Equal(t, KindBytes, bits.Kind)
	point := elliptic.Marshal(elliptic.P256(), key.X, key.Y)
	assert.Equal(t, append([]byte{0x00}, point...), bits.Bytes)
}

func TestParseLongFormLength(t *testing.T) {
	child := append([]byte{0x04, 0x7e}, make([]byte, 126)...)
	raw := append([]byte{0x30, 0x81, 0x80}, child...)

	el, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, KindSequence, el.Kind)
	require.Len(t, el.Children, 1)
	assert.Equal(t, KindBytes, el.Children[0].Kind)
	assert.Len(t, el.Children[0].Bytes, 126)
}

func TestParseIgnoresTrailingBytes(t *testing.T) {
	raw := []byte{0x02, 0x01, 0x2a, 0xff, 0xff}

	el, n, err := ReadElement(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, KindInteger, el.Kind)
	assert.Equal(t, []byte{0x2a}, el.Bytes)

	el, err = Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x2a}, el.Bytes)
}

func TestParseTruncatedPrefixes(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	raw, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	// The outer length covers the whole buffer, so every strict prefix
	// must fail cleanly.
	for i := 0; i < len(raw); i++ {
		_, err := Parse(raw[:i])
		assert.Error(t, err, "prefix of %d bytes", i)
	}
}

func TestParseRejectsMalformedLengths(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty", input: nil},
		{name: "missing length", input: []byte{0x02}},
		{name: "indefinite length", input: []byte{0x30, 0x80}},
		{name: "five length bytes", input: []byte{0x30, 0x85, 0x01, 0x01, 0x01, 0x01, 0x01}},
		{name: "truncated long form", input: []byte{0x30, 0x82, 0x01}},
		{name: "length beyond input", input: []byte{0x02, 0x84, 0x7f, 0xff, 0xff, 0xff}},
		{name: "max length beyond input", input: []byte{0x02, 0x84, 0xff, 0xff, 0xff, 0xff}},
		{name: "short form beyond input", input: []byte{0x30, 0x10, 0x02, 0x01}},
		{name: "truncated child", input: []byte{0x30, 0x04, 0x02, 0x05, 0x01, 0x02}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestIntegerWriter(t *testing.T) {
	tests := []struct {
		name      string
		magnitude []byte
		want      []byte
	}{
		{name: "small", magnitude: []byte{0x05}, want: []byte{0x02, 0x01, 0x05}},
		{name: "zero", magnitude: []byte{0x00}, want: []byte{0x02, 0x01, 0x00}},
		{name: "high bit padded", magnitude: []byte{0x80}, want: []byte{0x02, 0x02, 0x00, 0x80}},
		{name: "multi byte", magnitude: []byte{0x12, 0x34}, want: []byte{0x02, 0x02, 0x12, 0x34}},
		{name: "multi byte high bit", magnitude: []byte{0xff, 0x01}, want: []byte{0x02, 0x03, 0x00, 0xff, 0x01}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Integer(tt.magnitude))
		})
	}
}

func TestSequenceWriter(t *testing.T) {
	short := Sequence([]byte{0x02, 0x01, 0x05})
	assert.Equal(t, []byte{0x30, 0x03, 0x02, 0x01, 0x05}, short)

	atBoundary := Sequence(make([]byte, 127))
	assert.Equal(t, []byte{0x30, 0x7f}, atBoundary[:2])
	assert.Len(t, atBoundary, 129)

	longForm := Sequence(make([]byte, 128))
	assert.Equal(t, []byte{0x30, 0x81, 0x80}, longForm[:3])
	assert.Len(t, longForm, 131)
}

func TestWriterMatchesEncodingASN1(t *testing.T) {
	r := new(big.Int).SetBytes([]byte{0x8f, 0x42, 0x17})
	s := big.NewInt(0x1234)

	want, err := asn1.Marshal(struct{ R, S *big.Int }{r, s})
	require.NoError(t, err)

	payload := append(Integer(r.Bytes()), Integer(s.Bytes())...)
	got := Sequence(payload)
	assert.Equal(t, want, got)

	el, err := Parse(got)
	require.NoError(t, err)
	require.Len(t, el.Children, 2)
	assert.Equal(t, []byte{0x00, 0x8f, 0x42, 0x17}, el.Children[0].Bytes)
	assert.Equal(t, []byte{0x12, 0x34}, el.Children[1].Bytes)
}
