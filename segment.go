package jwt

import (
	"sync"

	"github.com/cloudwego/base64x"
)

// segmentPool recycles scratch buffers for segment encoding and decoding.
var segmentPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 512)
	},
}

// EncodeSegment encodes raw bytes as unpadded Base64URL, the form every
// token segment uses on the wire.
func EncodeSegment(data []byte) string {
	buf := segmentPool.Get().([]byte) //nolint:errcheck // sync.Pool.Get never returns error
	origBuf := buf
	defer func() {
		segmentPool.Put(origBuf[:0]) //nolint:staticcheck // slice is converted to interface{} which is correct
	}()

	encodedLen := base64x.RawURLEncoding.EncodedLen(len(data))
	if cap(buf) < encodedLen {
		buf = make([]byte, encodedLen)
	}
	buf = buf[:encodedLen]

	base64x.RawURLEncoding.Encode(buf, data)
	return string(buf)
}

// DecodeSegment decodes an unpadded Base64URL segment. Padding characters,
// characters outside the URL-safe alphabet and impossible lengths fail with
// ErrInvalidToken.
func DecodeSegment(segment string) ([]byte, error) {
	buf := segmentPool.Get().([]byte) //nolint:errcheck // sync.Pool.Get never returns error
	origBuf := buf
	defer func() {
		segmentPool.Put(origBuf[:0]) //nolint:staticcheck // slice is converted to interface{} which is correct
	}()

	decodedLen := base64x.RawURLEncoding.DecodedLen(len(segment))
	if cap(buf) < decodedLen {
		buf = make([]byte, decodedLen)
	}
	buf = buf[:decodedLen]

	n, err := base64x.RawURLEncoding.Decode(buf, []byte(segment))
	if err != nil {
		return nil, wrapErr(ErrInvalidToken, err)
	}

	result := make([]byte, n)
	copy(result, buf[:n])
	return result, nil
}
