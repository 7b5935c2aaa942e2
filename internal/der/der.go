// Package der reads and writes the minimal subset of ASN.1 DER needed for
// key extraction and ECDSA signature re-encoding: SEQUENCE/SET, INTEGER and
// context-specific constructed elements, with everything else carried as
// opaque bytes.
package der

import (
	"github.com/pkg/errors"
)

// Kind identifies the shape of a parsed Element.
type Kind uint8

const (
	// KindSequence is a SEQUENCE or SET node holding ordered children.
	KindSequence Kind = iota
	// KindInteger is an INTEGER node holding the raw big-endian magnitude,
	// including any DER-mandated leading sign byte.
	KindInteger
	// KindBytes is any other primitive node carried as an opaque byte string.
	KindBytes
	// KindConstructed is a context-specific constructed node wrapping a
	// single inner element.
	KindConstructed
)

// Element is one node of a parsed DER structure. The tree is produced by a
// single forward pass over the input and owns its children by value, so no
// cycles can occur.
type Element struct {
	Kind     Kind
	Tag      int    // context tag number for KindConstructed
	Bytes    []byte // payload for KindInteger and KindBytes
	Children []Element
	Inner    *Element // wrapped element for KindConstructed
}

// Parse reads the first DER element in b, ignoring any trailing bytes.
func Parse(b []byte) (Element, error) {
	el, _, err := ReadElement(b)
	return el, err
}

// ReadElement parses a single DER element from the front of b and returns it
// together with the number of bytes consumed. Every read is bounds-checked:
// truncated or malformed input yields an error, never a panic.
func ReadElement(b []byte) (Element, int, error) {
	if len(b) == 0 {
		return Element{}, 0, errors.New("empty DER input")
	}
	tag := b[0]
	length, lengthSize, err := readLength(b[1:])
	if err != nil {
		return Element{}, 0, err
	}
	offset := 1 + lengthSize
	end := offset + length
	if end > len(b) {
		return Element{}, 0, errors.Errorf("DER element of length %d exceeds %d remaining bytes", length, len(b)-offset)
	}
	payload := b[offset:end]

	switch {
	case tag == 0x30 || tag == 0x31: // SEQUENCE, SET
		children, err := readChildren(payload)
		if err != nil {
			return Element{}, 0, err
		}
		return Element{Kind: KindSequence, Children: children}, end, nil
	case tag == 0x02: // INTEGER
		return Element{Kind: KindInteger, Bytes: payload}, end, nil
	case tag&0xe0 == 0xa0: // context-specific constructed
		inner, _, err := ReadElement(payload)
		if err != nil {
			return Element{}, 0, err
		}
		return Element{Kind: KindConstructed, Tag: int(tag & 0x1f), Inner: &inner}, end, nil
	default:
		// BIT STRING, OCTET STRING and everything else this system treats
		// as opaque bytes.
		return Element{Kind: KindBytes, Bytes: payload}, end, nil
	}
}

// readChildren parses consecutive elements until the payload is exhausted.
func readChildren(payload []byte) ([]Element, error) {
	var children []Element
	for offset := 0; offset < len(payload); {
		child, n, err := ReadElement(payload[offset:])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		offset += n
	}
	return children, nil
}

// readLength decodes a DER length field, returning the length and the number
// of bytes the field occupies.
func readLength(b []byte) (int, int, error) {
	if len(b) == 0 {
		return 0, 0, errors.New("missing DER length")
	}
	first := b[0]
	if first&0x80 == 0 {
		return int(first), 1, nil
	}
	count := int(first & 0x7f)
	if count == 0 {
		return 0, 0, errors.New("indefinite DER length not supported")
	}
	if count > 4 {
		return 0, 0, errors.Errorf("DER length field of %d bytes too large", count)
	}
	if len(b) < 1+count {
		return 0, 0, errors.New("truncated DER length")
	}
	length := 0
	for _, c := range b[1 : 1+count] {
		length = length<<8 | int(c)
	}
	if length < 0 {
		return 0, 0, errors.New("DER length overflows")
	}
	return length, 1 + count, nil
}

// Integer encodes a raw big-endian magnitude as a DER INTEGER TLV, prepending
// a zero byte when the top bit is set so the value keeps its positive
// interpretation.
func Integer(magnitude []byte) []byte {
	if len(magnitude) > 0 && magnitude[0]&0x80 != 0 {
		out := make([]byte, 0, len(magnitude)+3)
		out = append(out, 0x02, byte(len(magnitude)+1), 0x00)
		return append(out, magnitude...)
	}
	out := make([]byte, 0, len(magnitude)+2)
	out = append(out, 0x02, byte(len(magnitude)))
	return append(out, magnitude...)
}

// Sequence wraps an already-encoded payload in a DER SEQUENCE TLV, using the
// short length form for payloads up to 127 bytes and the two-byte long form
// beyond that.
func Sequence(payload []byte) []byte {
	if len(payload) <= 127 {
		out := make([]byte, 0, len(payload)+2)
		out = append(out, 0x30, byte(len(payload)))
		return append(out, payload...)
	}
	out := make([]byte, 0, len(payload)+3)
	out = append(out, 0x30, 0x81, byte(len(payload)))
	return append(out, payload...)
}
