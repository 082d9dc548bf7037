package fields

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// BytesDecoder converts raw bytes into a domain object. Byte-oriented
// fields delegate to an inner BytesDecoder after stripping their own
// encoding layer, so decoders nest by composition.
type BytesDecoder interface {
	FromBytes(b []byte) (any, error)
}

// DecoderFunc adapts a plain function to the BytesDecoder interface.
type DecoderFunc func(b []byte) (any, error)

func (f DecoderFunc) FromBytes(b []byte) (any, error) {
	return f(b)
}

// BytesEncoder is implemented by domain objects that serialize
// themselves; Base64Bytes and Key use it on the encode path.
type BytesEncoder interface {
	Bytes() []byte
}

// Base64Bytes decodes a base64 string and hands the raw bytes to Inner.
// With a nil Inner the raw bytes themselves are the decoded value.
type Base64Bytes struct {
	Inner BytesDecoder
}

func (f Base64Bytes) Decode(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, decodeErrorf("expected a base64 string, got %T", raw)
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, decodeErrorf("invalid base64: %v", err)
	}

	if f.Inner == nil {
		return b, nil
	}
	v, err := f.Inner.FromBytes(b)
	if err != nil {
		return nil, decodeErrorf("%w", err)
	}
	return v, nil
}

func (f Base64Bytes) Encode(v any) (any, error) {
	b, err := rawBytes(v)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Key decodes a hex string into raw bytes, checks the expected byte
// length when Length is positive, and hands the bytes to Inner. With a
// nil Inner the raw bytes themselves are the decoded value.
type Key struct {
	Length int
	Inner  BytesDecoder
}

func (f Key) Decode(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, decodeErrorf("expected a hex string, got %T", raw)
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, decodeErrorf("invalid hex: %v", err)
	}
	if f.Length > 0 && len(b) != f.Length {
		return nil, decodeErrorf("expected %d bytes, got %d", f.Length, len(b))
	}

	if f.Inner == nil {
		return b, nil
	}
	v, err := f.Inner.FromBytes(b)
	if err != nil {
		return nil, decodeErrorf("%w", err)
	}
	return v, nil
}

func (f Key) Encode(v any) (any, error) {
	b, err := rawBytes(v)
	if err != nil {
		return nil, err
	}
	return hex.EncodeToString(b), nil
}

func rawBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case BytesEncoder:
		return b.Bytes(), nil
	default:
		return nil, fmt.Errorf("expected bytes or a Bytes() serializable value, got %T", v)
	}
}
