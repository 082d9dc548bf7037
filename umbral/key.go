package umbral

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// PublicKeySize is the length of a compressed secp256k1 public key.
const PublicKeySize = 33

// PublicKey is a compressed secp256k1 public key as used for both
// verifying and encrypting keys throughout the protocol.
type PublicKey struct {
	raw [PublicKeySize]byte
	key *ecdsa.PublicKey
}

// PublicKeyFromBytes parses a 33-byte compressed secp256k1 point.
// It rejects inputs of the wrong length and points not on the curve.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeySize {
		return nil, fmt.Errorf("invalid public key length: expected %d bytes, got %d", PublicKeySize, len(b))
	}

	key, err := crypto.DecompressPubkey(b)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}

	pk := &PublicKey{key: key}
	copy(pk.raw[:], b)
	return pk, nil
}

// PublicKeyFromHex parses a hex-encoded compressed public key.
func PublicKeyFromHex(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid public key hex: %w", err)
	}
	return PublicKeyFromBytes(b)
}

// Bytes returns the compressed point.
func (k *PublicKey) Bytes() []byte {
	out := make([]byte, PublicKeySize)
	copy(out, k.raw[:])
	return out
}

// Hex returns the compressed point as a hex string with no 0x prefix.
func (k *PublicKey) Hex() string {
	return hex.EncodeToString(k.raw[:])
}

// ECDSA exposes the decompressed key for collaborators that verify
// signatures.
func (k *PublicKey) ECDSA() *ecdsa.PublicKey {
	return k.key
}

// Equal compares two public keys by their compressed representation.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.raw == other.raw
}

var errNilKey = errors.New("nil public key")

// MarshalText implements encoding.TextMarshaler so keys serialize as hex
// in JSON payloads.
func (k *PublicKey) MarshalText() ([]byte, error) {
	if k == nil {
		return nil, errNilKey
	}
	return []byte(k.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := PublicKeyFromHex(string(text))
	if err != nil {
		return err
	}
	*k = *parsed
	return nil
}
