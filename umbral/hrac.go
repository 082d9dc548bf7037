package umbral

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// HRACSize is the length of a hierarchical resource access code.
const HRACSize = 16

// HRAC identifies a policy: the keccak256 digest of the publisher's
// verifying key, the recipient's verifying key and the policy label,
// truncated to 16 bytes.
type HRAC [HRACSize]byte

// DeriveHRAC computes the policy identifier for a publisher/recipient
// pair and a label.
func DeriveHRAC(publisher, recipient *PublicKey, label []byte) HRAC {
	h := sha3.NewLegacyKeccak256()
	h.Write(publisher.Bytes())
	h.Write(recipient.Bytes())
	h.Write(label)

	var hrac HRAC
	copy(hrac[:], h.Sum(nil)[:HRACSize])
	return hrac
}

// HRACFromBytes converts a 16-byte slice to an HRAC.
func HRACFromBytes(b []byte) (HRAC, error) {
	if len(b) != HRACSize {
		return HRAC{}, fmt.Errorf("invalid HRAC length: expected %d bytes, got %d", HRACSize, len(b))
	}
	var hrac HRAC
	copy(hrac[:], b)
	return hrac, nil
}

// String returns the hex representation of the HRAC.
func (h HRAC) String() string {
	return hex.EncodeToString(h[:])
}
