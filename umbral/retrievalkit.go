package umbral

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
)

// CapsuleSize is the length of a serialized umbral capsule: two
// compressed curve points and a scalar.
const CapsuleSize = 2*PublicKeySize + 32

// RetrievalKit pairs a capsule with the checksum addresses of Ursulas a
// client already queried for it, so a retry does not hit the same nodes
// again.
type RetrievalKit struct {
	Capsule          []byte
	QueriedAddresses []common.Address
}

// RetrievalKitFromBytes parses the binary retrieval kit format: the
// capsule followed by a count-prefixed list of checksum addresses.
func RetrievalKitFromBytes(data []byte) (*RetrievalKit, error) {
	r := bytes.NewReader(data)

	capsule := make([]byte, CapsuleSize)
	if _, err := io.ReadFull(r, capsule); err != nil {
		return nil, errors.New("truncated retrieval kit: capsule too short")
	}

	var count uint16
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, errors.New("truncated retrieval kit: missing address count")
	}

	kit := &RetrievalKit{Capsule: capsule}
	seen := make(map[common.Address]struct{}, count)
	for i := 0; i < int(count); i++ {
		var addr common.Address
		if _, err := io.ReadFull(r, addr[:]); err != nil {
			return nil, fmt.Errorf("truncated retrieval kit: address %d", i)
		}
		if _, dup := seen[addr]; dup {
			return nil, fmt.Errorf("duplicate queried address %s", addr)
		}
		seen[addr] = struct{}{}
		kit.QueriedAddresses = append(kit.QueriedAddresses, addr)
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after retrieval kit", r.Len())
	}

	return kit, nil
}

// Bytes serializes the kit back to its wire format.
func (k *RetrievalKit) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(k.Capsule)
	binary.Write(&buf, binary.BigEndian, uint16(len(k.QueriedAddresses)))
	for _, addr := range k.QueriedAddresses {
		buf.Write(addr[:])
	}
	return buf.Bytes()
}

// NewRetrievalKit builds a kit from a capsule and the already-queried
// address set.
func NewRetrievalKit(capsule []byte, queried []common.Address) (*RetrievalKit, error) {
	if len(capsule) != CapsuleSize {
		return nil, fmt.Errorf("invalid capsule length: expected %d bytes, got %d", CapsuleSize, len(capsule))
	}
	if len(queried) > 0xffff {
		return nil, fmt.Errorf("too many queried addresses: %d", len(queried))
	}
	return &RetrievalKit{Capsule: capsule, QueriedAddresses: queried}, nil
}
