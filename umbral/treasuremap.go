package umbral

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
)

// Treasure map wire format constants.
const (
	treasureMapMagic   = "TMap"
	treasureMapVersion = 1

	// maxKFragSize bounds a single encrypted key fragment payload.
	maxKFragSize = 1 << 16
)

// Destination assigns an encrypted key fragment to the Ursula that is
// allowed to use it.
type Destination struct {
	Address        common.Address
	EncryptedKFrag []byte
}

// TreasureMap is the unencrypted routing object for a policy: which
// Ursulas hold key fragments, how many of them must cooperate, and the
// publisher key the fragments were signed with.
type TreasureMap struct {
	Version   uint8
	HRAC      HRAC
	Publisher *PublicKey
	Threshold uint8

	// Destinations is ordered as produced by the policy publisher.
	Destinations []Destination
}

// TreasureMapFromBytes parses the binary treasure map format. The parse
// is strict: short input, an unknown version, a zero threshold, or
// trailing bytes after the last destination all fail.
func TreasureMapFromBytes(data []byte) (*TreasureMap, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, len(treasureMapMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != treasureMapMagic {
		return nil, errors.New("not a treasure map: bad magic")
	}

	var header struct {
		Version   uint8
		HRAC      [HRACSize]byte
		Publisher [PublicKeySize]byte
		Threshold uint8
		DestCount uint16
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("truncated treasure map header: %w", err)
	}

	if header.Version != treasureMapVersion {
		return nil, fmt.Errorf("unsupported treasure map version %d", header.Version)
	}
	if header.Threshold == 0 {
		return nil, errors.New("treasure map threshold must be positive")
	}
	if int(header.DestCount) < int(header.Threshold) {
		return nil, fmt.Errorf("treasure map has %d destinations, fewer than threshold %d", header.DestCount, header.Threshold)
	}

	publisher, err := PublicKeyFromBytes(header.Publisher[:])
	if err != nil {
		return nil, fmt.Errorf("invalid publisher verifying key: %w", err)
	}

	tmap := &TreasureMap{
		Version:   header.Version,
		HRAC:      HRAC(header.HRAC),
		Publisher: publisher,
		Threshold: header.Threshold,
	}

	for i := 0; i < int(header.DestCount); i++ {
		var addr common.Address
		if _, err := io.ReadFull(r, addr[:]); err != nil {
			return nil, fmt.Errorf("truncated destination %d address", i)
		}

		var kfragLen uint16
		if err := binary.Read(r, binary.BigEndian, &kfragLen); err != nil {
			return nil, fmt.Errorf("truncated destination %d length", i)
		}

		kfrag := make([]byte, kfragLen)
		if _, err := io.ReadFull(r, kfrag); err != nil {
			return nil, fmt.Errorf("truncated destination %d payload", i)
		}

		tmap.Destinations = append(tmap.Destinations, Destination{
			Address:        addr,
			EncryptedKFrag: kfrag,
		})
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after treasure map", r.Len())
	}

	return tmap, nil
}

// Bytes serializes the map back to its wire format.
func (t *TreasureMap) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(treasureMapMagic)
	buf.WriteByte(t.Version)
	buf.Write(t.HRAC[:])
	buf.Write(t.Publisher.Bytes())
	buf.WriteByte(t.Threshold)
	binary.Write(&buf, binary.BigEndian, uint16(len(t.Destinations)))
	for _, dest := range t.Destinations {
		buf.Write(dest.Address[:])
		binary.Write(&buf, binary.BigEndian, uint16(len(dest.EncryptedKFrag)))
		buf.Write(dest.EncryptedKFrag)
	}
	return buf.Bytes()
}

// NewTreasureMap assembles a map, validating the construction contract.
func NewTreasureMap(hrac HRAC, publisher *PublicKey, threshold uint8, destinations []Destination) (*TreasureMap, error) {
	if publisher == nil {
		return nil, errors.New("treasure map requires a publisher verifying key")
	}
	if threshold == 0 {
		return nil, errors.New("treasure map threshold must be positive")
	}
	if len(destinations) < int(threshold) {
		return nil, fmt.Errorf("treasure map needs at least %d destinations, got %d", threshold, len(destinations))
	}
	if len(destinations) > 0xffff {
		return nil, fmt.Errorf("too many destinations: %d", len(destinations))
	}
	for _, dest := range destinations {
		if len(dest.EncryptedKFrag) >= maxKFragSize {
			return nil, fmt.Errorf("encrypted kfrag for %s too large: %d bytes", dest.Address, len(dest.EncryptedKFrag))
		}
	}
	return &TreasureMap{
		Version:      treasureMapVersion,
		HRAC:         hrac,
		Publisher:    publisher,
		Threshold:    threshold,
		Destinations: destinations,
	}, nil
}
