package fields

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// UrsulaChecksumAddress decodes a 0x-prefixed Ursula checksum address.
// Mixed-case input must carry a valid EIP-55 checksum; all-lowercase and
// all-uppercase input is accepted without one. The decoded value is a
// common.Address.
type UrsulaChecksumAddress struct{}

func (UrsulaChecksumAddress) Decode(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, decodeErrorf("expected a checksum address string, got %T", raw)
	}
	if !common.IsHexAddress(s) {
		return nil, decodeErrorf("invalid checksum address %q", s)
	}

	addr := common.HexToAddress(s)
	if hasMixedCase(s) && addr.Hex() != withPrefix(s) {
		return nil, decodeErrorf("address %q fails EIP-55 checksum", s)
	}
	return addr, nil
}

func (UrsulaChecksumAddress) Encode(v any) (any, error) {
	addr, ok := v.(common.Address)
	if !ok {
		return nil, fmt.Errorf("expected a checksum address, got %T", v)
	}
	return addr.Hex(), nil
}

func hasMixedCase(s string) bool {
	hexPart := strings.TrimPrefix(s, "0x")
	return hexPart != strings.ToLower(hexPart) && hexPart != strings.ToUpper(hexPart)
}

func withPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return "0x" + s[2:]
	}
	return "0x" + s
}
