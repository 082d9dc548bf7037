package umbral

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T, seed byte) *PublicKey {
	t.Helper()
	priv, err := crypto.ToECDSA(bytes.Repeat([]byte{seed}, 32))
	require.NoError(t, err)

	key, err := PublicKeyFromBytes(crypto.CompressPubkey(&priv.PublicKey))
	require.NoError(t, err)
	return key
}

func TestPublicKeyRoundTrip(t *testing.T) {
	key := testKey(t, 1)

	parsed, err := PublicKeyFromHex(key.Hex())
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))
	assert.Equal(t, key.Bytes(), parsed.Bytes())
}

func TestPublicKeyRejectsBadInput(t *testing.T) {
	_, err := PublicKeyFromBytes(make([]byte, 32))
	assert.Error(t, err)

	_, err = PublicKeyFromBytes(make([]byte, PublicKeySize))
	assert.Error(t, err, "all-zero bytes are not a curve point")

	_, err = PublicKeyFromHex("zz")
	assert.Error(t, err)
}

func TestDeriveHRACIsStable(t *testing.T) {
	publisher := testKey(t, 1)
	recipient := testKey(t, 2)

	a := DeriveHRAC(publisher, recipient, []byte("policy-label"))
	b := DeriveHRAC(publisher, recipient, []byte("policy-label"))
	c := DeriveHRAC(publisher, recipient, []byte("other-label"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func testTreasureMap(t *testing.T) *TreasureMap {
	t.Helper()
	publisher := testKey(t, 1)
	hrac := DeriveHRAC(publisher, testKey(t, 2), []byte("label"))

	tmap, err := NewTreasureMap(hrac, publisher, 2, []Destination{
		{Address: common.HexToAddress("0x1111111111111111111111111111111111111111"), EncryptedKFrag: []byte("kfrag-one")},
		{Address: common.HexToAddress("0x2222222222222222222222222222222222222222"), EncryptedKFrag: []byte("kfrag-two")},
		{Address: common.HexToAddress("0x3333333333333333333333333333333333333333"), EncryptedKFrag: []byte("kfrag-three")},
	})
	require.NoError(t, err)
	return tmap
}

func TestTreasureMapRoundTrip(t *testing.T) {
	tmap := testTreasureMap(t)

	parsed, err := TreasureMapFromBytes(tmap.Bytes())
	require.NoError(t, err)

	assert.Equal(t, tmap.HRAC, parsed.HRAC)
	assert.True(t, tmap.Publisher.Equal(parsed.Publisher))
	assert.Equal(t, tmap.Threshold, parsed.Threshold)
	require.Len(t, parsed.Destinations, len(tmap.Destinations))
	for i, dest := range tmap.Destinations {
		assert.Equal(t, dest.Address, parsed.Destinations[i].Address)
		assert.Equal(t, dest.EncryptedKFrag, parsed.Destinations[i].EncryptedKFrag)
	}
}

func TestTreasureMapRejectsMalformedInput(t *testing.T) {
	tmap := testTreasureMap(t)
	raw := tmap.Bytes()

	_, err := TreasureMapFromBytes(nil)
	assert.Error(t, err)

	_, err = TreasureMapFromBytes([]byte("not a treasure map"))
	assert.Error(t, err)

	// Truncated at every prefix length
	for cut := 1; cut < len(raw); cut += 7 {
		_, err := TreasureMapFromBytes(raw[:cut])
		assert.Error(t, err, "prefix of %d bytes should not parse", cut)
	}

	// Trailing garbage
	_, err = TreasureMapFromBytes(append(append([]byte{}, raw...), 0xff))
	assert.Error(t, err)
}

func TestNewTreasureMapValidatesContract(t *testing.T) {
	publisher := testKey(t, 1)
	dests := testTreasureMap(t).Destinations

	_, err := NewTreasureMap(HRAC{}, nil, 1, dests)
	assert.Error(t, err)

	_, err = NewTreasureMap(HRAC{}, publisher, 0, dests)
	assert.Error(t, err)

	_, err = NewTreasureMap(HRAC{}, publisher, 5, dests)
	assert.Error(t, err, "threshold above destination count")
}

func TestRetrievalKitRoundTrip(t *testing.T) {
	capsule := bytes.Repeat([]byte{7}, CapsuleSize)
	queried := []common.Address{
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		common.HexToAddress("0x2222222222222222222222222222222222222222"),
	}

	kit, err := NewRetrievalKit(capsule, queried)
	require.NoError(t, err)

	parsed, err := RetrievalKitFromBytes(kit.Bytes())
	require.NoError(t, err)
	assert.Equal(t, kit.Capsule, parsed.Capsule)
	assert.Equal(t, kit.QueriedAddresses, parsed.QueriedAddresses)
}

func TestRetrievalKitRejectsMalformedInput(t *testing.T) {
	_, err := RetrievalKitFromBytes(make([]byte, CapsuleSize-1))
	assert.Error(t, err)

	capsule := bytes.Repeat([]byte{7}, CapsuleSize)
	kit, err := NewRetrievalKit(capsule, nil)
	require.NoError(t, err)

	raw := kit.Bytes()
	_, err = RetrievalKitFromBytes(raw[:len(raw)-1])
	assert.Error(t, err)

	_, err = RetrievalKitFromBytes(append(append([]byte{}, raw...), 0x00))
	assert.Error(t, err)

	// Duplicate queried address
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	dup, err := NewRetrievalKit(capsule, []common.Address{addr, addr})
	require.NoError(t, err)
	_, err = RetrievalKitFromBytes(dup.Bytes())
	assert.Error(t, err)
}

func TestHRACFromBytes(t *testing.T) {
	_, err := HRACFromBytes(make([]byte, 15))
	assert.Error(t, err)

	hrac, err := HRACFromBytes(bytes.Repeat([]byte{3}, HRACSize))
	require.NoError(t, err)
	assert.Len(t, hrac.String(), HRACSize*2)
}
