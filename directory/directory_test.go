package directory

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nucypher/go-porter/api"
	"github.com/nucypher/go-porter/umbral"
)

const (
	addrA = "0x1111111111111111111111111111111111111111"
	addrB = "0x2222222222222222222222222222222222222222"
	addrC = "0x3333333333333333333333333333333333333333"
)

func testKey(t *testing.T, seed byte) *umbral.PublicKey {
	t.Helper()
	priv, err := crypto.ToECDSA(bytes.Repeat([]byte{seed}, 32))
	require.NoError(t, err)
	key, err := umbral.PublicKeyFromBytes(crypto.CompressPubkey(&priv.PublicKey))
	require.NoError(t, err)
	return key
}

func testKeyHex(t *testing.T, seed byte) string {
	t.Helper()
	priv, err := crypto.ToECDSA(bytes.Repeat([]byte{seed}, 32))
	require.NoError(t, err)
	return hex.EncodeToString(crypto.CompressPubkey(&priv.PublicKey))
}

func testDirectory(t *testing.T) *Directory {
	t.Helper()
	dir, err := New([]api.UrsulaInfo{
		{ChecksumAddress: common.HexToAddress(addrA), URI: "https://node-a:9151", EncryptingKey: testKey(t, 1)},
		{ChecksumAddress: common.HexToAddress(addrB), URI: "https://node-b:9151", EncryptingKey: testKey(t, 2)},
		{ChecksumAddress: common.HexToAddress(addrC), URI: "https://node-c:9151", EncryptingKey: testKey(t, 3)},
	})
	require.NoError(t, err)
	return dir
}

func TestNewRejectsDuplicateAddresses(t *testing.T) {
	info := api.UrsulaInfo{ChecksumAddress: common.HexToAddress(addrA), URI: "https://node:9151", EncryptingKey: testKey(t, 1)}
	_, err := New([]api.UrsulaInfo{info, info})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadFile(t *testing.T) {
	content := fmt.Sprintf(`nodes:
  - checksum_address: %q
    uri: https://node-a:9151
    encrypting_key: %q
  - checksum_address: %q
    uri: https://node-b:9151
    encrypting_key: %q
`, addrA, testKeyHex(t, 1), addrB, testKeyHex(t, 2))

	path := filepath.Join(t.TempDir(), "nodes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	dir, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	selected, err := dir.SampleUrsulas(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, common.HexToAddress(addrA), selected[0].ChecksumAddress)
	assert.Equal(t, testKeyHex(t, 1), selected[0].EncryptingKey.Hex())
}

func TestLoadFileRejectsBadEntries(t *testing.T) {
	writeNodeFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "nodes.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeNodeFile(t, "nodes: [not yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeNodeFile(t, fmt.Sprintf(`nodes:
  - checksum_address: "not-an-address"
    uri: https://node:9151
    encrypting_key: %q
`, testKeyHex(t, 1))))
	assert.Error(t, err)

	_, err = LoadFile(writeNodeFile(t, fmt.Sprintf(`nodes:
  - checksum_address: %q
    uri: ""
    encrypting_key: %q
`, addrA, testKeyHex(t, 1))))
	assert.Error(t, err)

	_, err = LoadFile(writeNodeFile(t, fmt.Sprintf(`nodes:
  - checksum_address: %q
    uri: https://node:9151
    encrypting_key: "00"
`, addrA)))
	assert.Error(t, err)
}

func TestSampleUrsulasFollowsDirectoryOrder(t *testing.T) {
	dir := testDirectory(t)

	selected, err := dir.SampleUrsulas(context.Background(), 2, nil, nil)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, common.HexToAddress(addrA), selected[0].ChecksumAddress)
	assert.Equal(t, common.HexToAddress(addrB), selected[1].ChecksumAddress)
}

func TestSampleUrsulasIncludedNodesComeFirst(t *testing.T) {
	dir := testDirectory(t)

	selected, err := dir.SampleUrsulas(context.Background(), 2, []common.Address{common.HexToAddress(addrC)}, nil)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, common.HexToAddress(addrC), selected[0].ChecksumAddress)
	assert.Equal(t, common.HexToAddress(addrA), selected[1].ChecksumAddress)
}

func TestSampleUrsulasRejectsUnknownIncludes(t *testing.T) {
	dir := testDirectory(t)

	_, err := dir.SampleUrsulas(context.Background(), 1, []common.Address{
		common.HexToAddress("0x9999999999999999999999999999999999999999"),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not known")
}

func TestSampleUrsulasSkipsExcluded(t *testing.T) {
	dir := testDirectory(t)

	selected, err := dir.SampleUrsulas(context.Background(), 2, nil, []common.Address{common.HexToAddress(addrA)})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, common.HexToAddress(addrB), selected[0].ChecksumAddress)
	assert.Equal(t, common.HexToAddress(addrC), selected[1].ChecksumAddress)
}

func TestSampleUrsulasInsufficientNodes(t *testing.T) {
	dir := testDirectory(t)

	_, err := dir.SampleUrsulas(context.Background(), 3, nil, []common.Address{common.HexToAddress(addrA)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient nodes")
}

func TestOfflineRetrieverReportsUnqueriedDestinations(t *testing.T) {
	publisher := testKey(t, 1)
	hrac := umbral.DeriveHRAC(publisher, testKey(t, 2), []byte("label"))
	tmap, err := umbral.NewTreasureMap(hrac, publisher, 1, []umbral.Destination{
		{Address: common.HexToAddress(addrA), EncryptedKFrag: []byte("kfrag")},
		{Address: common.HexToAddress(addrB), EncryptedKFrag: []byte("kfrag")},
	})
	require.NoError(t, err)

	queried, err := umbral.NewRetrievalKit(bytes.Repeat([]byte{7}, umbral.CapsuleSize), []common.Address{
		common.HexToAddress(addrA),
	})
	require.NoError(t, err)
	fresh, err := umbral.NewRetrievalKit(bytes.Repeat([]byte{8}, umbral.CapsuleSize), nil)
	require.NoError(t, err)

	outcomes, err := OfflineRetriever{}.RetrieveCFrags(context.Background(), &api.RetrievalRequest{
		TreasureMap:   tmap,
		RetrievalKits: []*umbral.RetrievalKit{queried, fresh},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.NotContains(t, outcomes[0].Errors, common.HexToAddress(addrA), "already queried nodes are skipped")
	assert.Contains(t, outcomes[0].Errors, common.HexToAddress(addrB))
	assert.Len(t, outcomes[1].Errors, 2)
}
