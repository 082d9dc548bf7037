package api

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nucypher/go-porter/schema"
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

func testTreasureMapB64(t *testing.T) string {
	t.Helper()
	publisher := testKey(t, 1)
	hrac := umbral.DeriveHRAC(publisher, testKey(t, 2), []byte("label"))
	tmap, err := umbral.NewTreasureMap(hrac, publisher, 1, []umbral.Destination{
		{Address: common.HexToAddress(addrA), EncryptedKFrag: []byte("kfrag")},
		{Address: common.HexToAddress(addrB), EncryptedKFrag: []byte("kfrag")},
	})
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(tmap.Bytes())
}

func testRetrievalKitB64(t *testing.T) string {
	t.Helper()
	kit, err := umbral.NewRetrievalKit(bytes.Repeat([]byte{7}, umbral.CapsuleSize), nil)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(kit.Bytes())
}

func TestGetUrsulasSchemaRejectsIncludeExcludeOverlap(t *testing.T) {
	s := GetUrsulasSchema()

	_, err := s.Load(map[string]any{
		FieldQuantity:       5,
		FieldIncludeUrsulas: []any{addrA, addrB},
		FieldExcludeUrsulas: []any{addrB, addrC},
	})
	var combo *schema.InvalidArgumentCombo
	require.ErrorAs(t, err, &combo)
	assert.Contains(t, combo.Message, common.HexToAddress(addrB).Hex())
	assert.NotContains(t, combo.Message, common.HexToAddress(addrA).Hex())
}

func TestGetUrsulasSchemaEnforcesQuantityBound(t *testing.T) {
	s := GetUrsulasSchema()

	_, err := s.Load(map[string]any{
		FieldQuantity:       2,
		FieldIncludeUrsulas: []any{addrA, addrB, addrC},
	})
	var combo *schema.InvalidArgumentCombo
	require.ErrorAs(t, err, &combo)
	assert.Contains(t, combo.Message, "3")

	loaded, err := s.Load(map[string]any{
		FieldQuantity:       3,
		FieldIncludeUrsulas: []any{addrA, addrB, addrC},
	})
	require.NoError(t, err)

	quantity, include, exclude := GetUrsulasParams(loaded)
	assert.Equal(t, 3, quantity)
	assert.Len(t, include, 3)
	assert.Empty(t, exclude)
}

func TestGetUrsulasSchemaCollectsFieldErrors(t *testing.T) {
	s := GetUrsulasSchema()

	_, err := s.Load(map[string]any{
		FieldIncludeUrsulas: []any{"not an address"},
	})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldErrors, FieldQuantity)
	assert.Contains(t, verr.FieldErrors, FieldIncludeUrsulas)
}

func TestGetUrsulasCLIMatchesJSON(t *testing.T) {
	s := GetUrsulasSchema()

	var raw map[string]any
	app := &cli.App{
		Flags: s.CLIFlags(),
		Action: func(c *cli.Context) error {
			raw = s.RawFromCLI(c)
			return nil
		},
	}
	require.NoError(t, app.Run([]string{"porter",
		"-n", "3",
		"-i", addrA, "-i", addrB,
		"-e", addrC,
	}))

	fromCLI, err := s.Load(raw)
	require.NoError(t, err)

	fromJSON, err := s.Load(map[string]any{
		FieldQuantity:       float64(3),
		FieldIncludeUrsulas: []any{addrA, addrB},
		FieldExcludeUrsulas: []any{addrC},
	})
	require.NoError(t, err)

	assert.Equal(t, fromJSON.Values(), fromCLI.Values())
}

func TestRetrieveCFragsSchemaLoads(t *testing.T) {
	s := RetrieveCFragsSchema()

	loaded, err := s.Load(map[string]any{
		FieldTreasureMap:       testTreasureMapB64(t),
		FieldRetrievalKits:     []any{testRetrievalKitB64(t)},
		FieldAliceVerifyingKey: testKey(t, 1).Hex(),
		FieldBobEncryptingKey:  testKey(t, 2).Hex(),
		FieldBobVerifyingKey:   testKey(t, 3).Hex(),
		FieldContext:           map[string]any{"condition": "value"},
	})
	require.NoError(t, err)

	req := RetrievalRequestFromLoaded(loaded)
	require.NotNil(t, req.TreasureMap)
	require.Len(t, req.RetrievalKits, 1)
	assert.True(t, req.AliceVerifyingKey.Equal(testKey(t, 1)))
	assert.True(t, req.BobEncryptingKey.Equal(testKey(t, 2)))
	assert.True(t, req.BobVerifyingKey.Equal(testKey(t, 3)))
	assert.Equal(t, map[string]any{"condition": "value"}, req.Context)
}

func TestRetrieveCFragsSchemaNamesAllMissingFields(t *testing.T) {
	s := RetrieveCFragsSchema()

	_, err := s.Load(map[string]any{})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, name := range []string{
		FieldTreasureMap, FieldRetrievalKits,
		FieldAliceVerifyingKey, FieldBobEncryptingKey, FieldBobVerifyingKey,
	} {
		assert.Contains(t, verr.FieldErrors, name)
	}
	assert.NotContains(t, verr.FieldErrors, FieldContext, "context is optional")
}

func TestRetrieveCFragsSchemaRejectsEmptyKitList(t *testing.T) {
	s := RetrieveCFragsSchema()

	_, err := s.Load(map[string]any{
		FieldTreasureMap:       testTreasureMapB64(t),
		FieldRetrievalKits:     []any{},
		FieldAliceVerifyingKey: testKey(t, 1).Hex(),
		FieldBobEncryptingKey:  testKey(t, 2).Hex(),
		FieldBobVerifyingKey:   testKey(t, 3).Hex(),
	})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldErrors, FieldRetrievalKits)
}

func TestUrsulasDumpLoadRoundTrip(t *testing.T) {
	s := GetUrsulasSchema()

	ursulas := []UrsulaInfo{
		{ChecksumAddress: common.HexToAddress(addrA), URI: "https://node-a:9151", EncryptingKey: testKey(t, 1)},
		{ChecksumAddress: common.HexToAddress(addrB), URI: "https://node-b:9151", EncryptingKey: testKey(t, 2)},
	}

	dumped, err := s.Dump(map[string]any{FieldUrsulas: ursulas})
	require.NoError(t, err)

	parsed, err := ParseUrsulas(dumped[FieldUrsulas])
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	for i := range ursulas {
		assert.Equal(t, ursulas[i].ChecksumAddress, parsed[i].ChecksumAddress)
		assert.Equal(t, ursulas[i].URI, parsed[i].URI)
		assert.True(t, ursulas[i].EncryptingKey.Equal(parsed[i].EncryptingKey))
	}
}

func TestRetrievalOutcomesDumpLoadRoundTrip(t *testing.T) {
	s := RetrieveCFragsSchema()

	outcomes := []RetrievalOutcome{
		{
			CFrags: map[common.Address][]byte{
				common.HexToAddress(addrA): []byte("cfrag-bytes"),
			},
			Errors: map[common.Address]string{
				common.HexToAddress(addrB): "node timed out",
			},
		},
	}

	dumped, err := s.Dump(map[string]any{FieldRetrievalResults: outcomes})
	require.NoError(t, err)

	parsed, err := ParseRetrievalOutcomes(dumped[FieldRetrievalResults])
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, outcomes[0].CFrags, parsed[0].CFrags)
	assert.Equal(t, outcomes[0].Errors, parsed[0].Errors)
}
