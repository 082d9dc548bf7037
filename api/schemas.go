package api

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/nucypher/go-porter/fields"
	"github.com/nucypher/go-porter/schema"
	"github.com/nucypher/go-porter/umbral"
)

// Canonical field names shared by the JSON payloads and the CLI
// bindings.
const (
	FieldQuantity       = "quantity"
	FieldIncludeUrsulas = "include_ursulas"
	FieldExcludeUrsulas = "exclude_ursulas"
	FieldUrsulas        = "ursulas"

	FieldTreasureMap       = "treasure_map"
	FieldRetrievalKits     = "retrieval_kits"
	FieldAliceVerifyingKey = "alice_verifying_key"
	FieldBobEncryptingKey  = "bob_encrypting_key"
	FieldBobVerifyingKey   = "bob_verifying_key"
	FieldContext           = "context"
	FieldRetrievalResults  = "retrieval_results"
)

// GetUrsulasSchema declares the parameters of the /get_ursulas
// endpoint: how many nodes to sample, which to force in, which to keep
// out, and the sampled node list on the way back out.
func GetUrsulasSchema() *schema.Schema {
	return schema.MustNew(
		[]schema.FieldSpec{
			{
				Name:     FieldQuantity,
				Field:    fields.PositiveInteger{},
				Required: true,
				Mode:     schema.InputOnly,
				CLI: &schema.CLIOption{
					Flag:    "quantity",
					Aliases: []string{"n"},
					Usage:   "Total number of Ursulas needed",
					Type:    schema.OptionInt,
				},
			},
			{
				Name:  FieldIncludeUrsulas,
				Field: fields.StringList{Inner: fields.UrsulaChecksumAddress{}},
				Mode:  schema.InputOnly,
				CLI: &schema.CLIOption{
					Flag:       "include-ursula",
					Aliases:    []string{"i"},
					Usage:      "Ursula checksum address to include in sample",
					Repeatable: true,
				},
			},
			{
				Name:  FieldExcludeUrsulas,
				Field: fields.StringList{Inner: fields.UrsulaChecksumAddress{}},
				Mode:  schema.InputOnly,
				CLI: &schema.CLIOption{
					Flag:       "exclude-ursula",
					Aliases:    []string{"e"},
					Usage:      "Ursula checksum address to exclude from sample",
					Repeatable: true,
				},
			},
			{
				Name:  FieldUrsulas,
				Field: ursulaInfoList{},
				Mode:  schema.OutputOnly,
			},
		},
		schema.ListWithinQuantity(FieldIncludeUrsulas, FieldQuantity),
		schema.DisjointLists(FieldIncludeUrsulas, FieldExcludeUrsulas),
	)
}

// RetrieveCFragsSchema declares the parameters of the /retrieve_cfrags
// endpoint.
func RetrieveCFragsSchema() *schema.Schema {
	return schema.MustNew(
		[]schema.FieldSpec{
			{
				Name:     FieldTreasureMap,
				Field:    fields.TreasureMap(),
				Required: true,
				Mode:     schema.InputOnly,
				CLI: &schema.CLIOption{
					Flag:    "treasure-map",
					Aliases: []string{"t"},
					Usage:   "Unencrypted treasure map for retrieval",
				},
			},
			{
				Name:     FieldRetrievalKits,
				Field:    fields.StringList{Inner: fields.RetrievalKit()},
				Required: true,
				Mode:     schema.InputOnly,
				CLI: &schema.CLIOption{
					Flag:       "retrieval-kits",
					Aliases:    []string{"r"},
					Usage:      "Retrieval kits for re-encryption",
					Repeatable: true,
				},
			},
			{
				Name:     FieldAliceVerifyingKey,
				Field:    fields.UmbralKey(),
				Required: true,
				Mode:     schema.InputOnly,
				CLI: &schema.CLIOption{
					Flag:    "alice-verifying-key",
					Aliases: []string{"avk"},
					Usage:   "Alice's verifying key as a hexadecimal string",
				},
			},
			{
				Name:     FieldBobEncryptingKey,
				Field:    fields.UmbralKey(),
				Required: true,
				Mode:     schema.InputOnly,
				CLI: &schema.CLIOption{
					Flag:    "bob-encrypting-key",
					Aliases: []string{"bek"},
					Usage:   "Bob's encrypting key as a hexadecimal string",
				},
			},
			{
				Name:     FieldBobVerifyingKey,
				Field:    fields.UmbralKey(),
				Required: true,
				Mode:     schema.InputOnly,
				CLI: &schema.CLIOption{
					Flag:    "bob-verifying-key",
					Aliases: []string{"bvk"},
					Usage:   "Bob's verifying key as a hexadecimal string",
				},
			},
			{
				Name:  FieldContext,
				Field: fields.JSONObject{},
				Mode:  schema.InputOnly,
				CLI: &schema.CLIOption{
					Flag:    "context",
					Aliases: []string{"ctx"},
					Usage:   "Context data for retrieval conditions, as a JSON object",
				},
			},
			{
				Name:  FieldRetrievalResults,
				Field: retrievalOutcomeList{},
				Mode:  schema.OutputOnly,
			},
		},
	)
}

// GetUrsulasParams extracts the typed sampling parameters from a loaded
// /get_ursulas request.
func GetUrsulasParams(r *schema.LoadedRequest) (quantity int, include, exclude []common.Address) {
	return r.Int(FieldQuantity), addressList(r, FieldIncludeUrsulas), addressList(r, FieldExcludeUrsulas)
}

// RetrievalRequestFromLoaded converts a loaded /retrieve_cfrags request
// into its typed form.
func RetrievalRequestFromLoaded(r *schema.LoadedRequest) *RetrievalRequest {
	req := &RetrievalRequest{}
	if v, ok := r.Get(FieldTreasureMap); ok {
		req.TreasureMap = v.(*umbral.TreasureMap)
	}
	for _, item := range r.List(FieldRetrievalKits) {
		req.RetrievalKits = append(req.RetrievalKits, item.(*umbral.RetrievalKit))
	}
	if v, ok := r.Get(FieldAliceVerifyingKey); ok {
		req.AliceVerifyingKey = v.(*umbral.PublicKey)
	}
	if v, ok := r.Get(FieldBobEncryptingKey); ok {
		req.BobEncryptingKey = v.(*umbral.PublicKey)
	}
	if v, ok := r.Get(FieldBobVerifyingKey); ok {
		req.BobVerifyingKey = v.(*umbral.PublicKey)
	}
	if v, ok := r.Get(FieldContext); ok {
		req.Context = v.(map[string]any)
	}
	return req
}

func addressList(r *schema.LoadedRequest, name string) []common.Address {
	items := r.List(name)
	if len(items) == 0 {
		return nil
	}
	addrs := make([]common.Address, 0, len(items))
	for _, item := range items {
		addrs = append(addrs, item.(common.Address))
	}
	return addrs
}
