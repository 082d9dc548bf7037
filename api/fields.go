package api

import (
	"encoding/base64"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nucypher/go-porter/fields"
	"github.com/nucypher/go-porter/umbral"
)

// ursulaInfoList is the output field for the sampled node list: a
// sequence of UrsulaInfo encoded as flat JSON objects with hex keys.
// Decode is the exact inverse so responses round-trip.
type ursulaInfoList struct{}

func (ursulaInfoList) Encode(v any) (any, error) {
	infos, ok := v.([]UrsulaInfo)
	if !ok {
		return nil, fmt.Errorf("expected []UrsulaInfo, got %T", v)
	}
	out := make([]any, 0, len(infos))
	for _, info := range infos {
		out = append(out, map[string]any{
			"checksum_address": info.ChecksumAddress.Hex(),
			"uri":              info.URI,
			"encrypting_key":   info.EncryptingKey.Hex(),
		})
	}
	return out, nil
}

func (ursulaInfoList) Decode(raw any) (any, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of ursula objects, got %T", raw)
	}
	infos := make([]UrsulaInfo, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ursula %d: expected an object, got %T", i, item)
		}
		addrRaw, _ := obj["checksum_address"].(string)
		if !common.IsHexAddress(addrRaw) {
			return nil, fmt.Errorf("ursula %d: invalid checksum address %q", i, addrRaw)
		}
		uri, _ := obj["uri"].(string)
		keyRaw, _ := obj["encrypting_key"].(string)
		key, err := umbral.PublicKeyFromHex(keyRaw)
		if err != nil {
			return nil, fmt.Errorf("ursula %d: %w", i, err)
		}
		infos = append(infos, UrsulaInfo{
			ChecksumAddress: common.HexToAddress(addrRaw),
			URI:             uri,
			EncryptingKey:   key,
		})
	}
	return infos, nil
}

// retrievalOutcomeList is the output field for /retrieve_cfrags
// results: one object per retrieval kit with cfrags and errors keyed by
// node address.
type retrievalOutcomeList struct{}

func (retrievalOutcomeList) Encode(v any) (any, error) {
	outcomes, ok := v.([]RetrievalOutcome)
	if !ok {
		return nil, fmt.Errorf("expected []RetrievalOutcome, got %T", v)
	}
	out := make([]any, 0, len(outcomes))
	for _, outcome := range outcomes {
		cfrags := make(map[string]any, len(outcome.CFrags))
		for addr, cfrag := range outcome.CFrags {
			cfrags[addr.Hex()] = base64.StdEncoding.EncodeToString(cfrag)
		}
		errs := make(map[string]any, len(outcome.Errors))
		for addr, msg := range outcome.Errors {
			errs[addr.Hex()] = msg
		}
		out = append(out, map[string]any{
			"cfrags": cfrags,
			"errors": errs,
		})
	}
	return out, nil
}

func (retrievalOutcomeList) Decode(raw any) (any, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of outcome objects, got %T", raw)
	}
	outcomes := make([]RetrievalOutcome, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("outcome %d: expected an object, got %T", i, item)
		}
		outcome := RetrievalOutcome{
			CFrags: make(map[common.Address][]byte),
			Errors: make(map[common.Address]string),
		}
		if cfrags, ok := obj["cfrags"].(map[string]any); ok {
			for addrRaw, encoded := range cfrags {
				if !common.IsHexAddress(addrRaw) {
					return nil, fmt.Errorf("outcome %d: invalid address %q", i, addrRaw)
				}
				encodedStr, _ := encoded.(string)
				cfrag, err := base64.StdEncoding.DecodeString(encodedStr)
				if err != nil {
					return nil, fmt.Errorf("outcome %d: invalid cfrag for %s: %w", i, addrRaw, err)
				}
				outcome.CFrags[common.HexToAddress(addrRaw)] = cfrag
			}
		}
		if errs, ok := obj["errors"].(map[string]any); ok {
			for addrRaw, msg := range errs {
				if !common.IsHexAddress(addrRaw) {
					return nil, fmt.Errorf("outcome %d: invalid address %q", i, addrRaw)
				}
				msgStr, _ := msg.(string)
				outcome.Errors[common.HexToAddress(addrRaw)] = msgStr
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

var _ fields.Field = ursulaInfoList{}
var _ fields.Field = retrievalOutcomeList{}

// ParseUrsulas decodes the JSON-safe node list of a /get_ursulas
// response body back into typed form. Used by the HTTP client.
func ParseUrsulas(raw any) ([]UrsulaInfo, error) {
	v, err := ursulaInfoList{}.Decode(raw)
	if err != nil {
		return nil, err
	}
	return v.([]UrsulaInfo), nil
}

// ParseRetrievalOutcomes decodes the JSON-safe outcome list of a
// /retrieve_cfrags response body back into typed form.
func ParseRetrievalOutcomes(raw any) ([]RetrievalOutcome, error) {
	v, err := retrievalOutcomeList{}.Decode(raw)
	if err != nil {
		return nil, err
	}
	return v.([]RetrievalOutcome), nil
}
