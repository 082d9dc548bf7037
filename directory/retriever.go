package directory

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nucypher/go-porter/api"
)

// OfflineRetriever implements api.CFragRetriever without contacting any
// nodes: every destination of the treasure map that the kit has not
// already queried is reported as an error. It keeps the service wiring
// honest until a real re-encryption transport is plugged in.
type OfflineRetriever struct{}

// RetrieveCFrags implements api.CFragRetriever.
func (OfflineRetriever) RetrieveCFrags(ctx context.Context, req *api.RetrievalRequest) ([]api.RetrievalOutcome, error) {
	outcomes := make([]api.RetrievalOutcome, 0, len(req.RetrievalKits))
	for _, kit := range req.RetrievalKits {
		queried := make(map[common.Address]struct{}, len(kit.QueriedAddresses))
		for _, addr := range kit.QueriedAddresses {
			queried[addr] = struct{}{}
		}

		outcome := api.RetrievalOutcome{
			CFrags: make(map[common.Address][]byte),
			Errors: make(map[common.Address]string),
		}
		for _, dest := range req.TreasureMap.Destinations {
			if _, done := queried[dest.Address]; done {
				continue
			}
			outcome.Errors[dest.Address] = "re-encryption transport not configured"
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

var _ api.CFragRetriever = OfflineRetriever{}
