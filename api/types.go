package api

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nucypher/go-porter/umbral"
)

// UrsulaInfo describes one sampled Ursula node: how to address it on
// chain, how to reach it, and the key to encrypt to it with.
type UrsulaInfo struct {
	ChecksumAddress common.Address
	URI             string
	EncryptingKey   *umbral.PublicKey
}

// RetrievalRequest is the decoded form of one /retrieve_cfrags call.
type RetrievalRequest struct {
	TreasureMap       *umbral.TreasureMap
	RetrievalKits     []*umbral.RetrievalKit
	AliceVerifyingKey *umbral.PublicKey
	BobEncryptingKey  *umbral.PublicKey
	BobVerifyingKey   *umbral.PublicKey

	// Context carries optional condition data passed through to the
	// nodes, unvalidated beyond being a JSON object.
	Context map[string]any
}

// RetrievalOutcome is the per-retrieval-kit result: the capsule
// fragments obtained from nodes that answered and the errors from nodes
// that did not.
type RetrievalOutcome struct {
	CFrags map[common.Address][]byte
	Errors map[common.Address]string
}

// UrsulaSampler selects nodes for a policy. Implementations decide how
// node health and ordering factor in; the schema layer has already
// guaranteed include/exclude are disjoint and include fits within
// quantity.
type UrsulaSampler interface {
	SampleUrsulas(ctx context.Context, quantity int, include, exclude []common.Address) ([]UrsulaInfo, error)
}

// CFragRetriever performs the re-encryption round trips against the
// treasure map's destinations. It returns one outcome per retrieval
// kit, in order.
type CFragRetriever interface {
	RetrieveCFrags(ctx context.Context, req *RetrievalRequest) ([]RetrievalOutcome, error)
}

// ErrorResponse is the structured JSON error body returned for
// validation failures and collaborator errors.
type ErrorResponse struct {
	Error string `json:"error"`

	// Fields maps field names to messages for per-field validation
	// failures.
	Fields map[string]string `json:"fields,omitempty"`
}
