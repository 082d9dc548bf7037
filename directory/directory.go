package directory

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/nucypher/go-porter/api"
	"github.com/nucypher/go-porter/umbral"
)

// NodeConfig is one directory entry as it appears in the YAML node
// file.
type NodeConfig struct {
	ChecksumAddress string `yaml:"checksum_address"`
	URI             string `yaml:"uri"`

	// EncryptingKey is the node's compressed public key as hex.
	EncryptingKey string `yaml:"encrypting_key"`
}

type nodeFile struct {
	Nodes []NodeConfig `yaml:"nodes"`
}

// Directory is a static Ursula directory. It implements
// api.UrsulaSampler with deterministic, directory-ordered sampling.
type Directory struct {
	nodes  []api.UrsulaInfo
	byAddr map[common.Address]api.UrsulaInfo
}

// New builds a directory from resolved node infos, rejecting duplicate
// addresses.
func New(nodes []api.UrsulaInfo) (*Directory, error) {
	byAddr := make(map[common.Address]api.UrsulaInfo, len(nodes))
	for _, node := range nodes {
		if _, dup := byAddr[node.ChecksumAddress]; dup {
			return nil, fmt.Errorf("duplicate node address %s", node.ChecksumAddress.Hex())
		}
		byAddr[node.ChecksumAddress] = node
	}
	return &Directory{nodes: nodes, byAddr: byAddr}, nil
}

// LoadFile reads and validates a YAML node file.
func LoadFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read node file: %w", err)
	}

	var parsed nodeFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("could not parse node file: %w", err)
	}

	nodes := make([]api.UrsulaInfo, 0, len(parsed.Nodes))
	for i, cfg := range parsed.Nodes {
		if !common.IsHexAddress(cfg.ChecksumAddress) {
			return nil, fmt.Errorf("node %d: invalid checksum address %q", i, cfg.ChecksumAddress)
		}
		if cfg.URI == "" {
			return nil, fmt.Errorf("node %d: missing uri", i)
		}
		key, err := umbral.PublicKeyFromHex(cfg.EncryptingKey)
		if err != nil {
			return nil, fmt.Errorf("node %d: invalid encrypting key: %w", i, err)
		}
		nodes = append(nodes, api.UrsulaInfo{
			ChecksumAddress: common.HexToAddress(cfg.ChecksumAddress),
			URI:             cfg.URI,
			EncryptingKey:   key,
		})
	}

	return New(nodes)
}

// Len returns the number of known nodes.
func (d *Directory) Len() int {
	return len(d.nodes)
}

// SampleUrsulas implements api.UrsulaSampler. Included nodes come
// first, then the remaining directory in declaration order, skipping
// excluded addresses, until quantity nodes are selected.
func (d *Directory) SampleUrsulas(ctx context.Context, quantity int, include, exclude []common.Address) ([]api.UrsulaInfo, error) {
	excluded := make(map[common.Address]struct{}, len(exclude))
	for _, addr := range exclude {
		excluded[addr] = struct{}{}
	}

	selected := make([]api.UrsulaInfo, 0, quantity)
	taken := make(map[common.Address]struct{}, quantity)

	for _, addr := range include {
		node, known := d.byAddr[addr]
		if !known {
			return nil, fmt.Errorf("requested node %s is not known", addr.Hex())
		}
		selected = append(selected, node)
		taken[addr] = struct{}{}
	}

	for _, node := range d.nodes {
		if len(selected) >= quantity {
			break
		}
		if _, already := taken[node.ChecksumAddress]; already {
			continue
		}
		if _, skip := excluded[node.ChecksumAddress]; skip {
			continue
		}
		selected = append(selected, node)
		taken[node.ChecksumAddress] = struct{}{}
	}

	if len(selected) < quantity {
		return nil, fmt.Errorf("insufficient nodes: %d requested, %d available", quantity, len(selected))
	}
	return selected, nil
}

var _ api.UrsulaSampler = (*Directory)(nil)
