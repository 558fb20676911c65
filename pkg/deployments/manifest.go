// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deployments

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ava-labs/bend-deployer/pkg/utils"
	"github.com/ava-labs/libevm/common"
	"github.com/spf13/afero"
)

type Kind string

const (
	KindDirect      Kind = "direct"
	KindTransparent Kind = "transparent"
	KindUUPS        Kind = "uups"
)

// ParseKind accepts the proxy kinds a deployment can be made behind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindTransparent, KindUUPS:
		return Kind(s), nil
	case "":
		return KindTransparent, nil
	default:
		return "", fmt.Errorf("unsupported proxy kind %q: expected %s or %s", s, KindTransparent, KindUUPS)
	}
}

type Deployment struct {
	Name           string    `json:"name" yaml:"name"`
	Address        string    `json:"address" yaml:"address"`
	Kind           Kind      `json:"kind" yaml:"kind"`
	Implementation string    `json:"implementation,omitempty" yaml:"implementation,omitempty"`
	Admin          string    `json:"admin,omitempty" yaml:"admin,omitempty"`
	TxHash         string    `json:"txHash" yaml:"txHash"`
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
}

// Network holds what was deployed on a single chain
type Network struct {
	ChainID         uint64            `json:"chainId" yaml:"chainId"`
	ProxyAdmin      string            `json:"proxyAdmin,omitempty" yaml:"proxyAdmin,omitempty"`
	Implementations map[string]string `json:"implementations,omitempty" yaml:"implementations,omitempty"`
	Deployments     []Deployment      `json:"deployments" yaml:"deployments"`
}

// Manifest is the set of deployments per chain, persisted as json.
// A manifest without path lives only in memory.
type Manifest struct {
	fs       afero.Fs
	path     string
	Networks map[string]*Network `json:"networks" yaml:"networks"`
}

func NewInMemory() *Manifest {
	return &Manifest{
		Networks: map[string]*Network{},
	}
}

// Load reads the manifest at [path], returning an empty one if the file does not exist yet
func Load(fs afero.Fs, path string) (*Manifest, error) {
	m := NewInMemory()
	m.fs = fs
	m.path = path
	if !utils.FileExists(fs, path) {
		return m, nil
	}
	if err := utils.ReadJSON(fs, path, m); err != nil {
		return nil, fmt.Errorf("failure loading deployments manifest: %w", err)
	}
	if m.Networks == nil {
		m.Networks = map[string]*Network{}
	}
	return m, nil
}

func (m *Manifest) Path() string {
	return m.path
}

func (m *Manifest) Save() error {
	if m.fs == nil || m.path == "" {
		return nil
	}
	if err := utils.WriteJSON(m.fs, m.path, m); err != nil {
		return fmt.Errorf("failure saving deployments manifest %s: %w", m.path, err)
	}
	return nil
}

// Network returns the entry for [chainID], creating it if needed
func (m *Manifest) Network(chainID *big.Int) *Network {
	key := chainID.String()
	n, ok := m.Networks[key]
	if !ok {
		n = &Network{
			ChainID:         chainID.Uint64(),
			Implementations: map[string]string{},
		}
		m.Networks[key] = n
	}
	if n.Implementations == nil {
		n.Implementations = map[string]string{}
	}
	return n
}

func (n *Network) ProxyAdminAddress() (common.Address, bool) {
	if n.ProxyAdmin == "" {
		return common.Address{}, false
	}
	return common.HexToAddress(n.ProxyAdmin), true
}

func (n *Network) SetProxyAdmin(addr common.Address) {
	n.ProxyAdmin = addr.Hex()
}

// Implementation looks up a previous implementation deployment by its bytecode hash
func (n *Network) Implementation(bytecodeHash common.Hash) (common.Address, bool) {
	addr, ok := n.Implementations[bytecodeHash.Hex()]
	if !ok {
		return common.Address{}, false
	}
	return common.HexToAddress(addr), true
}

func (n *Network) SetImplementation(bytecodeHash common.Hash, addr common.Address) {
	n.Implementations[bytecodeHash.Hex()] = addr.Hex()
}

// Record appends [d] to the deployment history
func (n *Network) Record(d Deployment) {
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now().UTC()
	}
	n.Deployments = append(n.Deployments, d)
}

// Latest returns the most recent deployment named [name]
func (n *Network) Latest(name string) (Deployment, bool) {
	for i := len(n.Deployments) - 1; i >= 0; i-- {
		if n.Deployments[i].Name == name {
			return n.Deployments[i], true
		}
	}
	return Deployment{}, false
}
