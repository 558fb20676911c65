// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deployments

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/crypto"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	vaultAddr = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	proxyAddr = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	implAddr  = common.HexToAddress("0x00000000000000000000000000000000000000a3")
	adminAddr = common.HexToAddress("0x00000000000000000000000000000000000000a4")
)

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("")
	require.NoError(t, err)
	require.Equal(t, KindTransparent, kind)
	kind, err = ParseKind("uups")
	require.NoError(t, err)
	require.Equal(t, KindUUPS, kind)
	_, err = ParseKind("direct")
	require.ErrorContains(t, err, "unsupported proxy kind")
	_, err = ParseKind("beacon")
	require.Error(t, err)
}

func TestManifestPersistence(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/work/deployments.json"

	m, err := Load(fs, path)
	require.NoError(t, err)
	require.Empty(t, m.Networks)

	chainID := big.NewInt(1337)
	hash := crypto.Keccak256Hash([]byte("BendToken"))
	n := m.Network(chainID)
	n.SetProxyAdmin(adminAddr)
	n.SetImplementation(hash, implAddr)
	n.Record(Deployment{Name: "Vault", Address: vaultAddr.Hex(), Kind: KindDirect, TxHash: "0x01"})
	n.Record(Deployment{
		Name:           "BendToken",
		Address:        proxyAddr.Hex(),
		Kind:           KindTransparent,
		Implementation: implAddr.Hex(),
		Admin:          adminAddr.Hex(),
		TxHash:         "0x02",
	})
	require.NoError(t, m.Save())

	reloaded, err := Load(fs, path)
	require.NoError(t, err)
	rn := reloaded.Network(chainID)
	require.Equal(t, uint64(1337), rn.ChainID)
	admin, ok := rn.ProxyAdminAddress()
	require.True(t, ok)
	require.Equal(t, adminAddr, admin)
	impl, ok := rn.Implementation(hash)
	require.True(t, ok)
	require.Equal(t, implAddr, impl)
	_, ok = rn.Implementation(crypto.Keccak256Hash([]byte("other")))
	require.False(t, ok)

	d, ok := rn.Latest("BendToken")
	require.True(t, ok)
	require.Equal(t, proxyAddr.Hex(), d.Address)
	require.False(t, d.Timestamp.IsZero())
	_, ok = rn.Latest("VeBend")
	require.False(t, ok)
}

func TestLatestReturnsMostRecent(t *testing.T) {
	n := NewInMemory().Network(big.NewInt(1))
	n.Record(Deployment{Name: "Vault", Address: "0x1"})
	n.Record(Deployment{Name: "Vault", Address: "0x2"})
	d, ok := n.Latest("Vault")
	require.True(t, ok)
	require.Equal(t, "0x2", d.Address)
	_, ok = n.ProxyAdminAddress()
	require.False(t, ok)
}

func TestInMemorySaveIsNoop(t *testing.T) {
	require.NoError(t, NewInMemory().Save())
}

func TestLoadCorrupted(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "m.json", []byte("[1,2"), 0o644))
	_, err := Load(fs, "m.json")
	require.ErrorContains(t, err, "failure loading deployments manifest")
}

func TestExport(t *testing.T) {
	m := NewInMemory()
	n := m.Network(big.NewInt(1337))
	n.SetProxyAdmin(adminAddr)
	n.Record(Deployment{Name: "Vault", Address: vaultAddr.Hex(), Kind: KindDirect})

	var buf bytes.Buffer
	require.NoError(t, m.Export(&buf, FormatJSON))
	var decoded map[string]map[string]Network
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "Vault", decoded["networks"]["1337"].Deployments[0].Name)

	buf.Reset()
	require.NoError(t, m.Export(&buf, FormatYAML))
	var decodedYAML map[string]map[string]Network
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decodedYAML))
	require.Equal(t, adminAddr.Hex(), decodedYAML["networks"]["1337"].ProxyAdmin)

	buf.Reset()
	require.NoError(t, m.Export(&buf, FormatTable))
	require.Contains(t, buf.String(), "DEPLOYMENTS ON CHAIN 1337")
	require.Contains(t, buf.String(), vaultAddr.Hex())

	require.ErrorContains(t, m.Export(&buf, "xml"), "unsupported format")
}
