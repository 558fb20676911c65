// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/common/hexutil"
	"github.com/ava-labs/libevm/core/types"
	"github.com/ava-labs/libevm/crypto"
	"github.com/spf13/afero"
)

const ArtifactsDir = "/project/artifacts"

// UpgradedEventTopic is keccak256("Upgraded(address)")
var UpgradedEventTopic = crypto.Keccak256Hash([]byte("Upgraded(address)"))

type testArtifact struct {
	source string
	name   string
	abi    string
}

const upgradedEventABI = `{"anonymous":false,"inputs":[{"indexed":true,"internalType":"address","name":"implementation","type":"address"}],"name":"Upgraded","type":"event"}`

func initializerABI(inputs ...string) string {
	return fmt.Sprintf(`[{"inputs":[%s],"name":"initialize","outputs":[],"stateMutability":"nonpayable","type":"function"}]`, joinInputs(inputs))
}

func constructorABI(extra string, inputs ...string) string {
	entries := fmt.Sprintf(`{"inputs":[%s],"stateMutability":"nonpayable","type":"constructor"}`, joinInputs(inputs))
	if extra != "" {
		entries += "," + extra
	}
	return "[" + entries + "]"
}

func joinInputs(inputs []string) string {
	s := ""
	for i, in := range inputs {
		if i > 0 {
			s += ","
		}
		s += in
	}
	return s
}

func input(name string, typ string) string {
	return fmt.Sprintf(`{"internalType":"%s","name":"%s","type":"%s"}`, typ, name, typ)
}

const vaultABI = `[
  {"inputs":[],"stateMutability":"nonpayable","type":"constructor"},
  {"inputs":[{"internalType":"address","name":"token","type":"address"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"approve","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

const bendTokenABI = `[
  {"inputs":[{"internalType":"address","name":"_vault","type":"address"},{"internalType":"uint256","name":"_amount","type":"uint256"}],"name":"initialize","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[],"name":"totalSupply","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

var testArtifacts = []testArtifact{
	{"contracts/Vault.sol", "Vault", vaultABI},
	{"contracts/BendToken.sol", "BendToken", bendTokenABI},
	{"contracts/test/BendTokenTester.sol", "BendTokenTester", bendTokenABI},
	{
		"contracts/incentives/BendProtocolIncentivesController.sol", "BendProtocolIncentivesController",
		initializerABI(input("_rewardToken", "address"), input("_rewardsVault", "address"), input("_distributionDuration", "uint256")),
	},
	{"contracts/vote/VeBend.sol", "VeBend", initializerABI(input("_tokenAddr", "address"))},
	{
		"contracts/test/FeeDistributorTester.sol", "FeeDistributorTester",
		initializerABI(
			input("_WETH", "address"),
			input("_bToken", "address"),
			input("_veBEND", "address"),
			input("_addressesProvider", "address"),
			input("_bendCollector", "address"),
		),
	},
	{
		"contracts/lockup/LockupBend.sol", "LockupBend",
		constructorABI("",
			input("_weth", "address"),
			input("_bendToken", "address"),
			input("_veBend", "address"),
			input("_feeDistributor", "address"),
			input("_delegation", "address"),
		),
	},
	{"contracts/misc/MerkleDistributor.sol", "MerkleDistributor", initializerABI(input("_token", "address"))},
	{"@openzeppelin/contracts/proxy/transparent/ProxyAdmin.sol", "ProxyAdmin", constructorABI("")},
	{
		"@openzeppelin/contracts/proxy/transparent/TransparentUpgradeableProxy.sol", "TransparentUpgradeableProxy",
		constructorABI(upgradedEventABI, input("_logic", "address"), input("admin_", "address"), input("_data", "bytes")),
	},
	{
		"@openzeppelin/contracts/proxy/ERC1967/ERC1967Proxy.sol", "ERC1967Proxy",
		constructorABI(upgradedEventABI, input("_logic", "address"), input("_data", "bytes")),
	},
}

// Bytecode returns the fake creation bytecode used for contract [name]
func Bytecode(name string) []byte {
	return append([]byte{0x60, 0x80}, crypto.Keccak256([]byte(name))[:8]...)
}

// ArtifactJSON renders a Hardhat artifact file
func ArtifactJSON(source string, name string, abiJSON string, bytecode []byte) []byte {
	artifact := map[string]interface{}{
		"_format":        "hh-sol-artifact-1",
		"contractName":   name,
		"sourceName":     source,
		"abi":            json.RawMessage(abiJSON),
		"bytecode":       hexutil.Encode(bytecode),
		"linkReferences": map[string]interface{}{},
	}
	bs, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		panic(err)
	}
	return bs
}

// WriteArtifact writes a single artifact in Hardhat layout under [dir]
func WriteArtifact(fs afero.Fs, dir string, source string, name string, abiJSON string, bytecode []byte) error {
	path := filepath.Join(dir, source, name+".json")
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, ArtifactJSON(source, name, abiJSON, bytecode), 0o644); err != nil {
		return err
	}
	dbg := []byte(`{"_format":"hh-sol-dbg-1","buildInfo":"../../build-info/x.json"}`)
	return afero.WriteFile(fs, filepath.Join(dir, source, name+".dbg.json"), dbg, 0o644)
}

// WriteBendArtifacts writes the Bend contract set and the proxy contracts under [dir]
func WriteBendArtifacts(fs afero.Fs, dir string) error {
	for _, a := range testArtifacts {
		if err := WriteArtifact(fs, dir, a.source, a.name, a.abi, Bytecode(a.name)); err != nil {
			return err
		}
	}
	buildInfo := filepath.Join(dir, "build-info", "x.json")
	if err := fs.MkdirAll(filepath.Dir(buildInfo), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(fs, buildInfo, []byte(`{"contractName":"ignored","abi":[]}`), 0o644)
}

// InstallProxyHooks makes the backend emit Upgraded(logic) when a proxy is created,
// as OpenZeppelin proxies do on construction
func InstallProxyHooks(b *FakeBackend) {
	for _, name := range []string{"TransparentUpgradeableProxy", "ERC1967Proxy"} {
		b.OnDeploy(Bytecode(name), func(args []byte, proxy common.Address) []*types.Log {
			if len(args) < common.HashLength {
				return nil
			}
			logic := common.BytesToAddress(args[:common.HashLength])
			return []*types.Log{{
				Address: proxy,
				Topics:  []common.Hash{UpgradedEventTopic, common.BytesToHash(logic.Bytes())},
			}}
		})
	}
}
