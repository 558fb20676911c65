// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package bend

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/bend-deployer/internal/testutils"
	"github.com/ava-labs/bend-deployer/pkg/artifacts"
	"github.com/ava-labs/bend-deployer/pkg/constants"
	"github.com/ava-labs/bend-deployer/pkg/contract"
	"github.com/ava-labs/bend-deployer/pkg/deployments"
	"github.com/ava-labs/bend-deployer/pkg/evm"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store    *artifacts.Store
	backend  *testutils.FakeBackend
	deployer *contract.Deployer
}

func newTestEnv(t *testing.T) *testEnv {
	fs := afero.NewMemMapFs()
	require.NoError(t, testutils.WriteBendArtifacts(fs, testutils.ArtifactsDir))
	store, err := artifacts.Load(logging.NoLog{}, fs, testutils.ArtifactsDir)
	require.NoError(t, err)
	backend := testutils.NewFakeBackend()
	testutils.InstallProxyHooks(backend)
	keyHex, _, _ := testutils.NewFundedKey()
	d, err := contract.NewDeployer(
		context.Background(),
		logging.NoLog{},
		evm.NewClient(backend, "fake"),
		store,
		keyHex,
	)
	require.NoError(t, err)
	return &testEnv{store: store, backend: backend, deployer: d}
}

func (env *testEnv) constructorArgs(t *testing.T, tx *types.Transaction, name string) []interface{} {
	f, err := env.store.Factory(name)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(tx.Data(), f.Bytecode), "tx does not deploy %s", name)
	args, err := f.ABI.Constructor.Inputs.Unpack(tx.Data()[len(f.Bytecode):])
	require.NoError(t, err)
	return args
}

// initializeArgs decodes the initializer call embedded in a transparent proxy deployment
func (env *testEnv) initializeArgs(t *testing.T, c *contract.Contract) []interface{} {
	require.Equal(t, deployments.KindTransparent, c.Kind)
	proxyArgs := env.constructorArgs(t, c.DeployTx, constants.TransparentUpgradeableProxyContract)
	require.Len(t, proxyArgs, 3)
	require.Equal(t, c.Implementation, proxyArgs[0])
	initData, ok := proxyArgs[2].([]byte)
	require.True(t, ok)
	method := c.ABI.Methods[constants.DefaultInitializer]
	require.Equal(t, method.ID, initData[:4])
	args, err := method.Inputs.Unpack(initData[4:])
	require.NoError(t, err)
	return args
}

// callsTo decodes every sent call of [method] on [c]
func (env *testEnv) callsTo(t *testing.T, c *contract.Contract, method string) [][]interface{} {
	m := c.ABI.Methods[method]
	var calls [][]interface{}
	for _, tx := range env.backend.Sent() {
		if tx.To() == nil || *tx.To() != c.Address() || !bytes.HasPrefix(tx.Data(), m.ID) {
			continue
		}
		args, err := m.Inputs.Unpack(tx.Data()[4:])
		require.NoError(t, err)
		calls = append(calls, args)
	}
	return calls
}

func addr(b byte) common.Address {
	return common.BytesToAddress([]byte{b})
}

func TestDeployVault(t *testing.T) {
	env := newTestEnv(t)
	vault, err := DeployVault(context.Background(), env.deployer)
	require.NoError(t, err)
	require.Equal(t, Vault, vault.Name)
	require.Equal(t, deployments.KindDirect, vault.Kind)
	require.Empty(t, env.constructorArgs(t, vault.DeployTx, Vault))
}

func TestDeployBendToken(t *testing.T) {
	for _, tt := range []struct {
		name   string
		deploy func(context.Context, Deployer, contract.Addressable, *big.Int) (*contract.Contract, error)
	}{
		{BendToken, DeployBendToken},
		{BendTokenTester, DeployBendTokenTester},
	} {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			amount := new(big.Int).Mul(big.NewInt(10_000_000_000), big.NewInt(1e18))
			token, err := tt.deploy(context.Background(), env.deployer, contract.AddressOf(addr(1)), amount)
			require.NoError(t, err)
			require.Equal(t, tt.name, token.Name)
			require.Equal(t, []interface{}{addr(1), amount}, env.initializeArgs(t, token))
		})
	}
}

func TestDeployIncentivesController(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	vault, err := DeployVault(ctx, env.deployer)
	require.NoError(t, err)
	token := contract.AddressOf(addr(7))

	controller, err := DeployIncentivesController(ctx, env.deployer, token, vault)
	require.NoError(t, err)
	require.Equal(t, BendProtocolIncentivesController, controller.Name)
	require.Equal(t,
		[]interface{}{addr(7), vault.Address(), big.NewInt(3_153_600_000)},
		env.initializeArgs(t, controller),
	)

	approvals := env.callsTo(t, vault, "approve")
	require.Len(t, approvals, 1)
	require.Equal(t, []interface{}{addr(7), controller.Address(), constants.MaxUintAmount}, approvals[0])

	// approval is the last tx sent
	sent := env.backend.Sent()
	require.Equal(t, vault.Address(), *sent[len(sent)-1].To())
}

func TestDeployIncentivesControllerApproveFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	vault, err := DeployVault(ctx, env.deployer)
	require.NoError(t, err)
	env.backend.RevertIf = func(tx *types.Transaction) bool {
		return tx.To() != nil && *tx.To() == vault.Address()
	}
	_, err = DeployIncentivesController(ctx, env.deployer, contract.AddressOf(addr(7)), vault)
	require.ErrorIs(t, err, contract.ErrTxFailed)
}

func TestDeployVeBendAndMerkleDistributor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := contract.AddressOf(addr(3))

	vebend, err := DeployVeBend(ctx, env.deployer, token)
	require.NoError(t, err)
	require.Equal(t, []interface{}{addr(3)}, env.initializeArgs(t, vebend))

	distributor, err := DeployMerkleDistributor(ctx, env.deployer, token)
	require.NoError(t, err)
	require.Equal(t, []interface{}{addr(3)}, env.initializeArgs(t, distributor))

	// both proxies share one admin
	require.Equal(t, vebend.Admin, distributor.Admin)
}

func TestDeployFeeDistributorArgumentOrder(t *testing.T) {
	env := newTestEnv(t)
	var (
		provider  = addr(1)
		vebend    = addr(2)
		weth      = addr(3)
		collector = addr(4)
		bToken    = addr(5)
	)
	fd, err := DeployFeeDistributor(
		context.Background(),
		env.deployer,
		contract.AddressOf(provider),
		contract.AddressOf(vebend),
		contract.AddressOf(weth),
		collector,
		contract.AddressOf(bToken),
	)
	require.NoError(t, err)
	require.Equal(t, FeeDistributorTester, fd.Name)
	require.Equal(t,
		[]interface{}{weth, bToken, vebend, provider, collector},
		env.initializeArgs(t, fd),
	)
}

func TestDeployLockupBend(t *testing.T) {
	env := newTestEnv(t)
	lockup, err := DeployLockupBend(
		context.Background(),
		env.deployer,
		contract.AddressOf(addr(1)),
		contract.AddressOf(addr(2)),
		contract.AddressOf(addr(3)),
		contract.AddressOf(addr(4)),
		contract.AddressOf(addr(5)),
	)
	require.NoError(t, err)
	require.Equal(t, deployments.KindDirect, lockup.Kind)
	require.Equal(t,
		[]interface{}{addr(1), addr(2), addr(3), addr(4), addr(5)},
		env.constructorArgs(t, lockup.DeployTx, LockupBend),
	)
}

func TestDeployWithMissingArtifact(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.deployer.DeployContract(context.Background(), "NotACompiledContract")
	require.ErrorIs(t, err, artifacts.ErrArtifactNotFound)
	require.Empty(t, env.backend.Sent())
}

func testExternals() Externals {
	return Externals{
		WETH:                      addr(0xe1),
		BToken:                    addr(0xe2),
		LendPoolAddressesProvider: addr(0xe3),
		BendCollector:             addr(0xe4),
		Delegation:                addr(0xe5),
	}
}

func TestDeploySuite(t *testing.T) {
	env := newTestEnv(t)
	ext := testExternals()
	supply := big.NewInt(1_000_000)

	deployed := []string{}
	s, err := DeploySuite(context.Background(), logging.NoLog{}, env.deployer, SuiteConfig{
		Externals: ext,
		Supply:    supply,
		OnDeployed: func(c *contract.Contract) {
			deployed = append(deployed, c.Name)
		},
	})
	require.NoError(t, err)
	require.Len(t, deployed, SuiteSize)

	names := []string{}
	for _, c := range s.Contracts() {
		require.NotNil(t, c)
		names = append(names, c.Name)
	}
	require.Equal(t, deployed, names)
	require.Equal(t, []string{
		Vault,
		BendToken,
		BendProtocolIncentivesController,
		VeBend,
		FeeDistributorTester,
		LockupBend,
		MerkleDistributor,
	}, names)

	require.Equal(t, []interface{}{s.Vault.Address(), supply}, env.initializeArgs(t, s.BendToken))
	require.Equal(t,
		[]interface{}{s.BendToken.Address(), s.Vault.Address(), big.NewInt(constants.OneYear * 100)},
		env.initializeArgs(t, s.IncentivesController),
	)
	require.Equal(t, []interface{}{s.BendToken.Address()}, env.initializeArgs(t, s.VeBend))
	require.Equal(t,
		[]interface{}{ext.WETH, ext.BToken, s.VeBend.Address(), ext.LendPoolAddressesProvider, ext.BendCollector},
		env.initializeArgs(t, s.FeeDistributor),
	)
	require.Equal(t,
		[]interface{}{ext.WETH, s.BendToken.Address(), s.VeBend.Address(), s.FeeDistributor.Address(), ext.Delegation},
		env.constructorArgs(t, s.LockupBend.DeployTx, LockupBend),
	)
	require.Equal(t, []interface{}{s.BendToken.Address()}, env.initializeArgs(t, s.MerkleDistributor))
	require.Len(t, env.callsTo(t, s.Vault, "approve"), 1)

	// vault, 5 proxies with implementations, one admin, the approval and lockup
	require.Len(t, env.backend.Sent(), 1+5*2+1+1+1)

	network := env.deployer.Manifest().Network(env.deployer.ChainID())
	for _, c := range s.Contracts() {
		d, ok := network.Latest(c.Name)
		require.True(t, ok, c.Name)
		require.Equal(t, c.Address().Hex(), d.Address)
	}
}

func TestDeploySuiteWithTokenTester(t *testing.T) {
	env := newTestEnv(t)
	s, err := DeploySuite(context.Background(), logging.NoLog{}, env.deployer, SuiteConfig{
		Externals:      testExternals(),
		Supply:         big.NewInt(1),
		UseTokenTester: true,
	})
	require.NoError(t, err)
	require.Equal(t, BendTokenTester, s.BendToken.Name)
}

func TestDeploySuiteValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ext := testExternals()
	ext.Delegation = common.Address{}
	_, err := DeploySuite(ctx, logging.NoLog{}, env.deployer, SuiteConfig{Externals: ext, Supply: big.NewInt(1)})
	require.ErrorContains(t, err, "delegation address is not set")

	// the first unset address in declaration order is reported
	for i := 0; i < 10; i++ {
		err = Externals{Delegation: testExternals().Delegation}.Validate()
		require.EqualError(t, err, "weth address is not set")
	}
	err = Externals{WETH: testExternals().WETH}.Validate()
	require.EqualError(t, err, "bToken address is not set")

	_, err = DeploySuite(ctx, logging.NoLog{}, env.deployer, SuiteConfig{Externals: testExternals()})
	require.ErrorContains(t, err, "bend supply must be positive")
	require.Empty(t, env.backend.Sent())
}

func TestDeploySuiteStopsAtFirstFailure(t *testing.T) {
	env := newTestEnv(t)
	env.backend.RevertIf = func(tx *types.Transaction) bool {
		return tx.Nonce() >= 1
	}
	_, err := DeploySuite(context.Background(), logging.NoLog{}, env.deployer, SuiteConfig{
		Externals: testExternals(),
		Supply:    big.NewInt(1),
	})
	require.ErrorIs(t, err, contract.ErrTxFailed)
	require.ErrorContains(t, err, "failure deploying BendToken")
	// vault and the reverted token implementation
	require.Len(t, env.backend.Sent(), 2)
}
