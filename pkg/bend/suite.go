// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package bend

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/bend-deployer/pkg/contract"
	"github.com/ava-labs/libevm/common"
	"go.uber.org/zap"
)

// Externals are the addresses of protocol contracts the suite depends on but does not deploy
type Externals struct {
	WETH                      common.Address
	BToken                    common.Address
	LendPoolAddressesProvider common.Address
	BendCollector             common.Address
	Delegation                common.Address
}

func (e Externals) Validate() error {
	for _, ext := range []struct {
		name string
		addr common.Address
	}{
		{"weth", e.WETH},
		{"bToken", e.BToken},
		{"lend pool addresses provider", e.LendPoolAddressesProvider},
		{"bend collector", e.BendCollector},
		{"delegation", e.Delegation},
	} {
		if ext.addr == (common.Address{}) {
			return fmt.Errorf("%s address is not set", ext.name)
		}
	}
	return nil
}

type SuiteConfig struct {
	Externals
	// initial BEND supply minted to the vault
	Supply *big.Int
	// deploy BendTokenTester instead of BendToken
	UseTokenTester bool
	// called after each contract is deployed
	OnDeployed func(c *contract.Contract)
}

// SuiteSize is the number of contracts DeploySuite deploys
const SuiteSize = 7

// Suite holds every contract of a full deployment
type Suite struct {
	Vault                *contract.Contract
	BendToken            *contract.Contract
	IncentivesController *contract.Contract
	VeBend               *contract.Contract
	FeeDistributor       *contract.Contract
	LockupBend           *contract.Contract
	MerkleDistributor    *contract.Contract
}

// Contracts lists the suite contracts in deployment order
func (s *Suite) Contracts() []*contract.Contract {
	return []*contract.Contract{
		s.Vault,
		s.BendToken,
		s.IncentivesController,
		s.VeBend,
		s.FeeDistributor,
		s.LockupBend,
		s.MerkleDistributor,
	}
}

// DeploySuite deploys the whole contract set in dependency order
func DeploySuite(
	ctx context.Context,
	log logging.Logger,
	d Deployer,
	cfg SuiteConfig,
) (*Suite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Supply == nil || cfg.Supply.Sign() <= 0 {
		return nil, fmt.Errorf("bend supply must be positive")
	}
	var (
		s   Suite
		err error
	)
	step := func(name string, fn func() (*contract.Contract, error)) (*contract.Contract, error) {
		c, err := fn()
		if err != nil {
			return nil, fmt.Errorf("failure deploying %s: %w", name, err)
		}
		log.Info("suite step done", zap.String("contract", name), zap.String("address", c.Address().Hex()))
		if cfg.OnDeployed != nil {
			cfg.OnDeployed(c)
		}
		return c, nil
	}
	if s.Vault, err = step(Vault, func() (*contract.Contract, error) {
		return DeployVault(ctx, d)
	}); err != nil {
		return nil, err
	}
	if s.BendToken, err = step(BendToken, func() (*contract.Contract, error) {
		if cfg.UseTokenTester {
			return DeployBendTokenTester(ctx, d, s.Vault, cfg.Supply)
		}
		return DeployBendToken(ctx, d, s.Vault, cfg.Supply)
	}); err != nil {
		return nil, err
	}
	if s.IncentivesController, err = step(BendProtocolIncentivesController, func() (*contract.Contract, error) {
		return DeployIncentivesController(ctx, d, s.BendToken, s.Vault)
	}); err != nil {
		return nil, err
	}
	if s.VeBend, err = step(VeBend, func() (*contract.Contract, error) {
		return DeployVeBend(ctx, d, s.BendToken)
	}); err != nil {
		return nil, err
	}
	if s.FeeDistributor, err = step(FeeDistributorTester, func() (*contract.Contract, error) {
		return DeployFeeDistributor(
			ctx,
			d,
			contract.AddressOf(cfg.LendPoolAddressesProvider),
			s.VeBend,
			contract.AddressOf(cfg.WETH),
			cfg.BendCollector,
			contract.AddressOf(cfg.BToken),
		)
	}); err != nil {
		return nil, err
	}
	if s.LockupBend, err = step(LockupBend, func() (*contract.Contract, error) {
		return DeployLockupBend(
			ctx,
			d,
			contract.AddressOf(cfg.WETH),
			s.BendToken,
			s.VeBend,
			s.FeeDistributor,
			contract.AddressOf(cfg.Delegation),
		)
	}); err != nil {
		return nil, err
	}
	if s.MerkleDistributor, err = step(MerkleDistributor, func() (*contract.Contract, error) {
		return DeployMerkleDistributor(ctx, d, s.BendToken)
	}); err != nil {
		return nil, err
	}
	return &s, nil
}
