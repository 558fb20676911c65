// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bend deploys the Bend incentives contracts: token, vault, incentives
// controller, vote-escrow token, fee distributor, lockup and merkle distributor.
package bend

import (
	"context"
	"math/big"

	"github.com/ava-labs/bend-deployer/pkg/constants"
	"github.com/ava-labs/bend-deployer/pkg/contract"
	"github.com/ava-labs/libevm/common"
)

const (
	BendToken                        = "BendToken"
	BendTokenTester                  = "BendTokenTester"
	Vault                            = "Vault"
	BendProtocolIncentivesController = "BendProtocolIncentivesController"
	VeBend                           = "VeBend"
	FeeDistributorTester             = "FeeDistributorTester"
	LockupBend                       = "LockupBend"
	MerkleDistributor                = "MerkleDistributor"

	// IncentivesDistributionYears is the distribution duration given to the incentives controller
	IncentivesDistributionYears = 100
)

// Deployer is the pair of generic deployment entry points the named functions build on
type Deployer interface {
	DeployContract(ctx context.Context, name string, args ...interface{}) (*contract.Contract, error)
	DeployProxyContract(ctx context.Context, name string, args ...interface{}) (*contract.Contract, error)
}

func DeployBendToken(
	ctx context.Context,
	d Deployer,
	vault contract.Addressable,
	amount *big.Int,
) (*contract.Contract, error) {
	return d.DeployProxyContract(ctx, BendToken, vault.Address(), amount)
}

func DeployBendTokenTester(
	ctx context.Context,
	d Deployer,
	vault contract.Addressable,
	amount *big.Int,
) (*contract.Contract, error) {
	return d.DeployProxyContract(ctx, BendTokenTester, vault.Address(), amount)
}

func DeployVault(ctx context.Context, d Deployer) (*contract.Contract, error) {
	return d.DeployContract(ctx, Vault)
}

// DeployIncentivesController deploys the controller and lets it pull rewards
// from the vault with an unlimited approval
func DeployIncentivesController(
	ctx context.Context,
	d Deployer,
	bendToken contract.Addressable,
	vault *contract.Contract,
) (*contract.Contract, error) {
	controller, err := d.DeployProxyContract(
		ctx,
		BendProtocolIncentivesController,
		bendToken.Address(),
		vault.Address(),
		big.NewInt(constants.OneYear*IncentivesDistributionYears),
	)
	if err != nil {
		return nil, err
	}
	if _, err := vault.Transact(
		ctx,
		"approve",
		bendToken.Address(),
		controller.Address(),
		constants.MaxUintAmount,
	); err != nil {
		return nil, err
	}
	return controller, nil
}

func DeployVeBend(
	ctx context.Context,
	d Deployer,
	bendToken contract.Addressable,
) (*contract.Contract, error) {
	return d.DeployProxyContract(ctx, VeBend, bendToken.Address())
}

func DeployFeeDistributor(
	ctx context.Context,
	d Deployer,
	lendPoolAddressesProvider contract.Addressable,
	vebend contract.Addressable,
	weth contract.Addressable,
	bendCollector common.Address,
	bToken contract.Addressable,
) (*contract.Contract, error) {
	return d.DeployProxyContract(
		ctx,
		FeeDistributorTester,
		weth.Address(),
		bToken.Address(),
		vebend.Address(),
		lendPoolAddressesProvider.Address(),
		bendCollector,
	)
}

func DeployLockupBend(
	ctx context.Context,
	d Deployer,
	weth contract.Addressable,
	bendToken contract.Addressable,
	vebend contract.Addressable,
	feeDistributor contract.Addressable,
	delegation contract.Addressable,
) (*contract.Contract, error) {
	return d.DeployContract(
		ctx,
		LockupBend,
		weth.Address(),
		bendToken.Address(),
		vebend.Address(),
		feeDistributor.Address(),
		delegation.Address(),
	)
}

func DeployMerkleDistributor(
	ctx context.Context,
	d Deployer,
	bendToken contract.Addressable,
) (*contract.Contract, error) {
	return d.DeployProxyContract(ctx, MerkleDistributor, bendToken.Address())
}
