// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/bend-deployer/pkg/deployments"
	"github.com/ava-labs/bend-deployer/pkg/evm"
	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/accounts/abi/bind"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
)

var (
	ErrInitializerNotFound    = errors.New("initializer not found in contract abi")
	ErrTxFailed               = errors.New("transaction receipt has failed status")
	ErrNoCodeAfterDeploy      = errors.New("no contract code after deployment")
	ErrImplementationMismatch = errors.New("proxy does not point to the deployed implementation")
)

// Addressable is anything deployed at an address: contract handles and plain addresses
type Addressable interface {
	Address() common.Address
}

type address common.Address

func (a address) Address() common.Address {
	return common.Address(a)
}

// AddressOf wraps a plain address so it can be used where a contract is expected
func AddressOf(addr common.Address) Addressable {
	return address(addr)
}

// Contract is a handle to a deployed contract. For proxy deployments the
// address is the proxy's and the abi is the implementation's.
type Contract struct {
	Name           string
	ABI            abi.ABI
	Kind           deployments.Kind
	Implementation common.Address
	Admin          common.Address
	DeployTx       *types.Transaction
	Receipt        *types.Receipt

	address  common.Address
	deployer *Deployer
	bound    *bind.BoundContract
}

func newContract(d *Deployer, name string, contractABI abi.ABI, addr common.Address) *Contract {
	backend := d.client.EthClient
	return &Contract{
		Name:     name,
		ABI:      contractABI,
		Kind:     deployments.KindDirect,
		address:  addr,
		deployer: d,
		bound:    bind.NewBoundContract(addr, contractABI, backend, backend, backend),
	}
}

func (c *Contract) Address() common.Address {
	return c.address
}

func (c *Contract) String() string {
	return fmt.Sprintf("%s@%s", c.Name, c.address.Hex())
}

// Transact calls [method] with [args] and waits for the tx to be mined successfully
func (c *Contract) Transact(
	ctx context.Context,
	method string,
	args ...interface{},
) (*types.Receipt, error) {
	ctx, cancel := c.deployer.timeoutContext(ctx)
	defer cancel()
	tx, err := c.bound.Transact(c.deployer.transactOpts(ctx), method, args...)
	if err != nil {
		return nil, evm.TransactionError(nil, err, "failure calling %s.%s", c.Name, method)
	}
	return c.deployer.WaitForTx(ctx, tx, fmt.Sprintf("%s.%s", c.Name, method))
}
