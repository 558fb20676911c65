// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"fmt"

	"github.com/ava-labs/bend-deployer/pkg/artifacts"
	"github.com/ava-labs/bend-deployer/pkg/constants"
	"github.com/ava-labs/bend-deployer/pkg/deployments"
	"github.com/ava-labs/bend-deployer/pkg/evm"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
	"github.com/ava-labs/libevm/crypto"
	"go.uber.org/zap"
)

// keccak256("Upgraded(address)"), emitted by ERC1967 proxies on construction
var upgradedEventTopic = crypto.Keccak256Hash([]byte("Upgraded(address)"))

// ProxyOptions selects the proxy pattern and the artifacts backing it
type ProxyOptions struct {
	Kind        deployments.Kind
	Initializer string

	ProxyAdminContract       string
	TransparentProxyContract string
	ERC1967ProxyContract     string
}

func DefaultProxyOptions() ProxyOptions {
	return ProxyOptions{
		Kind:                     deployments.KindTransparent,
		Initializer:              constants.DefaultInitializer,
		ProxyAdminContract:       constants.ProxyAdminContract,
		TransparentProxyContract: constants.TransparentUpgradeableProxyContract,
		ERC1967ProxyContract:     constants.ERC1967ProxyContract,
	}
}

func (o ProxyOptions) withDefaults() ProxyOptions {
	defaults := DefaultProxyOptions()
	if o.Kind == "" {
		o.Kind = defaults.Kind
	}
	if o.Initializer == "" {
		o.Initializer = defaults.Initializer
	}
	if o.ProxyAdminContract == "" {
		o.ProxyAdminContract = defaults.ProxyAdminContract
	}
	if o.TransparentProxyContract == "" {
		o.TransparentProxyContract = defaults.TransparentProxyContract
	}
	if o.ERC1967ProxyContract == "" {
		o.ERC1967ProxyContract = defaults.ERC1967ProxyContract
	}
	return o
}

// DeployProxyContract deploys the [name] implementation behind an upgradeable
// proxy, initialized by calling the initializer with [args]. The returned
// handle points to the proxy, using the implementation abi.
func (d *Deployer) DeployProxyContract(
	ctx context.Context,
	name string,
	args ...interface{},
) (*Contract, error) {
	factory, err := d.store.Factory(name)
	if err != nil {
		return nil, err
	}
	initData, err := d.initializerData(factory, args)
	if err != nil {
		return nil, err
	}
	impl, err := d.implementation(ctx, factory)
	if err != nil {
		return nil, err
	}
	var (
		proxyAddr common.Address
		admin     common.Address
		tx        *types.Transaction
		receipt   *types.Receipt
	)
	switch d.proxy.Kind {
	case deployments.KindTransparent:
		admin, err = d.proxyAdmin(ctx)
		if err != nil {
			return nil, err
		}
		proxyFactory, err := d.store.Factory(d.proxy.TransparentProxyContract)
		if err != nil {
			return nil, err
		}
		proxyAddr, tx, receipt, err = d.deployFactory(ctx, proxyFactory, impl, admin, initData)
		if err != nil {
			return nil, err
		}
	case deployments.KindUUPS:
		proxyFactory, err := d.store.Factory(d.proxy.ERC1967ProxyContract)
		if err != nil {
			return nil, err
		}
		proxyAddr, tx, receipt, err = d.deployFactory(ctx, proxyFactory, impl, initData)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported proxy kind %q", d.proxy.Kind)
	}
	if err := verifyImplementation(receipt, proxyAddr, impl); err != nil {
		return nil, evm.TransactionError(tx, err, "deploying %s proxy", factory.Name)
	}
	c := newContract(d, factory.Name, factory.ABI, proxyAddr)
	c.Kind = d.proxy.Kind
	c.Implementation = impl
	c.Admin = admin
	c.DeployTx = tx
	c.Receipt = receipt
	if err := d.record(c); err != nil {
		return nil, err
	}
	d.log.Info("deployed proxy contract",
		zap.String("name", c.Name),
		zap.String("kind", string(c.Kind)),
		zap.String("proxy", proxyAddr.Hex()),
		zap.String("implementation", impl.Hex()),
	)
	return c, nil
}

// initializerData encodes the initializer call. With no args and no
// initializer in the abi the proxy is left uninitialized.
func (d *Deployer) initializerData(factory artifacts.Factory, args []interface{}) ([]byte, error) {
	if _, ok := factory.ABI.Methods[d.proxy.Initializer]; !ok {
		if len(args) == 0 {
			return []byte{}, nil
		}
		return nil, fmt.Errorf("%w: %s has no %s method", ErrInitializerNotFound, factory.Name, d.proxy.Initializer)
	}
	data, err := factory.ABI.Pack(d.proxy.Initializer, args...)
	if err != nil {
		return nil, fmt.Errorf("failure encoding %s.%s call: %w", factory.Name, d.proxy.Initializer, err)
	}
	return data, nil
}

// implementation reuses a live implementation with the same bytecode, or deploys a new one
func (d *Deployer) implementation(ctx context.Context, factory artifacts.Factory) (common.Address, error) {
	hash := factory.BytecodeHash()
	if addr, ok := d.network.Implementation(hash); ok {
		deployed, err := d.client.ContractAlreadyDeployed(ctx, addr)
		if err != nil {
			return common.Address{}, err
		}
		if deployed {
			d.log.Info("reusing implementation", zap.String("name", factory.Name), zap.String("address", addr.Hex()))
			return addr, nil
		}
		d.log.Warn("recorded implementation has no code, redeploying", zap.String("name", factory.Name), zap.String("address", addr.Hex()))
	}
	addr, _, _, err := d.deployFactory(ctx, factory)
	if err != nil {
		return common.Address{}, err
	}
	d.network.SetImplementation(hash, addr)
	if err := d.manifest.Save(); err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

// proxyAdmin returns the shared ProxyAdmin, deploying it on first use
func (d *Deployer) proxyAdmin(ctx context.Context) (common.Address, error) {
	if addr, ok := d.network.ProxyAdminAddress(); ok {
		deployed, err := d.client.ContractAlreadyDeployed(ctx, addr)
		if err != nil {
			return common.Address{}, err
		}
		if deployed {
			return addr, nil
		}
		d.log.Warn("recorded proxy admin has no code, redeploying", zap.String("address", addr.Hex()))
	}
	factory, err := d.store.Factory(d.proxy.ProxyAdminContract)
	if err != nil {
		return common.Address{}, err
	}
	args := []interface{}{}
	// newer ProxyAdmin versions take the initial owner
	if len(factory.ABI.Constructor.Inputs) == 1 {
		args = append(args, d.From())
	}
	addr, _, _, err := d.deployFactory(ctx, factory, args...)
	if err != nil {
		return common.Address{}, err
	}
	d.network.SetProxyAdmin(addr)
	if err := d.manifest.Save(); err != nil {
		return common.Address{}, err
	}
	d.log.Info("deployed proxy admin", zap.String("address", addr.Hex()))
	return addr, nil
}

func verifyImplementation(receipt *types.Receipt, proxy common.Address, impl common.Address) error {
	got, err := evm.GetEventFromLogs(receipt.Logs, func(log types.Log) (common.Address, error) {
		return parseUpgraded(log, proxy)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImplementationMismatch, err)
	}
	if got != impl {
		return fmt.Errorf("%w: got %s expected %s", ErrImplementationMismatch, got.Hex(), impl.Hex())
	}
	return nil
}

func parseUpgraded(log types.Log, proxy common.Address) (common.Address, error) {
	if log.Address != proxy {
		return common.Address{}, fmt.Errorf("log emitted by %s, not by proxy", log.Address.Hex())
	}
	if len(log.Topics) != 2 || log.Topics[0] != upgradedEventTopic {
		return common.Address{}, fmt.Errorf("not an Upgraded event")
	}
	return common.BytesToAddress(log.Topics[1].Bytes()), nil
}
