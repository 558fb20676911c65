// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"math/big"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/bend-deployer/pkg/artifacts"
	"github.com/ava-labs/bend-deployer/pkg/constants"
	"github.com/ava-labs/bend-deployer/pkg/deployments"
	"github.com/ava-labs/bend-deployer/pkg/evm"
	"github.com/ava-labs/libevm/accounts/abi/bind"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
	"go.uber.org/zap"
)

// Deployer resolves contract factories by name and deploys them, directly or
// behind proxies, signing with a single key. Calls are expected to be sequential.
type Deployer struct {
	log      logging.Logger
	client   evm.Client
	store    *artifacts.Store
	manifest *deployments.Manifest
	network  *deployments.Network
	signer   *bind.TransactOpts
	chainID  *big.Int
	proxy    ProxyOptions
	timeout  time.Duration
}

type Option func(*Deployer)

// WithManifest records deployments into [m] and reuses its proxy admin and implementations
func WithManifest(m *deployments.Manifest) Option {
	return func(d *Deployer) {
		d.manifest = m
	}
}

func WithProxyOptions(opts ProxyOptions) Option {
	return func(d *Deployer) {
		d.proxy = opts
	}
}

// WithTimeout bounds every deployment (send + confirmation)
func WithTimeout(timeout time.Duration) Option {
	return func(d *Deployer) {
		d.timeout = timeout
	}
}

func NewDeployer(
	ctx context.Context,
	log logging.Logger,
	client evm.Client,
	store *artifacts.Store,
	privateKey string,
	opts ...Option,
) (*Deployer, error) {
	d := &Deployer{
		log:     log,
		client:  client,
		store:   store,
		proxy:   DefaultProxyOptions(),
		timeout: constants.DeployTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.proxy = d.proxy.withDefaults()
	if d.manifest == nil {
		d.manifest = deployments.NewInMemory()
	}
	signer, err := client.GetTxOptsWithSigner(ctx, privateKey)
	if err != nil {
		return nil, err
	}
	chainID, err := client.GetChainID(ctx)
	if err != nil {
		return nil, err
	}
	d.signer = signer
	d.chainID = chainID
	d.network = d.manifest.Network(chainID)
	log.Info("deployer ready",
		zap.String("rpc", client.URL),
		zap.Stringer("chainID", chainID),
		zap.String("from", signer.From.Hex()),
	)
	return d, nil
}

// From returns the deployer account
func (d *Deployer) From() common.Address {
	return d.signer.From
}

func (d *Deployer) ChainID() *big.Int {
	return new(big.Int).Set(d.chainID)
}

func (d *Deployer) Manifest() *deployments.Manifest {
	return d.manifest
}

func (d *Deployer) Client() evm.Client {
	return d.client
}

// DeployContract resolves the factory for [name], deploys it with constructor
// [args] and waits for the deployment to be confirmed
func (d *Deployer) DeployContract(
	ctx context.Context,
	name string,
	args ...interface{},
) (*Contract, error) {
	factory, err := d.store.Factory(name)
	if err != nil {
		return nil, err
	}
	addr, tx, receipt, err := d.deployFactory(ctx, factory, args...)
	if err != nil {
		return nil, err
	}
	c := newContract(d, factory.Name, factory.ABI, addr)
	c.DeployTx = tx
	c.Receipt = receipt
	if err := d.record(c); err != nil {
		return nil, err
	}
	d.log.Info("deployed contract", zap.String("name", c.Name), zap.String("address", addr.Hex()))
	return c, nil
}

// WaitForTx waits for [tx] to be mined and fails if its receipt is not successful
func (d *Deployer) WaitForTx(
	ctx context.Context,
	tx *types.Transaction,
	description string,
) (*types.Receipt, error) {
	receipt, success, err := d.client.WaitForTransaction(ctx, tx)
	if err != nil {
		return nil, evm.TransactionError(tx, err, "failure waiting for %s", description)
	}
	if !success {
		if dump, err := evm.TxDump(description, tx); err == nil {
			d.log.Debug("failed tx", zap.String("dump", dump))
		}
		return receipt, evm.TransactionError(tx, ErrTxFailed, "%s", description)
	}
	d.log.Debug("tx confirmed",
		zap.String("description", description),
		zap.Stringer("txHash", tx.Hash()),
		zap.Uint64("gasUsed", receipt.GasUsed),
	)
	return receipt, nil
}

func (d *Deployer) deployFactory(
	ctx context.Context,
	factory artifacts.Factory,
	args ...interface{},
) (common.Address, *types.Transaction, *types.Receipt, error) {
	ctx, cancel := d.timeoutContext(ctx)
	defer cancel()
	addr, tx, _, err := bind.DeployContract(d.transactOpts(ctx), factory.ABI, factory.Bytecode, d.client.EthClient, args...)
	if err != nil {
		return common.Address{}, nil, nil, evm.TransactionError(nil, err, "failure deploying %s", factory.Name)
	}
	receipt, err := d.WaitForTx(ctx, tx, "deploying "+factory.Name)
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	if deployed, err := d.client.ContractAlreadyDeployed(ctx, addr); err != nil {
		return common.Address{}, nil, nil, err
	} else if !deployed {
		return common.Address{}, nil, nil, evm.TransactionError(tx, ErrNoCodeAfterDeploy, "deploying %s at %s", factory.Name, addr.Hex())
	}
	return addr, tx, receipt, nil
}

func (d *Deployer) record(c *Contract) error {
	deployment := deployments.Deployment{
		Name:    c.Name,
		Address: c.address.Hex(),
		Kind:    c.Kind,
	}
	if c.DeployTx != nil {
		deployment.TxHash = c.DeployTx.Hash().Hex()
	}
	if c.Kind != deployments.KindDirect {
		deployment.Implementation = c.Implementation.Hex()
		if c.Admin != (common.Address{}) {
			deployment.Admin = c.Admin.Hex()
		}
	}
	d.network.Record(deployment)
	return d.manifest.Save()
}

func (d *Deployer) transactOpts(ctx context.Context) *bind.TransactOpts {
	opts := *d.signer
	opts.Context = ctx
	return &opts
}

func (d *Deployer) timeoutContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}
