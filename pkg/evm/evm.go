// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/ava-labs/bend-deployer/pkg/constants"
	"github.com/ava-labs/bend-deployer/pkg/utils"
	"github.com/ava-labs/libevm/accounts/abi/bind"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
	"github.com/ava-labs/libevm/crypto"
	"github.com/ava-labs/libevm/ethclient"
)

const repeatsOnFailure = 3

var sleepBetweenRepeats = 1 * time.Second

// Backend is the set of node calls needed to deploy and interact with contracts.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	Close()
}

// used to mock the connection function
var ethclientDialContext = func(ctx context.Context, rawurl string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// wraps over a backend for calls used by the deployer. features:
// - finds out url scheme in case it is missing, to connect to ws/http
// - repeats idempotent reads to try to recover from failures
// - logs rpc url in case of failure
type Client struct {
	EthClient Backend
	URL       string
}

// NewClient wraps an already connected [backend]
func NewClient(backend Backend, url string) Client {
	return Client{
		EthClient: backend,
		URL:       url,
	}
}

// indicates if the given rpc url has schema or not
func HasScheme(rpcURL string) (bool, error) {
	if parsedURL, err := url.Parse(rpcURL); err != nil {
		if !strings.Contains(err.Error(), "first path segment in URL cannot contain colon") {
			return false, err
		}
		return false, nil
	} else {
		return strings.Contains(rpcURL, "://") && parsedURL.Scheme != "", nil
	}
}

// tries to connect to a rpc url without scheme, by trying out ws and then http.
// http dials never fail, so the connection is validated with a ChainID query
func GetClientWithoutScheme(ctx context.Context, rpcURL string) (Backend, string, error) {
	if b, err := HasScheme(rpcURL); err != nil {
		return nil, "", err
	} else if b {
		return nil, "", fmt.Errorf("url does have scheme")
	}
	for _, scheme := range []string{"ws://", "http://"} {
		client, err := ethclientDialContext(ctx, scheme+rpcURL)
		if err != nil {
			continue
		}
		if _, err := client.ChainID(ctx); err != nil {
			client.Close()
			continue
		}
		return client, scheme, nil
	}
	return nil, "", fmt.Errorf("url %s has no scheme and protocol could not be determined", rpcURL)
}

// connects an evm client to the given [rpcURL]
// supports [repeatsOnFailure] failures
func GetClient(ctx context.Context, rpcURL string) (Client, error) {
	client := Client{
		URL: rpcURL,
	}
	hasScheme, err := HasScheme(rpcURL)
	if err != nil {
		return client, fmt.Errorf("failure determining the scheme of url %s: %w", rpcURL, err)
	}
	client.EthClient, err = utils.RetryWithContext(
		ctx,
		constants.APIRequestTimeout,
		func(ctx context.Context) (Backend, error) {
			if hasScheme {
				return ethclientDialContext(ctx, rpcURL)
			}
			client, _, err := GetClientWithoutScheme(ctx, rpcURL)
			return client, err
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf("failure connecting to %s: %w", rpcURL, err)
	}
	return client, err
}

// closes underlying connection
func (client Client) Close() {
	client.EthClient.Close()
}

// returns the chain ID
// supports [repeatsOnFailure] failures
func (client Client) GetChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := utils.RetryWithContext(
		ctx,
		constants.APIRequestTimeout,
		func(ctx context.Context) (*big.Int, error) {
			return client.EthClient.ChainID(ctx)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf("failure getting chain id from %s: %w", client.URL, err)
	}
	return chainID, err
}

// returns the contract bytecode at [contractAddress]
// supports [repeatsOnFailure] failures
func (client Client) GetContractBytecode(
	ctx context.Context,
	contractAddress common.Address,
) ([]byte, error) {
	code, err := utils.RetryWithContext(
		ctx,
		constants.APIRequestTimeout,
		func(ctx context.Context) ([]byte, error) {
			return client.EthClient.CodeAt(ctx, contractAddress, nil)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf(
			"failure obtaining code from %s at address %s: %w",
			client.URL,
			contractAddress.Hex(),
			err,
		)
	}
	return code, err
}

// indicates wether a contract is deployed on [contractAddress]
// supports [repeatsOnFailure] failures
func (client Client) ContractAlreadyDeployed(
	ctx context.Context,
	contractAddress common.Address,
) (bool, error) {
	if bs, err := client.GetContractBytecode(ctx, contractAddress); err != nil {
		return false, err
	} else {
		return len(bs) != 0, nil
	}
}

// waits for [tx]'s receipt and reports if it has successful state.
// waiting is bounded only by [ctx]
func (client Client) WaitForTransaction(
	ctx context.Context,
	tx *types.Transaction,
) (*types.Receipt, bool, error) {
	receipt, err := bind.WaitMined(ctx, client.EthClient, tx)
	if err != nil {
		return nil, false, fmt.Errorf("failure waiting for tx %s on %s: %w", tx.Hash(), client.URL, err)
	}
	return receipt, receipt.Status == types.ReceiptStatusSuccessful, nil
}

// returns tx options that include signer for [privateKeyStr]
// supports [repeatsOnFailure] failures when gathering chain info
func (client Client) GetTxOptsWithSigner(
	ctx context.Context,
	privateKeyStr string,
) (*bind.TransactOpts, error) {
	privateKey, err := ParsePrivateKey(privateKeyStr)
	if err != nil {
		return nil, err
	}
	chainID, err := client.GetChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failure generating signer: %w", err)
	}
	txOpts, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		return nil, err
	}
	txOpts.Context = ctx
	return txOpts, nil
}

// ParsePrivateKey accepts hex keys with or without 0x prefix
func ParsePrivateKey(privateKeyStr string) (*ecdsa.PrivateKey, error) {
	privateKeyStr = strings.TrimPrefix(strings.TrimSpace(privateKeyStr), "0x")
	if privateKeyStr == "" {
		return nil, fmt.Errorf("private key is empty")
	}
	privateKey, err := crypto.HexToECDSA(privateKeyStr)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return privateKey, nil
}
