// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"github.com/ava-labs/bend-deployer/pkg/cobrautils"
	"github.com/ava-labs/bend-deployer/pkg/config"
	"github.com/ava-labs/bend-deployer/pkg/constants"
	"github.com/ava-labs/bend-deployer/pkg/deployments"
	"github.com/ava-labs/bend-deployer/pkg/ux"
	"github.com/spf13/cobra"
)

type proxyFlags struct {
	kind        string
	initializer string
}

var deployProxyFlags proxyFlags

// bend-deployer deploy proxy
func newProxyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxy [contractName] [initializerArgs...]",
		Short: "Deploy a contract behind an upgradeable proxy",
		Long: `Deploys the [contractName] implementation and a proxy pointing to it, calling
the initializer with the given arguments in the proxy constructor.

Transparent proxies share a single ProxyAdmin per chain, and implementations
with unchanged bytecode are reused from the deployments manifest.`,
		RunE: deployProxy,
		Args: cobrautils.MinimumNArgs(1),
	}
	cmd.Flags().StringVar(
		&deployProxyFlags.kind,
		"kind",
		string(deployments.KindTransparent),
		"proxy kind: transparent or uups",
	)
	cmd.Flags().StringVar(
		&deployProxyFlags.initializer,
		"initializer",
		constants.DefaultInitializer,
		"initializer method called through the proxy",
	)
	return cmd
}

func deployProxy(cmd *cobra.Command, args []string) error {
	// unset flags leave env and config file values in place
	if cmd.Flags().Changed("kind") {
		if _, err := deployments.ParseKind(deployProxyFlags.kind); err != nil {
			return cobrautils.NewUsageError(cmd, err)
		}
		app.Conf.SetConfigValue(config.ProxyKindKey, deployProxyFlags.kind)
	}
	if cmd.Flags().Changed("initializer") {
		app.Conf.SetConfigValue(config.InitializerKey, deployProxyFlags.initializer)
	}

	ctx := cmd.Context()
	d, closeClient, err := app.NewDeployer(ctx)
	if err != nil {
		return err
	}
	defer closeClient()
	name := args[0]
	initArgs, err := d.ParseInitializerArgs(name, args[1:])
	if err != nil {
		return err
	}
	c, err := d.DeployProxyContract(ctx, name, initArgs...)
	if err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("%s proxy deployed at %s", c.Name, c.Address().Hex())
	printContracts("Deployed Proxy", c)
	return nil
}
