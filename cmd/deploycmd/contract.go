// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"github.com/ava-labs/bend-deployer/pkg/cobrautils"
	"github.com/ava-labs/bend-deployer/pkg/ux"
	"github.com/spf13/cobra"
)

// bend-deployer deploy contract
func newContractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contract [contractName] [constructorArgs...]",
		Short: "Deploy a contract without a proxy",
		Long: `Deploys [contractName] with the given constructor arguments and waits for
the deployment to be confirmed. Arrays are given as comma separated lists.`,
		RunE: deployContract,
		Args: cobrautils.MinimumNArgs(1),
	}
}

func deployContract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, closeClient, err := app.NewDeployer(ctx)
	if err != nil {
		return err
	}
	defer closeClient()
	name := args[0]
	constructorArgs, err := d.ParseConstructorArgs(name, args[1:])
	if err != nil {
		return err
	}
	c, err := d.DeployContract(ctx, name, constructorArgs...)
	if err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("%s deployed at %s", c.Name, c.Address().Hex())
	printContracts("Deployed Contract", c)
	return nil
}
