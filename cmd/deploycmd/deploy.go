// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"github.com/ava-labs/bend-deployer/pkg/application"
	"github.com/ava-labs/bend-deployer/pkg/cobrautils"
	"github.com/ava-labs/bend-deployer/pkg/contract"
	"github.com/ava-labs/bend-deployer/pkg/deployments"
	"github.com/ava-labs/bend-deployer/pkg/ux"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var app *application.Bend

// bend-deployer deploy
func NewCmd(injectedApp *application.Bend) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy contracts",
		Long: `The deploy command suite deploys contracts from the configured artifacts
directory, either directly, behind an upgradeable proxy, or as the whole
Bend suite.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	app = injectedApp
	// deploy contract
	cmd.AddCommand(newContractCmd())
	// deploy proxy
	cmd.AddCommand(newProxyCmd())
	// deploy suite
	cmd.AddCommand(newSuiteCmd())
	return cmd
}

func printContracts(title string, contracts ...*contract.Contract) {
	t := ux.DefaultTable(title, table.Row{"Contract", "Address", "Kind", "Implementation", "Tx"})
	for _, c := range contracts {
		impl := ""
		if c.Kind != deployments.KindDirect {
			impl = c.Implementation.Hex()
		}
		tx := ""
		if c.DeployTx != nil {
			tx = c.DeployTx.Hash().Hex()
		}
		t.AppendRow(table.Row{c.Name, c.Address().Hex(), string(c.Kind), impl, tx})
	}
	ux.Logger.PrintToUser("%s", t.Render())
}
