// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package manifestcmd

import (
	"github.com/ava-labs/bend-deployer/pkg/application"
	"github.com/ava-labs/bend-deployer/pkg/cobrautils"
	"github.com/ava-labs/bend-deployer/pkg/deployments"
	"github.com/ava-labs/bend-deployer/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app    *application.Bend
	format string
)

// bend-deployer manifest
func NewCmd(injectedApp *application.Bend) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Inspect the deployments manifest",
		RunE:  cobrautils.CommandSuiteUsage,
	}
	app = injectedApp
	cmd.AddCommand(newShowCmd())
	return cmd
}

// bend-deployer manifest show
func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show recorded deployments",
		Long:  "Prints the deployments recorded for every chain, as a table or exported as json or yaml.",
		RunE:  show,
		Args:  cobrautils.ExactArgs(0),
	}
	cmd.Flags().StringVar(&format, "format", deployments.FormatTable, "output format: table, json or yaml")
	return cmd
}

func show(cmd *cobra.Command, _ []string) error {
	m, err := app.LoadManifest()
	if err != nil {
		return err
	}
	if format == deployments.FormatTable && len(m.Networks) == 0 {
		ux.Logger.PrintToUser("No deployments recorded in %s", m.Path())
		return nil
	}
	return m.Export(cmd.OutOrStdout(), format)
}
