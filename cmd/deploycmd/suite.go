// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ava-labs/bend-deployer/pkg/bend"
	"github.com/ava-labs/bend-deployer/pkg/cobrautils"
	"github.com/ava-labs/bend-deployer/pkg/constants"
	"github.com/ava-labs/bend-deployer/pkg/contract"
	"github.com/ava-labs/bend-deployer/pkg/ux"
	"github.com/spf13/cobra"
)

type suiteFlags struct {
	weth       cobrautils.AddressValue
	bToken     cobrautils.AddressValue
	provider   cobrautils.AddressValue
	collector  cobrautils.AddressValue
	delegation cobrautils.AddressValue
	supply     string
	tester     bool
}

var deploySuiteFlags suiteFlags

// bend-deployer deploy suite
func newSuiteCmd() *cobra.Command {
	deploySuiteFlags = suiteFlags{}
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Deploy the whole Bend incentives suite",
		Long: `Deploys Vault, BendToken, BendProtocolIncentivesController, VeBend,
FeeDistributor, LockupBend and MerkleDistributor in dependency order, wiring
each contract to the ones deployed before it and to the given protocol
addresses. The vault approves the incentives controller to spend its BEND.

Protocol addresses and the supply that are not given as flags are prompted for.`,
		RunE: deploySuite,
		Args: cobrautils.ExactArgs(0),
	}
	cmd.Flags().Var(&deploySuiteFlags.weth, "weth", "WETH address")
	cmd.Flags().Var(&deploySuiteFlags.bToken, "btoken", "bToken address")
	cmd.Flags().Var(&deploySuiteFlags.provider, "provider", "lend pool addresses provider address")
	cmd.Flags().Var(&deploySuiteFlags.collector, "collector", "bend collector address")
	cmd.Flags().Var(&deploySuiteFlags.delegation, "delegation", "snapshot delegation address")
	cmd.Flags().StringVar(&deploySuiteFlags.supply, "supply", "", "initial BEND supply minted to the vault, in wei")
	cmd.Flags().BoolVar(&deploySuiteFlags.tester, "tester", false, "deploy BendTokenTester instead of BendToken")
	return cmd
}

func parseSupply(s string) (*big.Int, error) {
	supply, ok := new(big.Int).SetString(strings.ReplaceAll(s, "_", ""), 10)
	if !ok || supply.Sign() <= 0 {
		return nil, fmt.Errorf("invalid supply %q: expected a positive integer", s)
	}
	return supply, nil
}

// captureMissingInputs prompts for every required flag the user did not pass
func captureMissingInputs(cmd *cobra.Command) error {
	for _, input := range []struct {
		flag   string
		prompt string
		value  *cobrautils.AddressValue
	}{
		{"weth", "WETH address", &deploySuiteFlags.weth},
		{"btoken", "bToken address", &deploySuiteFlags.bToken},
		{"provider", "Lend pool addresses provider address", &deploySuiteFlags.provider},
		{"collector", "Bend collector address", &deploySuiteFlags.collector},
		{"delegation", "Snapshot delegation address", &deploySuiteFlags.delegation},
	} {
		if cmd.Flags().Changed(input.flag) {
			continue
		}
		addr, err := app.Prompt.CaptureAddress(input.prompt)
		if err != nil {
			return err
		}
		input.value.Addr = addr
	}
	if !cmd.Flags().Changed("supply") {
		supply, err := app.Prompt.CapturePositiveBigInt("Initial BEND supply minted to the vault, in wei")
		if err != nil {
			return err
		}
		deploySuiteFlags.supply = supply.String()
	}
	return nil
}

func deploySuite(cmd *cobra.Command, _ []string) error {
	if err := captureMissingInputs(cmd); err != nil {
		return err
	}
	supply, err := parseSupply(deploySuiteFlags.supply)
	if err != nil {
		return cobrautils.NewUsageError(cmd, err)
	}
	cfg := bend.SuiteConfig{
		Externals: bend.Externals{
			WETH:                      deploySuiteFlags.weth.Addr,
			BToken:                    deploySuiteFlags.bToken.Addr,
			LendPoolAddressesProvider: deploySuiteFlags.provider.Addr,
			BendCollector:             deploySuiteFlags.collector.Addr,
			Delegation:                deploySuiteFlags.delegation.Addr,
		},
		Supply:         supply,
		UseTokenTester: deploySuiteFlags.tester,
	}
	if err := cfg.Validate(); err != nil {
		return cobrautils.NewUsageError(cmd, err)
	}

	ctx := cmd.Context()
	d, closeClient, err := app.NewDeployer(ctx)
	if err != nil {
		return err
	}
	defer closeClient()
	ux.Logger.PrintToUser("Deploying Bend suite on chain %s from %s", d.ChainID(), d.From().Hex())
	bar := ux.StepsProgressBar(cmd.OutOrStdout(), bend.SuiteSize, "Deploying")
	cfg.OnDeployed = func(c *contract.Contract) {
		_ = ux.StepExecuted(bar, c.Name)
	}
	start := time.Now()
	suite, err := bend.DeploySuite(ctx, app.Log, d, cfg)
	if err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Bend suite deployed in %s", ux.FormatDuration(time.Since(start)))
	ux.Logger.PrintToUser("BEND supply: %s", ux.FormatAmount(supply, constants.MaxUintAmount))
	ux.Logger.PrintToUser(
		"Incentives distribution: %s",
		ux.FormatDuration(time.Duration(constants.OneYear*bend.IncentivesDistributionYears)*time.Second),
	)
	ux.Logger.PrintToUser("Incentives controller allowance: %s", ux.FormatAmount(constants.MaxUintAmount, constants.MaxUintAmount))
	printContracts("Bend Suite", suite.Contracts()...)
	return nil
}
