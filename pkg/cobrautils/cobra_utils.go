// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cobrautils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/bend-deployer/pkg/ux"
	"github.com/ava-labs/libevm/common"
	"github.com/spf13/cobra"
)

type UsageError struct {
	cmd *cobra.Command
	err error
}

func (e UsageError) Error() string {
	return fmt.Sprintf("Usage error: %s", e.err)
}

func (e UsageError) Unwrap() error {
	return e.err
}

func NewUsageError(cmd *cobra.Command, err error) UsageError {
	return UsageError{
		cmd: cmd,
		err: err,
	}
}

func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := cobra.ExactArgs(n)(cmd, args)
		if err != nil {
			err = NewUsageError(cmd, err)
		}
		return err
	}
}

func MinimumNArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := cobra.MinimumNArgs(n)(cmd, args)
		if err != nil {
			err = NewUsageError(cmd, err)
		}
		return err
	}
}

// HandleErrors reports [err] to the user and returns the process exit code
func HandleErrors(err error) int {
	if err == nil {
		return 0
	}
	var usageErr UsageError
	if errors.As(err, &usageErr) {
		usageErr.cmd.Println(usageErr.cmd.UsageString())
		usageErr.cmd.Println()
		usageErr.cmd.Println(usageErr)
	} else if ux.Logger != nil {
		ux.Logger.RedXToUser("Error: %s", err)
	} else {
		fmt.Printf("Error: %s\n", err)
	}
	return 1
}

func CommandSuiteUsage(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return NewUsageError(
			cmd,
			fmt.Errorf("invalid subcommand %q", strings.Join(args, " ")),
		)
	}
	err := cmd.Help()
	if err != nil {
		fmt.Println(err)
	}
	return nil
}

func ConfigureRootCmd(cmd *cobra.Command) {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return NewUsageError(cmd, err)
	})
}

// AddressValue is a pflag.Value holding a hex evm address
type AddressValue struct {
	Addr common.Address
}

func (a *AddressValue) String() string {
	if a.Addr == (common.Address{}) {
		return ""
	}
	return a.Addr.Hex()
}

func (a *AddressValue) Set(s string) error {
	if !common.IsHexAddress(s) {
		return fmt.Errorf("%q is not a hex address", s)
	}
	a.Addr = common.HexToAddress(s)
	return nil
}

func (*AddressValue) Type() string {
	return "address"
}
