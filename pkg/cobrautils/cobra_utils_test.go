// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cobrautils

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ava-labs/libevm/common"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestArgsValidatorsReturnUsageErrors(t *testing.T) {
	cmd := &cobra.Command{Use: "deploy"}
	err := ExactArgs(1)(cmd, nil)
	var usageErr UsageError
	require.True(t, errors.As(err, &usageErr))
	require.ErrorContains(t, err, "Usage error: accepts 1 arg(s), received 0")

	require.NoError(t, MinimumNArgs(1)(cmd, []string{"Vault", "extra"}))
	require.Error(t, MinimumNArgs(2)(cmd, []string{"Vault"}))
}

func TestHandleErrors(t *testing.T) {
	require.Equal(t, 0, HandleErrors(nil))

	cmd := &cobra.Command{Use: "deploy"}
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.Equal(t, 1, HandleErrors(NewUsageError(cmd, errors.New("missing name"))))
	require.Contains(t, out.String(), "Usage error: missing name")
}

func TestCommandSuiteUsage(t *testing.T) {
	cmd := &cobra.Command{Use: "manifest"}
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, CommandSuiteUsage(cmd, nil))
	require.ErrorContains(t, CommandSuiteUsage(cmd, []string{"bogus"}), `invalid subcommand "bogus"`)
}

func TestAddressValue(t *testing.T) {
	var v AddressValue
	require.Equal(t, "", v.String())
	require.Equal(t, "address", v.Type())
	require.ErrorContains(t, v.Set("0x12"), "is not a hex address")
	require.NoError(t, v.Set("0x00000000000000000000000000000000000000aa"))
	require.Equal(t, common.HexToAddress("0xaa"), v.Addr)
	require.Equal(t, common.HexToAddress("0xaa").Hex(), v.String())
}
