// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	maxAmount := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	huge, _ := new(big.Int).SetString("100000000000000000000000", 10)
	tests := []struct {
		name     string
		amount   *big.Int
		expected string
	}{
		{"nil", nil, "0"},
		{"small", big.NewInt(1000000), "1_000_000"},
		{"max", maxAmount, "max"},
		{"beyond uint64", huge, "100000000000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatAmount(tt.amount, maxAmount))
		})
	}
}

func TestPrintToUser(t *testing.T) {
	var buf bytes.Buffer
	ul := &UserLog{log: logging.NoLog{}, Writer: &buf}
	ul.PrintToUser("deployed %s at %s", "Vault", "0x01")
	require.Equal(t, "deployed Vault at 0x01\n", buf.String())
}
