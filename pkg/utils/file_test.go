// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTripOnFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/deployments/1337/deployments.json"
	require.False(t, FileExists(fs, path))

	type record struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	in := record{Name: "Vault", Address: "0x01"}
	require.NoError(t, WriteJSON(fs, path, in))
	require.True(t, FileExists(fs, path))
	require.False(t, FileExists(fs, "/deployments/1337"))

	var out record
	require.NoError(t, ReadJSON(fs, path, &out))
	require.Equal(t, in, out)
}

func TestReadJSONInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.json", []byte("{"), 0o644))
	var out map[string]string
	err := ReadJSON(fs, "bad.json", &out)
	require.ErrorContains(t, err, "failure unmarshalling json file bad.json")
	require.Error(t, ReadJSON(fs, "missing.json", &out))
}
