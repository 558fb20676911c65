// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ava-labs/bend-deployer/pkg/constants"
	"github.com/spf13/afero"
)

// FileExists checks if a file exists on [fs].
func FileExists(fs afero.Fs, filename string) bool {
	info, err := fs.Stat(filename)
	if os.IsNotExist(err) || err != nil {
		return false
	}
	return !info.IsDir()
}

// ReadJSON unmarshals the json file at [path] into [v]
func ReadJSON(fs afero.Fs, path string, v interface{}) error {
	bs, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bs, v); err != nil {
		return fmt.Errorf("failure unmarshalling json file %s: %w", path, err)
	}
	return nil
}

// WriteJSON marshals [v] into an indented json file at [path], creating parent dirs
func WriteJSON(fs afero.Fs, path string, v interface{}) error {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), constants.DefaultPerms755); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, bs, constants.WriteReadReadPerms)
}
