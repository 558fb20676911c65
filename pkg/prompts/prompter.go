// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ava-labs/libevm/common"
	"github.com/manifoldco/promptui"
)

// Prompter asks the user for values that were not given as flags
type Prompter interface {
	CaptureAddress(promptStr string) (common.Address, error)
	CapturePositiveBigInt(promptStr string) (*big.Int, error)
}

type realPrompter struct{}

// Global variable that can be replaced during testing
var promptUIRunner = func(prompt promptui.Prompt) (string, error) {
	return prompt.Run()
}

func NewPrompter() Prompter {
	return &realPrompter{}
}

func (*realPrompter) CaptureAddress(promptStr string) (common.Address, error) {
	prompt := promptui.Prompt{
		Label:    promptStr,
		Validate: validateAddress,
	}
	addressStr, err := promptUIRunner(prompt)
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(strings.TrimSpace(addressStr)), nil
}

// CapturePositiveBigInt accepts underscores as digit separators
func (*realPrompter) CapturePositiveBigInt(promptStr string) (*big.Int, error) {
	prompt := promptui.Prompt{
		Label:    promptStr,
		Validate: validatePositiveBigInt,
	}
	amountStr, err := promptUIRunner(prompt)
	if err != nil {
		return nil, err
	}
	amount, ok := parseBigInt(amountStr)
	if !ok {
		return nil, errors.New("SetString: error")
	}
	return amount, nil
}

func parseBigInt(input string) (*big.Int, bool) {
	return new(big.Int).SetString(strings.ReplaceAll(strings.TrimSpace(input), "_", ""), 10)
}

func validateAddress(input string) error {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return errors.New("invalid address")
	}
	if common.HexToAddress(input) == (common.Address{}) {
		return errors.New("zero address")
	}
	return nil
}

func validatePositiveBigInt(input string) error {
	n, ok := parseBigInt(input)
	if !ok || n.Sign() <= 0 {
		return errors.New("invalid number")
	}
	return nil
}
