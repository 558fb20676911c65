// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"fmt"
	"io"

	progressbar "github.com/schollz/progressbar/v3"
)

// StepsProgressBar renders progress over [steps] known steps into [w]
func StepsProgressBar(w io.Writer, steps int, title string) *progressbar.ProgressBar {
	return progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(title),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// StepExecuted advances [bar] by one step, describing the step just done
func StepExecuted(bar *progressbar.ProgressBar, description string) error {
	bar.Describe(description)
	return bar.Add(1)
}
