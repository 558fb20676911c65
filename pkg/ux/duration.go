// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"fmt"
	"strings"
	"time"
)

var durationUnits = []struct {
	name string
	d    time.Duration
}{
	{"year", 24 * 365 * time.Hour},
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// FormatDuration returns a user friendly string for a duration, with second precision
func FormatDuration(d time.Duration) string {
	parts := []string{}
	for _, unit := range durationUnits {
		n := d / unit.d
		if n == 0 {
			continue
		}
		d -= n * unit.d
		name := unit.name
		if n != 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, name))
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, " ")
}
