//go:build linux
// +build linux

package cmd

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

// measureInstructions runs f under a hardware instruction counter and prints
// the totals. Requires perf_event_open support.
func measureInstructions(label string, f func() error) error {
	pv, err := perf.CPUInstructions(f)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d instructions (enabled %dns, running %dns)\n",
		label, pv.Value, pv.TimeEnabled, pv.TimeRunning)
	return nil
}
