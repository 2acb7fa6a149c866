//go:build !linux
// +build !linux

package cmd

import (
	"fmt"
)

// Hardware counters need perf_event_open; elsewhere just run the workload.
func measureInstructions(label string, f func() error) error {
	fmt.Printf("%s: hardware counters unavailable on this platform\n", label)
	return f()
}
