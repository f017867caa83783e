// Package perf implements the opt-in profiling mode of a generation run.
package perf

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Start begins CPU profiling and returns a stop function that also captures a
// heap profile. Profiles land at <prefix>.cpu.pb.gz and <prefix>.heap.pb.gz.
func Start(prefix string) (func() error, error) {
	cpu, err := os.Create(prefix + ".cpu.pb.gz")
	if err != nil {
		return nil, fmt.Errorf("creating cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpu); err != nil {
		cpu.Close()
		return nil, fmt.Errorf("starting cpu profile: %w", err)
	}

	return func() error {
		pprof.StopCPUProfile()
		if err := cpu.Close(); err != nil {
			return fmt.Errorf("closing cpu profile: %w", err)
		}

		heap, err := os.Create(prefix + ".heap.pb.gz")
		if err != nil {
			return fmt.Errorf("creating heap profile: %w", err)
		}
		defer heap.Close()
		runtime.GC() // settle allocations before the snapshot
		if err := pprof.WriteHeapProfile(heap); err != nil {
			return fmt.Errorf("writing heap profile: %w", err)
		}
		return nil
	}, nil
}
