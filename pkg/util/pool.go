package util

import "runtime"

// BuildWorkers returns the number of pages generated concurrently.
//
// Formula: min(max(runtime.NumCPU(), 2), 16)
//
// Page generation is CPU-bound string building with a small write at the
// end, so one worker per core is enough. The cap keeps open file handles
// bounded on large machines.
func BuildWorkers() int {
	n := runtime.NumCPU()
	if n < 2 {
		n = 2
	}
	if n > 16 {
		n = 16
	}
	return n
}

// BuildWorkersWithOverride returns override when positive, otherwise BuildWorkers().
func BuildWorkersWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return BuildWorkers()
}
