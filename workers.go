package md2html

import "runtime"

// Worker sizing bounds for batch conversion.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps goroutines reading and writing files at once.
	MaxWorkers = 16
)

// ResolveWorkers determines how many documents to convert in parallel.
// An explicit positive value wins; otherwise it follows GOMAXPROCS, which
// automaxprocs adjusts to the container CPU quota.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0)
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
