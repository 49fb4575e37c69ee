package main

import (
	"runtime"

	mht2html "github.com/5ime/mht2html"
)

// resolveWorkers determines the extraction pool size.
// Priority: explicit value > GOMAXPROCS-capped default.
func resolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// Auto: the library default, capped by GOMAXPROCS (adjusted by
	// automaxprocs for containers). Extraction is disk-bound, so more
	// workers than cores buys nothing.
	n := runtime.GOMAXPROCS(0)
	if n > mht2html.DefaultWorkers {
		n = mht2html.DefaultWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}
