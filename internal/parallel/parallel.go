// Package parallel provides a chunked fork-join helper for data-parallel
// loops over independent grid slices.
package parallel

import (
	"runtime"
	"sync"
)

// For executes fn in parallel over the half-open range [0, n), split into
// contiguous chunks of at least minChunk elements. Chunks never overlap, so
// fn needs no synchronization as long as it only touches its own slice.
func For(n, minChunk int, fn func(start, end int)) {
	workers := runtime.NumCPU()
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			if s < e {
				fn(s, e)
			}
		}(start, end)
	}

	wg.Wait()
}
