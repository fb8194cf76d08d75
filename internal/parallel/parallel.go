// Package parallel provides chunked fork-join helpers for CPU-bound loops.
// Work over an index range is split into contiguous chunks with a minimum
// grain size so small inputs are not spread across too many goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultGrain is the default minimum number of items per worker.
// Below this, the per-goroutine overhead outweighs the parallel speedup.
const DefaultGrain = 100

// Range is a half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Workers returns the effective worker count for n items:
// min(maxWorkers, n/grain), floored at 1.
//
// maxWorkers <= 0 selects runtime.GOMAXPROCS(0); grain <= 0 selects
// DefaultGrain. The floor at 1 matters: integer division can yield zero
// workers for n < grain, which would leave the range unprocessed.
func Workers(n, maxWorkers, grain int) int {
	if maxWorkers <= 0 {
		maxWorkers = runtime.GOMAXPROCS(0)
	}
	if grain <= 0 {
		grain = DefaultGrain
	}

	workers := n / grain
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 1 {
		workers = 1
	}

	return workers
}

// Chunks partitions [0, n) into one contiguous range per worker.
// Every chunk has nominal size n/workers; the last chunk absorbs the
// remainder so the union is exactly [0, n) with no gaps or overlaps.
// Returns nil for n <= 0.
func Chunks(n, maxWorkers, grain int) []Range {
	if n <= 0 {
		return nil
	}

	workers := Workers(n, maxWorkers, grain)
	nominal := n / workers

	chunks := make([]Range, workers)
	for i := range chunks {
		chunks[i] = Range{Start: i * nominal, End: (i + 1) * nominal}
	}
	chunks[workers-1].End = n

	return chunks
}

// ForEach runs fn over the chunks of [0, n), one goroutine per chunk, and
// waits for all of them. The first non-nil error is returned; fn is expected
// to process indices [start, end) in order.
func ForEach(n, maxWorkers, grain int, fn func(start, end int) error) error {
	chunks := Chunks(n, maxWorkers, grain)
	if len(chunks) == 1 {
		// Single chunk: run inline, no goroutine handoff.
		return fn(chunks[0].Start, chunks[0].End)
	}

	var g errgroup.Group
	for _, c := range chunks {
		c := c
		g.Go(func() error {
			return fn(c.Start, c.End)
		})
	}

	return g.Wait()
}
