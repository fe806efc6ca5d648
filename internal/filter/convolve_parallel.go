package filter

import (
	"sync"

	"github.com/AndreaFrederica/img2pic/internal/parallel"
)

// ParallelThreshold is the sample count at which the banded parallel
// paths start paying for their scheduling overhead. Below it the
// sequential functions are faster.
const ParallelThreshold = 1 << 16

var (
	poolOnce sync.Once
	pool     *parallel.WorkerPool
)

// sharedPool lazily starts the package worker pool. The pool lives for
// the process; filtering workloads are bursty and reuse it across calls.
func sharedPool() *parallel.WorkerPool {
	poolOnce.Do(func() {
		pool = parallel.NewWorkerPool(0)
	})
	return pool
}

// bands splits [0, n) into contiguous ranges, one work item per range.
// The range count is a small multiple of the worker count so the
// stealing pool can balance uneven bands.
func bands(n, workers int) [][2]int {
	count := workers * 4
	if count > n {
		count = n
	}
	if count < 1 {
		count = 1
	}

	out := make([][2]int, 0, count)
	size := (n + count - 1) / count
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}

// ConvolveSeparableParallel is ConvolveSeparable with the horizontal
// pass banded across rows and the vertical pass banded across columns.
// Every band writes disjoint output indices and the per-pixel summation
// order is unchanged, so the result is bit-identical to the sequential
// path.
func ConvolveSeparableParallel(src []float32, width, height int, kernel []float32) []float32 {
	tmp := make([]float32, len(src))
	dst := make([]float32, len(src))
	p := sharedPool()

	rowBands := bands(height, p.Workers())
	work := make([]func(), len(rowBands))
	for i, b := range rowBands {
		y0, y1 := b[0], b[1]
		work[i] = func() {
			convolveRows(src, tmp, width, kernel, y0, y1)
		}
	}
	p.ExecuteAll(work)

	colBands := bands(width, p.Workers())
	work = make([]func(), len(colBands))
	for i, b := range colBands {
		x0, x1 := b[0], b[1]
		work[i] = func() {
			convolveCols(tmp, dst, width, height, kernel, x0, x1)
		}
	}
	p.ExecuteAll(work)

	return dst
}

// SobelParallel is Sobel with rows banded across the shared pool.
// Bit-identical to the sequential path.
func SobelParallel(src []float32, width, height int) ([]float32, []float32) {
	gx := make([]float32, len(src))
	gy := make([]float32, len(src))
	p := sharedPool()

	rowBands := bands(height, p.Workers())
	work := make([]func(), len(rowBands))
	for i, b := range rowBands {
		y0, y1 := b[0], b[1]
		work[i] = func() {
			sobelRows(src, gx, gy, width, height, y0, y1)
		}
	}
	p.ExecuteAll(work)

	return gx, gy
}
