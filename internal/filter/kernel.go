package filter

import (
	"math"
	"sync"
)

// Gaussian generates a normalized 1D Gaussian kernel for the given
// standard deviation sigma.
//
// The radius is max(1, ceil(3*sigma)), covering 99.7% of the Gaussian
// distribution, so the kernel length is 2*radius + 1 (always odd).
// Weights sum to 1.0 within floating tolerance.
//
// For sigma <= 0, returns the single-element identity kernel [1.0].
func Gaussian(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1.0}
	}

	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	size := 2*radius + 1

	kernel := make([]float32, size)
	twoSigmaSq := 2 * sigma * sigma
	var sum float32

	for i := -radius; i <= radius; i++ {
		v := float32(math.Exp(-float64(i*i) / twoSigmaSq))
		kernel[i+radius] = v
		sum += v
	}

	inv := 1 / sum
	for i := range kernel {
		kernel[i] *= inv
	}

	return kernel
}

// Box generates a uniform 1D kernel of length 2*radius + 1 where every
// weight is 1/(2*radius+1). Three successive box passes approximate a
// Gaussian well at lower cost.
//
// For radius <= 0, returns the identity kernel [1.0].
func Box(radius int) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}

	size := 2*radius + 1
	kernel := make([]float32, size)
	v := float32(1.0) / float32(size)
	for i := range kernel {
		kernel[i] = v
	}

	return kernel
}

// Radius returns the kernel radius, the half-width excluding the
// center: (len-1)/2 for an odd-length kernel.
func Radius(kernel []float32) int {
	return (len(kernel) - 1) / 2
}

// kernelCache caches generated Gaussian kernels keyed by sigma
// quantized to 0.01 precision. Kernels are pure functions of sigma, so
// cached slices are shared; callers must not mutate them.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[int][]float32
	maxLen int
}

var defaultKernelCache = newKernelCache(64)

func newKernelCache(maxLen int) *kernelCache {
	return &kernelCache{
		cache:  make(map[int][]float32),
		maxLen: maxLen,
	}
}

func (c *kernelCache) get(sigma float64) []float32 {
	key := int(sigma * 100)

	c.mu.RLock()
	if kernel, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()

	kernel := Gaussian(sigma)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Evict half the entries. Good enough for the handful of
		// sigmas a real pipeline cycles through.
		count := 0
		for k := range c.cache {
			delete(c.cache, k)
			count++
			if count >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = kernel
	c.mu.Unlock()

	return kernel
}

// CachedGaussian returns a cached Gaussian kernel for sigma. Useful
// when the same sigma is applied to many frames. The returned slice is
// shared and must not be modified.
func CachedGaussian(sigma float64) []float32 {
	return defaultKernelCache.get(sigma)
}
