package img2pic

import (
	"errors"

	"github.com/AndreaFrederica/img2pic/internal/filter"
)

// GaussianKernel1D synthesizes a normalized 1D Gaussian kernel for the
// given standard deviation.
//
// The kernel radius is max(1, ceil(3*sigma)), so the length is always
// odd, and the weights sum to 1.0 within floating tolerance. For
// sigma <= 0 the degenerate identity kernel [1.0] is returned; this is
// a defined case, not an error.
//
// The output is a pure function of sigma. For repeated use of the same
// sigma, see [CachedGaussianKernel1D].
func GaussianKernel1D(sigma float64) []float32 {
	return filter.Gaussian(sigma)
}

// CachedGaussianKernel1D returns a cached Gaussian kernel for sigma,
// avoiding resynthesis when the same sigma is applied frame after
// frame. The returned slice is shared and must not be modified; copy
// it if mutation is needed.
func CachedGaussianKernel1D(sigma float64) []float32 {
	return filter.CachedGaussian(sigma)
}

// BoxKernel1D synthesizes a uniform kernel of length 2*radius+1 where
// every weight is 1/(2*radius+1). Box filtering is cheaper than
// Gaussian and three successive passes approximate it well. For
// radius <= 0 the identity kernel [1.0] is returned.
func BoxKernel1D(radius int) []float32 {
	return filter.Box(radius)
}

// ConvolveSeparable convolves src with the 1D kernel along rows and
// then columns, returning a new buffer of identical dimensions. For a
// kernel that is the outer product of itself with itself (true for
// Gaussian kernels), this equals full 2D convolution at a fraction of
// the cost.
//
// Out-of-range neighbor coordinates are reflected across the edge
// without repeating the edge sample (reflect-101). src is never
// mutated.
//
// Returns [ErrDimensionMismatch] if len(src) != width*height,
// [ErrInvalidKernel] for an even or empty kernel, and
// [ErrRadiusTooLarge] if the kernel radius reaches either dimension
// (a single reflection cannot map such offsets back in range).
func ConvolveSeparable(src []float32, width, height int, kernel []float32) ([]float32, error) {
	if err := validateBuffer(src, width, height); err != nil {
		return nil, err
	}
	if err := validateKernel(kernel, width, height); err != nil {
		return nil, err
	}

	if a := RegisteredAccelerator(); a != nil && a.CanAccelerate(AccelConvolve) {
		dst := make([]float32, len(src))
		err := a.Convolve(src, width, height, kernel, dst)
		if err == nil {
			return dst, nil
		}
		if !errors.Is(err, ErrFallbackToCPU) {
			Logger().Warn("GPU convolve failed, falling back to CPU",
				"accelerator", a.Name(), "err", err)
		}
	}

	if len(src) >= filter.ParallelThreshold {
		return filter.ConvolveSeparableParallel(src, width, height, kernel), nil
	}
	return filter.ConvolveSeparable(src, width, height, kernel), nil
}

// Sobel computes the horizontal and vertical Sobel gradients of src,
// returned together as a [Gradient]. The fixed 3x3 stencils are:
//
//	Gx = [-1 0 1; -2 0 2; -1 0 1]
//	Gy = [-1 -2 -1; 0 0 0; 1 2 1]
//
// Border neighborhoods are gathered with each coordinate independently
// reflected (reflect-101). src is never mutated.
//
// Returns [ErrDimensionMismatch] if len(src) != width*height.
func Sobel(src []float32, width, height int) (Gradient, error) {
	if err := validateBuffer(src, width, height); err != nil {
		return Gradient{}, err
	}

	if a := RegisteredAccelerator(); a != nil && a.CanAccelerate(AccelSobel) {
		gx := make([]float32, len(src))
		gy := make([]float32, len(src))
		err := a.Sobel(src, width, height, gx, gy)
		if err == nil {
			return Gradient{Gx: gx, Gy: gy}, nil
		}
		if !errors.Is(err, ErrFallbackToCPU) {
			Logger().Warn("GPU sobel failed, falling back to CPU",
				"accelerator", a.Name(), "err", err)
		}
	}

	var gx, gy []float32
	if len(src) >= filter.ParallelThreshold {
		gx, gy = filter.SobelParallel(src, width, height)
	} else {
		gx, gy = filter.Sobel(src, width, height)
	}
	return Gradient{Gx: gx, Gy: gy}, nil
}

// validateBuffer checks the flat-buffer contract: positive dimensions
// and len(src) == width*height.
func validateBuffer(src []float32, width, height int) error {
	if width <= 0 || height <= 0 || len(src) != width*height {
		return ErrDimensionMismatch
	}
	return nil
}

// validateKernel checks the kernel contract for separable convolution:
// odd nonzero length, and a radius a single reflection can handle.
func validateKernel(kernel []float32, width, height int) error {
	if len(kernel) == 0 || len(kernel)%2 == 0 {
		return ErrInvalidKernel
	}
	radius := filter.Radius(kernel)
	if radius >= width || radius >= height {
		return ErrRadiusTooLarge
	}
	return nil
}
