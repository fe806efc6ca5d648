package img2pic

import "errors"

var (
	// ErrDimensionMismatch indicates that the sample buffer length does
	// not equal width * height, or that a dimension is not positive.
	ErrDimensionMismatch = errors.New("img2pic: buffer length does not match width * height")

	// ErrInvalidKernel indicates a kernel of even or zero length.
	// Convolution needs an odd length to center the stencil.
	ErrInvalidKernel = errors.New("img2pic: kernel length must be odd and nonzero")

	// ErrRadiusTooLarge indicates a kernel radius at or above a buffer
	// dimension. The reflect-101 formula is only defined for a single
	// reflection, so such radii are rejected rather than silently
	// misread.
	ErrRadiusTooLarge = errors.New("img2pic: kernel radius must be smaller than width and height")
)
