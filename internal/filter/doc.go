// Package filter implements the CPU reference kernels for img2pic:
//   - reflect-101 boundary handling
//   - normalized 1D Gaussian kernel synthesis
//   - separable convolution (horizontal pass, then vertical pass)
//   - Sobel gradient computation
//
// All functions operate on flat, row-major float32 sample buffers of
// width*height elements. Inputs are never mutated; outputs are freshly
// allocated and owned by the caller.
//
// The package trusts its preconditions: buffers match their declared
// dimensions, kernels have odd length, and the kernel radius is smaller
// than both dimensions. The public img2pic package validates all of
// this before calling in.
package filter
