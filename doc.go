// Package img2pic provides the image-filtering kernels behind the
// img2pic seam-carving pipeline: Gaussian kernel synthesis, separable
// convolution, and Sobel gradient computation over flat float32 sample
// buffers.
//
// # Overview
//
// Images are represented as flat, row-major float32 buffers with
// explicit width and height; sample index (x, y) lives at y*width + x.
// Out-of-range neighbor coordinates are reflected across the edge
// without repeating the edge sample (reflect-101), so edge pixels need
// no special casing and no padding buffer is ever allocated.
//
// # Quick Start
//
//	import "github.com/AndreaFrederica/img2pic"
//
//	kernel := img2pic.GaussianKernel1D(1.5)
//
//	blurred, err := img2pic.ConvolveSeparable(src, width, height, kernel)
//	if err != nil {
//	    return err
//	}
//
//	grad, err := img2pic.Sobel(blurred, width, height)
//	if err != nil {
//	    return err
//	}
//	// grad.Gx and grad.Gy feed the energy map downstream.
//
// # Execution
//
// Every operation is a pure function: inputs are never mutated and
// outputs are freshly allocated. Small buffers run sequentially; large
// buffers are banded across a work-stealing worker pool with
// bit-identical results. An optional GPU accelerator can be enabled by
// blank import:
//
//	import _ "github.com/AndreaFrederica/img2pic/gpu"
//
// When the accelerator cannot handle an operation (or no GPU is
// available) the call transparently falls back to the CPU path.
//
// # Errors
//
// Inputs are validated up front: [ErrDimensionMismatch],
// [ErrInvalidKernel] and [ErrRadiusTooLarge] are the only failure
// modes. A call either returns a complete, correct buffer or an error,
// never a partial result. A non-positive sigma is not an error; it
// yields the degenerate identity kernel [1.0].
package img2pic
