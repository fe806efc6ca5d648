package filter

// ConvolveSeparable convolves src with a 1D kernel along rows and then
// columns, returning a new buffer of the same length. For a kernel that
// is the outer product of itself (true for Gaussian), the two passes
// are equivalent to full 2D convolution at O(radius) per pixel instead
// of O(radius^2).
//
// Every sampled neighbor coordinate goes through Reflect101, so edge
// pixels need no special casing. src is not modified.
func ConvolveSeparable(src []float32, width, height int, kernel []float32) []float32 {
	tmp := make([]float32, len(src))
	dst := make([]float32, len(src))

	convolveRows(src, tmp, width, kernel, 0, height)
	convolveCols(tmp, dst, width, height, kernel, 0, width)

	return dst
}

// convolveRows runs the horizontal pass for rows [y0, y1).
// Each row writes only its own span of dst, so disjoint row bands can
// run concurrently.
func convolveRows(src, dst []float32, width int, kernel []float32, y0, y1 int) {
	radius := Radius(kernel)

	for y := y0; y < y1; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			var acc float32
			for t := -radius; t <= radius; t++ {
				xx := Reflect101(x+t, width)
				acc += src[row+xx] * kernel[t+radius]
			}
			dst[row+x] = acc
		}
	}
}

// convolveCols runs the vertical pass for columns [x0, x1).
// Each column writes only its own indices of dst, so disjoint column
// bands can run concurrently.
func convolveCols(src, dst []float32, width, height int, kernel []float32, x0, x1 int) {
	radius := Radius(kernel)

	for x := x0; x < x1; x++ {
		for y := 0; y < height; y++ {
			var acc float32
			for t := -radius; t <= radius; t++ {
				yy := Reflect101(y+t, height)
				acc += src[yy*width+x] * kernel[t+radius]
			}
			dst[y*width+x] = acc
		}
	}
}
