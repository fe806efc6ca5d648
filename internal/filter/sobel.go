package filter

// Sobel stencils:
//
//	Gx = [-1 0 1; -2 0 2; -1 0 1]
//	Gy = [-1 -2 -1; 0 0 0; 1 2 1]

// Sobel computes the horizontal and vertical Sobel gradients of src,
// returning two new buffers of the same length. The 3x3 neighborhood is
// gathered with each coordinate independently reflected at the borders.
func Sobel(src []float32, width, height int) ([]float32, []float32) {
	gx := make([]float32, len(src))
	gy := make([]float32, len(src))
	sobelRows(src, gx, gy, width, height, 0, height)
	return gx, gy
}

// sobelRows computes gradients for rows [y0, y1). Each row writes only
// its own span, so disjoint row bands can run concurrently.
func sobelRows(src, gx, gy []float32, width, height, y0, y1 int) {
	for y := y0; y < y1; y++ {
		ym := Reflect101(y-1, height)
		yp := Reflect101(y+1, height)

		for x := 0; x < width; x++ {
			xm := Reflect101(x-1, width)
			xp := Reflect101(x+1, width)

			a00 := src[ym*width+xm]
			a01 := src[ym*width+x]
			a02 := src[ym*width+xp]
			a10 := src[y*width+xm]
			a12 := src[y*width+xp]
			a20 := src[yp*width+xm]
			a21 := src[yp*width+x]
			a22 := src[yp*width+xp]

			idx := y*width + x
			gx[idx] = (-a00 + a02) + (-2*a10 + 2*a12) + (-a20 + a22)
			gy[idx] = (-a00 - 2*a01 - a02) + (a20 + 2*a21 + a22)
		}
	}
}
