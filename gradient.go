package img2pic

// Gradient is the paired result of the Sobel operator: the horizontal
// and vertical gradient buffers of one source image. The two buffers
// always share the source's dimensions and are produced together:
// downstream energy computation needs both to form a magnitude or
// direction, so they are never returned separately.
type Gradient struct {
	// Gx is the horizontal gradient, row-major, width*height samples.
	Gx []float32

	// Gy is the vertical gradient, row-major, width*height samples.
	Gy []float32
}
