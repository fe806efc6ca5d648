package filter

// Reflect101 maps an out-of-range 1D coordinate back into [0, limit)
// by mirroring across the edge without repeating the edge sample
// (OpenCV's BORDER_REFLECT_101).
//
//	Reflect101(-1, 10) == 1
//	Reflect101(10, 10) == 8
//
// The formula applies a single reflection, so it is only valid for
// coordinates that are at most limit-1 steps out of range. Callers
// guarantee this by keeping kernel radii below the buffer dimension.
func Reflect101(x, limit int) int {
	if limit == 1 {
		return 0
	}
	if x < 0 {
		return -x
	}
	if x >= limit {
		return 2*limit - 2 - x
	}
	return x
}
