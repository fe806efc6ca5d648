package filter

import (
	"math"
	"testing"
)

func TestGaussianDegenerate(t *testing.T) {
	for _, sigma := range []float64{0, -1, -5.5} {
		kernel := Gaussian(sigma)

		if len(kernel) != 1 {
			t.Errorf("Gaussian(%v) len = %d, want 1", sigma, len(kernel))
		}
		if kernel[0] != 1.0 {
			t.Errorf("Gaussian(%v)[0] = %v, want 1.0", sigma, kernel[0])
		}
	}
}

func TestGaussianSize(t *testing.T) {
	tests := []struct {
		sigma    float64
		wantSize int
	}{
		{0.2, 3},  // radius = max(1, ceil(0.6)) = 1
		{0.5, 5},  // radius = ceil(1.5) = 2
		{1.0, 7},  // radius = ceil(3) = 3
		{2.0, 13}, // radius = ceil(6) = 6
		{5.0, 31}, // radius = ceil(15) = 15
	}

	for _, tt := range tests {
		kernel := Gaussian(tt.sigma)
		if len(kernel) != tt.wantSize {
			t.Errorf("Gaussian(%v) len = %d, want %d", tt.sigma, len(kernel), tt.wantSize)
		}
		if len(kernel)%2 != 1 {
			t.Errorf("Gaussian(%v) len = %d, want odd", tt.sigma, len(kernel))
		}
	}
}

func TestGaussianNormalized(t *testing.T) {
	sigmas := []float64{0.3, 1, 2, 3, 5, 10}

	for _, sigma := range sigmas {
		kernel := Gaussian(sigma)

		var sum float32
		for _, v := range kernel {
			sum += v
		}

		if math.Abs(float64(sum)-1.0) > 1e-4 {
			t.Errorf("Gaussian(%v) sum = %v, want ~1.0", sigma, sum)
		}
	}
}

func TestGaussianSymmetric(t *testing.T) {
	kernel := Gaussian(2.5)
	n := len(kernel)

	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if math.Abs(float64(kernel[i]-kernel[j])) > 1e-6 {
			t.Errorf("kernel[%d] = %v != kernel[%d] = %v (asymmetric)", i, kernel[i], j, kernel[j])
		}
	}
}

func TestGaussianPeakAtCenter(t *testing.T) {
	kernel := Gaussian(3)
	center := len(kernel) / 2

	maxIdx := 0
	maxVal := kernel[0]
	for i, v := range kernel {
		if v > maxVal {
			maxVal = v
			maxIdx = i
		}
	}

	if maxIdx != center {
		t.Errorf("kernel peak at %d, want %d (center)", maxIdx, center)
	}
}

func TestBoxDegenerate(t *testing.T) {
	kernel := Box(0)

	if len(kernel) != 1 {
		t.Errorf("Box(0) len = %d, want 1", len(kernel))
	}
	if kernel[0] != 1.0 {
		t.Errorf("Box(0)[0] = %v, want 1.0", kernel[0])
	}
}

func TestBoxUniform(t *testing.T) {
	kernel := Box(3)
	wantSize := 7
	wantVal := float32(1.0 / 7.0)

	if len(kernel) != wantSize {
		t.Errorf("Box(3) len = %d, want %d", len(kernel), wantSize)
	}

	for i, v := range kernel {
		if math.Abs(float64(v-wantVal)) > 1e-6 {
			t.Errorf("Box(3)[%d] = %v, want %v", i, v, wantVal)
		}
	}
}

func TestRadius(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{1, 0},
		{3, 1},
		{7, 3},
		{31, 15},
	}

	for _, tt := range tests {
		got := Radius(make([]float32, tt.size))
		if got != tt.want {
			t.Errorf("Radius(len %d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestCachedGaussian(t *testing.T) {
	k1 := CachedGaussian(1.5)
	k2 := CachedGaussian(1.5)

	if len(k1) != len(k2) {
		t.Fatalf("cached kernel len mismatch: %d != %d", len(k1), len(k2))
	}
	for i := range k1 {
		if k1[i] != k2[i] {
			t.Errorf("cached kernel[%d] mismatch: %v != %v", i, k1[i], k2[i])
		}
	}

	fresh := Gaussian(1.5)
	for i := range fresh {
		if k1[i] != fresh[i] {
			t.Errorf("cached kernel[%d] = %v, want %v (fresh)", i, k1[i], fresh[i])
		}
	}
}

func TestCachedGaussianDifferentSigmas(t *testing.T) {
	k1 := CachedGaussian(1.0)
	k2 := CachedGaussian(4.0)

	if len(k1) == len(k2) {
		t.Error("different sigmas should produce different kernel sizes")
	}
}

func BenchmarkGaussian(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Gaussian(2.0)
	}
}

func BenchmarkCachedGaussian(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = CachedGaussian(2.0)
	}
}
