package filter

import "testing"

func TestReflect101(t *testing.T) {
	tests := []struct {
		x     int
		limit int
		want  int
	}{
		{0, 10, 0},
		{5, 10, 5},
		{9, 10, 9},
		{-1, 10, 1},
		{-2, 10, 2},
		{10, 10, 8},
		{11, 10, 7},
	}

	for _, tt := range tests {
		got := Reflect101(tt.x, tt.limit)
		if got != tt.want {
			t.Errorf("Reflect101(%d, %d) = %d, want %d", tt.x, tt.limit, got, tt.want)
		}
	}
}

func TestReflect101_EdgeProperties(t *testing.T) {
	for _, limit := range []int{2, 3, 7, 100} {
		if got := Reflect101(0, limit); got != 0 {
			t.Errorf("Reflect101(0, %d) = %d, want 0", limit, got)
		}
		if got := Reflect101(limit-1, limit); got != limit-1 {
			t.Errorf("Reflect101(%d, %d) = %d, want %d", limit-1, limit, got, limit-1)
		}
		if got := Reflect101(-1, limit); got != 1 {
			t.Errorf("Reflect101(-1, %d) = %d, want 1", limit, got)
		}
		if got := Reflect101(limit, limit); got != limit-2 {
			t.Errorf("Reflect101(%d, %d) = %d, want %d", limit, limit, got, limit-2)
		}
	}
}

func TestReflect101_LimitOne(t *testing.T) {
	for _, x := range []int{-3, -1, 0, 1, 5} {
		if got := Reflect101(x, 1); got != 0 {
			t.Errorf("Reflect101(%d, 1) = %d, want 0", x, got)
		}
	}
}

func TestReflect101_InRangeForSmallRadii(t *testing.T) {
	// Every coordinate at most limit-1 steps out of range must land
	// back inside [0, limit).
	for _, limit := range []int{1, 2, 3, 5, 16} {
		for x := -(limit - 1); x < 2*limit-1; x++ {
			got := Reflect101(x, limit)
			if got < 0 || got >= limit {
				t.Errorf("Reflect101(%d, %d) = %d, out of [0, %d)", x, limit, got, limit)
			}
		}
	}
}
