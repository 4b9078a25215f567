package vectorstore

import "testing"

func TestClampScoreBounds(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-0.3, 0}, // opposite-direction vectors under cosine
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.0001, 1}, // floating-point drift from the backend
	}
	for _, tc := range cases {
		if got := clampScore(tc.in); got != tc.want {
			t.Fatalf("clampScore(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestClampScoreMonotonic(t *testing.T) {
	inputs := []float64{-1, -0.5, 0, 0.2, 0.5, 0.9, 1, 1.5}
	prev := clampScore(inputs[0])
	for _, in := range inputs[1:] {
		cur := clampScore(in)
		if cur < prev {
			t.Fatalf("clampScore not monotonic at %v", in)
		}
		prev = cur
	}
}
