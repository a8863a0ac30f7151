package mathutil

import (
	"math"
	"testing"
)

func TestErf(t *testing.T) {
	tests := []struct {
		x        float64
		expected float64
		delta    float64
	}{
		{0, 0, 1e-7},
		{0.5, 0.5205, 0.0001},
		{1, 0.8427, 0.0001},
		{2, 0.9953, 0.0001},
		{-1, -0.8427, 0.0001},
	}

	for _, tt := range tests {
		result := Erf(tt.x)
		if math.Abs(result-tt.expected) > tt.delta {
			t.Errorf("Erf(%.1f) = %.4f, want %.4f", tt.x, result, tt.expected)
		}
	}
}

func TestErfMatchesStdlib(t *testing.T) {
	// A&S 7.1.26 max error is 1.5e-7
	for x := -4.0; x <= 4.0; x += 0.25 {
		if diff := math.Abs(Erf(x) - math.Erf(x)); diff > 2e-7 {
			t.Errorf("Erf(%.2f) differs from math.Erf by %g", x, diff)
		}
	}
}

func TestErfOddSymmetry(t *testing.T) {
	for _, x := range []float64{0.1, 0.7, 1.3, 2.9, 5} {
		if Erf(-x) != -Erf(x) {
			t.Errorf("Erf(-%v) = %v, want %v", x, Erf(-x), -Erf(x))
		}
	}
}

func TestNormalCDF(t *testing.T) {
	tests := []struct {
		z        float64
		expected float64
		delta    float64
	}{
		{0, 0.5, 1e-9},
		{1, 0.8413, 0.001},
		{-1, 0.1587, 0.001},
		{2, 0.9772, 0.001},
		{-2, 0.0228, 0.001},
	}

	for _, tt := range tests {
		result := NormalCDF(tt.z)
		if math.Abs(result-tt.expected) > tt.delta {
			t.Errorf("NormalCDF(%.1f) = %.4f, want %.4f", tt.z, result, tt.expected)
		}
	}
}

func TestNormalCDFMonotonic(t *testing.T) {
	prev := NormalCDF(-3)
	for z := -2.9; z <= 3; z += 0.1 {
		cur := NormalCDF(z)
		if cur < prev {
			t.Fatalf("NormalCDF not monotonic at z=%.1f: %v < %v", z, cur, prev)
		}
		prev = cur
	}
}
