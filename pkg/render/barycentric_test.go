package render

import (
	"math"
	"testing"
)

func TestBarycentricSumsToOne(t *testing.T) {
	tri := [3]Point{{0, 0}, {40, 3}, {11, 29}}
	points := []Point{
		{0, 0}, {40, 3}, {11, 29}, // corners
		{17, 11}, {20, 2}, {5, 14}, // interior and edges
		{-7, 50}, {100, -3}, {41, 41}, // outside
	}
	for _, p := range points {
		bc := Barycentric(tri[0], tri[1], tri[2], p)
		if sum := bc.X + bc.Y + bc.Z; math.Abs(sum-1) > 1e-12 {
			t.Errorf("Barycentric(%v) = %v, sum %v", p, bc, sum)
		}
	}
}

func TestBarycentricCorners(t *testing.T) {
	a, b, c := Point{0, 0}, Point{4, 0}, Point{0, 4}
	tests := []struct {
		name string
		p    Point
		want [3]float64
	}{
		{"A", a, [3]float64{1, 0, 0}},
		{"B", b, [3]float64{0, 1, 0}},
		{"C", c, [3]float64{0, 0, 1}},
		{"inner", Point{1, 1}, [3]float64{0.5, 0.25, 0.25}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bc := Barycentric(a, b, c, tc.p)
			got := [3]float64{bc.X, bc.Y, bc.Z}
			for i := range got {
				if math.Abs(got[i]-tc.want[i]) > 1e-12 {
					t.Errorf("Barycentric(%v) = %v, want %v", tc.p, got, tc.want)
					break
				}
			}
		})
	}
}

func TestInTriangle(t *testing.T) {
	a, b, c := Point{0, 0}, Point{4, 0}, Point{0, 4}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{1, 1}, true},
		{Point{5, 5}, false},
		{Point{0, 0}, true},  // corner
		{Point{2, 2}, true},  // on the hypotenuse
		{Point{2, 0}, true},  // on the base
		{Point{3, 2}, false}, // just past the hypotenuse
		{Point{-1, 1}, false},
	}
	for _, tc := range tests {
		if got := InTriangle(a, b, c, tc.p); got != tc.want {
			t.Errorf("InTriangle(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestBarycentricDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Point
	}{
		{"collinear", Point{0, 0}, Point{2, 2}, Point{4, 4}},
		{"repeated corner", Point{3, 3}, Point{3, 3}, Point{9, 1}},
		{"single pixel", Point{5, 5}, Point{5, 5}, Point{5, 5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, p := range []Point{tc.a, tc.b, tc.c, {1, 1}} {
				if InTriangle(tc.a, tc.b, tc.c, p) {
					t.Errorf("degenerate triangle contains %v", p)
				}
			}
			if bc := Barycentric(tc.a, tc.b, tc.c, tc.a); bc != outside {
				t.Errorf("Barycentric = %v, want sentinel %v", bc, outside)
			}
		})
	}
}

func BenchmarkBarycentric(b *testing.B) {
	a, c, d := Point{3, 7}, Point{790, 40}, Point{400, 760}
	p := Point{400, 300}
	for b.Loop() {
		_ = Barycentric(a, c, d, p)
	}
}
