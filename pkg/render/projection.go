package render

import (
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// coordLimit bounds projected pixel coordinates. Vertices at or behind the
// camera plane project to huge or non-finite values; clamping keeps the
// integer cross products in Barycentric far from overflow.
const coordLimit = 1 << 24

// Point is an integer pixel position.
type Point struct {
	X, Y int
}

// ScreenPoint is a projected vertex: its pixel position plus the model-space
// z used for the depth test.
type ScreenPoint struct {
	Point
	Z float64
}

// ProjectionMatrix returns the perspective term for a camera at distance c
// on the z axis: the identity with row 3 set to (0, 0, -1/c, 1), so that
// w = 1 - z/c.
func ProjectionMatrix(c float64) math3d.Mat4 {
	return math3d.FromRows(
		[4]float64{1, 0, 0, 0},
		[4]float64{0, 1, 0, 0},
		[4]float64{0, 0, 1, 0},
		[4]float64{0, 0, -1 / c, 1},
	)
}

// ViewportMatrix maps the cube [-1,1]^3 into a 3/4-size region centered on
// a width x height image, with z in [0, depth].
func ViewportMatrix(width, height int, depth float64) math3d.Mat4 {
	w, h := float64(width), float64(height)
	return math3d.FromRows(
		[4]float64{w * 3 / 8, 0, 0, w / 2},
		[4]float64{0, h * 3 / 8, 0, h / 2},
		[4]float64{0, 0, depth / 2, depth / 2},
		[4]float64{0, 0, 0, 1},
	)
}

// Projector maps model-space positions to pixels.
type Projector struct {
	m math3d.Mat4
}

// NewProjector composes viewport and projection for one output size.
func NewProjector(width, height int, cfg Config) Projector {
	return Projector{
		m: ViewportMatrix(width, height, cfg.DepthResolution).Mul(ProjectionMatrix(cfg.CameraDistance)),
	}
}

// Matrix returns the composed viewport * projection transform.
func (p Projector) Matrix() math3d.Mat4 {
	return p.m
}

// Project transforms v in homogeneous coordinates, divides by w and
// truncates x and y toward zero.
func (p Projector) Project(v math3d.Vec3) ScreenPoint {
	h := p.m.MulVec4(math3d.V4FromV3(v, 1))
	x, y := h.X/h.W, h.Y/h.W
	return ScreenPoint{
		Point: Point{X: truncate(x), Y: truncate(y)},
		Z:     v.Z,
	}
}

// truncate converts toward zero after clamping to ±coordLimit. NaN maps to
// the negative limit, which the bounding-box clamp then discards.
func truncate(f float64) int {
	switch {
	case math.IsNaN(f):
		return -coordLimit
	case f > coordLimit:
		return coordLimit
	case f < -coordLimit:
		return -coordLimit
	}
	return int(f)
}
