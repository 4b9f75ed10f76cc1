package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Scale(V3(1, 1, 1))
}

// FromRows builds a matrix from its rows as written on paper.
func FromRows(r0, r1, r2, r3 [4]float64) Mat4 {
	return Mat4{
		r0[0], r1[0], r2[0], r3[0],
		r0[1], r1[1], r2[1], r3[1],
		r0[2], r1[2], r2[2], r3[2],
		r0[3], r1[3], r2[3], r3[3],
	}
}

// Translate returns a matrix that moves points by v.
func Translate(v Vec3) Mat4 {
	return FromRows(
		[4]float64{1, 0, 0, v.X},
		[4]float64{0, 1, 0, v.Y},
		[4]float64{0, 0, 1, v.Z},
		[4]float64{0, 0, 0, 1},
	)
}

// Scale returns a matrix scaling each axis by the matching component of v.
func Scale(v Vec3) Mat4 {
	return FromRows(
		[4]float64{v.X, 0, 0, 0},
		[4]float64{0, v.Y, 0, 0},
		[4]float64{0, 0, v.Z, 0},
		[4]float64{0, 0, 0, 1},
	)
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateY returns a rotation of angle radians about the Y axis,
// counter-clockwise when looking down -Y.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return FromRows(
		[4]float64{c, 0, s, 0},
		[4]float64{0, 1, 0, 0},
		[4]float64{-s, 0, c, 0},
		[4]float64{0, 0, 0, 1},
	)
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec3 transforms a Vec3 as a point (w=1).
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}
