package render

import "github.com/taigrr/tinyrender/pkg/math3d"

// outside is returned by Barycentric for triangles with no area at pixel
// resolution. Its negative component fails every inside test.
var outside = math3d.V3(-1, 1, 1)

// Barycentric returns the weights of p relative to the corners a, b, c.
// The weights sum to 1. It works on the integer cross product of
// (Cx-Ax, Bx-Ax, Ax-Px) and (Cy-Ay, By-Ay, Ay-Py); when that product has
// |z| < 1 the triangle is degenerate and (-1, 1, 1) is returned.
func Barycentric(a, b, c, p Point) math3d.Vec3 {
	x1, x2, x3 := c.X-a.X, b.X-a.X, a.X-p.X
	y1, y2, y3 := c.Y-a.Y, b.Y-a.Y, a.Y-p.Y

	ux := x2*y3 - x3*y2
	uy := x3*y1 - x1*y3
	uz := x1*y2 - x2*y1
	if uz == 0 {
		return outside
	}

	fx, fy, fz := float64(ux), float64(uy), float64(uz)
	return math3d.V3(1-(fx+fy)/fz, fy/fz, fx/fz)
}

// InTriangle reports whether p lies inside or on the edge of triangle abc.
func InTriangle(a, b, c, p Point) bool {
	return inside(Barycentric(a, b, c, p))
}

func inside(bc math3d.Vec3) bool {
	return bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0
}
