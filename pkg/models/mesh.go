// Package models loads triangle meshes and their textures into a read-only
// store for the rasterizer.
package models

import (
	"fmt"
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Mesh is the mesh store: the parsed geometry of one model plus the texture
// it is drawn with. It is built once and not mutated during rendering.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3 // model-space vertex positions
	TexCoords []math3d.Vec3 // (u, v, w); w is carried but unused
	Normals   []math3d.Vec3 // not necessarily unit length
	Faces     []Face
	Texture   *Texture
}

// Face is a triangle. Each corner k references Positions[V[k]],
// TexCoords[T[k]] and Normals[N[k]]. Indices are 0-based.
type Face struct {
	V [3]int
	T [3]int
	N [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Positions: make([]math3d.Vec3, 0),
		TexCoords: make([]math3d.Vec3, 0),
		Normals:   make([]math3d.Vec3, 0),
		Faces:     make([]Face, 0),
	}
}

// Validate checks that every face index is in range for its array.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for k := range 3 {
			if err := checkIndex("vertex", f.V[k], len(m.Positions)); err != nil {
				return fmt.Errorf("face %d corner %d: %w", i, k, err)
			}
			if err := checkIndex("texcoord", f.T[k], len(m.TexCoords)); err != nil {
				return fmt.Errorf("face %d corner %d: %w", i, k, err)
			}
			if err := checkIndex("normal", f.N[k], len(m.Normals)); err != nil {
				return fmt.Errorf("face %d corner %d: %w", i, k, err)
			}
		}
	}
	return nil
}

func checkIndex(kind string, idx, n int) error {
	if idx < 0 || idx >= n {
		return fmt.Errorf("%s index %d not in [0,%d): %w", kind, idx, n, ErrIndexRange)
	}
	return nil
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertex positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// FacePositions returns the three model-space corners of face i.
func (m *Mesh) FacePositions(i int) (a, b, c math3d.Vec3) {
	f := m.Faces[i]
	return m.Positions[f.V[0]], m.Positions[f.V[1]], m.Positions[f.V[2]]
}

// FaceTexCoords returns the three texture coordinates of face i.
func (m *Mesh) FaceTexCoords(i int) (a, b, c math3d.Vec3) {
	f := m.Faces[i]
	return m.TexCoords[f.T[0]], m.TexCoords[f.T[1]], m.TexCoords[f.T[2]]
}

// Bounds returns the axis-aligned bounding box of the positions.
// An empty mesh has zero bounds.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Positions) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	lo, hi := m.Bounds()
	return lo.Add(hi).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}

// Transform applies a transformation matrix to all positions and normals.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Positions {
		m.Positions[i] = mat.MulVec3(m.Positions[i])
	}
	// Rotation and uniform scale only; non-uniform scale would need the
	// inverse transpose here.
	for i := range m.Normals {
		m.Normals[i] = mat.MulVec3Dir(m.Normals[i]).Normalize()
	}
}

// FitUnitCube centers the mesh on the origin and scales it uniformly so
// its largest dimension spans [-1, 1], the range the viewport expects.
func (m *Mesh) FitUnitCube() {
	size := m.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 {
		return
	}
	scale := 2.0 / maxDim
	m.Transform(math3d.ScaleUniform(scale).Mul(math3d.Translate(m.Center().Scale(-1))))
}

// Clone creates a deep copy of the geometry. The texture is shared since it
// is read-only.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Positions: make([]math3d.Vec3, len(m.Positions)),
		TexCoords: make([]math3d.Vec3, len(m.TexCoords)),
		Normals:   make([]math3d.Vec3, len(m.Normals)),
		Faces:     make([]Face, len(m.Faces)),
		Texture:   m.Texture,
	}
	copy(clone.Positions, m.Positions)
	copy(clone.TexCoords, m.TexCoords)
	copy(clone.Normals, m.Normals)
	copy(clone.Faces, m.Faces)
	return clone
}
