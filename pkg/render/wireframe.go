package render

import (
	"image/color"

	"github.com/taigrr/tinyrender/pkg/models"
)

// DrawMeshWireframe draws the three edges of every face with DrawLine.
// There is no culling and no depth test.
func (r *Rasterizer) DrawMeshWireframe(mesh *models.Mesh, c color.RGBA) {
	for i := range mesh.Faces {
		a, b, cc := mesh.FacePositions(i)
		pts := [3]Point{
			r.proj.Project(a).Point,
			r.proj.Project(b).Point,
			r.proj.Project(cc).Point,
		}
		for k := range 3 {
			p, q := pts[k], pts[(k+1)%3]
			r.fb.DrawLine(p.X, p.Y, q.X, q.Y, c)
		}
		if r.Progress != nil {
			r.Progress(i+1, len(mesh.Faces))
		}
	}
}

// RenderWireframe is the wireframe counterpart of Render.
func RenderWireframe(mesh *models.Mesh, width, height int, cfg Config, c color.RGBA) (*Framebuffer, error) {
	if err := checkPass(mesh, width, height, cfg, false); err != nil {
		return nil, err
	}
	fb := NewFramebuffer(width, height)
	NewRasterizer(fb, cfg).DrawMeshWireframe(mesh, c)
	fb.FlipVertical()
	return fb, nil
}
