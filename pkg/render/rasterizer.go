package render

import (
	"image/color"
	"sync"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/models"
	"golang.org/x/sync/errgroup"
)

// Rasterizer fills the faces of a mesh into a framebuffer. It owns a depth
// buffer for the lifetime of one pass; create a new Rasterizer per pass.
type Rasterizer struct {
	fb    *Framebuffer
	depth *DepthBuffer
	cfg   Config
	proj  Projector

	// Progress, when set, is called as work completes: once per face in a
	// sequential pass, once per band in a banded one. Calls never overlap.
	// ProgressTotal reports the final count up front.
	Progress func(done, total int)
}

// Stats summarizes a pass.
type Stats struct {
	FacesDrawn    int // faces with positive intensity
	FacesCulled   int // faces facing away from the light
	PixelsWritten int // depth test wins, including overdraw
}

// NewRasterizer creates a rasterizer drawing into fb with a fresh depth
// buffer. cfg should already be valid; see Config.Validate.
func NewRasterizer(fb *Framebuffer, cfg Config) *Rasterizer {
	cfg.normalize()
	return &Rasterizer{
		fb:    fb,
		depth: NewDepthBuffer(fb.Width, fb.Height),
		cfg:   cfg,
		proj:  NewProjector(fb.Width, fb.Height, cfg),
	}
}

// Framebuffer returns the target framebuffer.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Depth returns the depth buffer of the current pass.
func (r *Rasterizer) Depth() *DepthBuffer {
	return r.depth
}

// Projector returns the model-to-pixel transform in use.
func (r *Rasterizer) Projector() Projector {
	return r.proj
}

// FaceNormal returns normalize((c-a) x (b-a)). The operand order is fixed:
// for counter-clockwise faces seen from +z it points toward -z, the default
// light direction, so a positive intensity also means the face is visible.
func FaceNormal(a, b, c math3d.Vec3) math3d.Vec3 {
	return c.Sub(a).Cross(b.Sub(a)).Normalize()
}

// preparedFace is a face ready to fill: projected corners, texture
// coordinates and flat intensity.
type preparedFace struct {
	pts       [3]ScreenPoint
	uv        [3]math3d.Vec3
	intensity float64
}

// prepare projects face i. It reports false when the face is culled.
func (r *Rasterizer) prepare(mesh *models.Mesh, i int) (preparedFace, bool) {
	a, b, c := mesh.FacePositions(i)
	intensity := FaceNormal(a, b, c).Dot(r.cfg.LightDirection)
	// Written as a negation so NaN normals are culled too.
	if !(intensity > 0) {
		return preparedFace{}, false
	}

	f := preparedFace{intensity: intensity}
	f.pts[0] = r.proj.Project(a)
	f.pts[1] = r.proj.Project(b)
	f.pts[2] = r.proj.Project(c)
	f.uv[0], f.uv[1], f.uv[2] = mesh.FaceTexCoords(i)
	return f, true
}

// DrawFace fills face i of mesh and reports whether it was drawn. Faces
// whose intensity is not strictly positive are skipped.
func (r *Rasterizer) DrawFace(mesh *models.Mesh, i int) bool {
	f, ok := r.prepare(mesh, i)
	if !ok {
		return false
	}
	r.fill(&f, mesh.Texture, 0, r.fb.Height)
	return true
}

// DrawMesh fills every face of mesh in file order.
func (r *Rasterizer) DrawMesh(mesh *models.Mesh) Stats {
	var stats Stats
	if r.banded() {
		stats = r.drawBanded(mesh)
	} else {
		stats = r.drawSequential(mesh)
	}

	slogger().Debug("draw mesh",
		"mesh", mesh.Name,
		"faces", len(mesh.Faces),
		"drawn", stats.FacesDrawn,
		"culled", stats.FacesCulled,
		"pixels", stats.PixelsWritten,
		"workers", r.cfg.Workers,
	)
	return stats
}

func (r *Rasterizer) drawSequential(mesh *models.Mesh) Stats {
	var stats Stats
	total := len(mesh.Faces)
	for i := range mesh.Faces {
		f, ok := r.prepare(mesh, i)
		if ok {
			stats.FacesDrawn++
			stats.PixelsWritten += r.fill(&f, mesh.Texture, 0, r.fb.Height)
		} else {
			stats.FacesCulled++
		}
		if r.Progress != nil {
			r.Progress(i+1, total)
		}
	}
	return stats
}

// bandsPerWorker splits the rows finer than the worker count so a worker
// that drew a sparse band picks up another one.
const bandsPerWorker = 4

// bandCount returns how many row bands a banded pass uses.
func bandCount(workers, height int) int {
	return min(workers*bandsPerWorker, height)
}

// bandRows returns the half-open row range [lo, hi) of band. Bands tile the
// height and none is empty while bands <= height.
func bandRows(band, bands, height int) (lo, hi int) {
	return band * height / bands, (band + 1) * height / bands
}

func (r *Rasterizer) banded() bool {
	return r.cfg.Workers > 1 && r.fb.Height > 1
}

// ProgressTotal returns the total the Progress hook will report for a
// DrawMesh of mesh.
func (r *Rasterizer) ProgressTotal(mesh *models.Mesh) int {
	if r.banded() {
		return bandCount(r.cfg.Workers, r.fb.Height)
	}
	return len(mesh.Faces)
}

// drawBanded prepares every face up front, then fills disjoint row bands
// with at most Workers bands in flight. Each band sees the faces in file
// order, so every pixel resolves exactly as in drawSequential.
func (r *Rasterizer) drawBanded(mesh *models.Mesh) Stats {
	var stats Stats
	faces := make([]preparedFace, 0, len(mesh.Faces))
	for i := range mesh.Faces {
		f, ok := r.prepare(mesh, i)
		if !ok {
			stats.FacesCulled++
			continue
		}
		faces = append(faces, f)
	}
	stats.FacesDrawn = len(faces)

	bands := bandCount(r.cfg.Workers, r.fb.Height)
	written := make([]int, bands)

	var (
		mu   sync.Mutex
		done int
	)

	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)
	for band := range bands {
		lo, hi := bandRows(band, bands, r.fb.Height)
		g.Go(func() error {
			n := 0
			for i := range faces {
				n += r.fill(&faces[i], mesh.Texture, lo, hi)
			}
			written[band] = n

			if r.Progress != nil {
				mu.Lock()
				done++
				r.Progress(done, bands)
				mu.Unlock()
			}
			return nil
		})
	}
	// Bands only write their own rows and never fail.
	_ = g.Wait()

	for _, n := range written {
		stats.PixelsWritten += n
	}
	slogger().Debug("banded fill", "bands", bands, "workers", r.cfg.Workers)
	return stats
}

// fill scan-converts f over rows [rowLo, rowHi) and returns the number of
// pixels that passed the depth test.
func (r *Rasterizer) fill(f *preparedFace, tex *models.Texture, rowLo, rowHi int) int {
	p0, p1, p2 := f.pts[0], f.pts[1], f.pts[2]

	minX := max(0, min(p0.X, p1.X, p2.X))
	maxX := min(r.fb.Width-1, max(p0.X, p1.X, p2.X))
	minY := max(rowLo, min(p0.Y, p1.Y, p2.Y))
	maxY := min(rowHi-1, max(p0.Y, p1.Y, p2.Y))

	written := 0
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc := Barycentric(p0.Point, p1.Point, p2.Point, Point{x, y})
			if !inside(bc) {
				continue
			}

			z := bc.X*p0.Z + bc.Y*p1.Z + bc.Z*p2.Z
			idx := y*r.fb.Width + x
			if !(z > r.depth.Depth[idx]) {
				continue
			}
			r.depth.Depth[idx] = z

			uv := math3d.Weighted(f.uv[0], f.uv[1], f.uv[2], bc)
			texel := r.sample(tex, uv.X, 1-uv.Y)
			r.fb.Pixels[idx] = shade(texel, f.intensity)
			written++
		}
	}
	return written
}

// sample looks up the texel at (u*W, v*H). The row keeps the historical
// "-1" unless TextureRowFix is set. Both coordinates are clamped into the
// texture. Render rejects untextured meshes; a direct DrawFace or DrawMesh
// caller without one gets white.
func (r *Rasterizer) sample(tex *models.Texture, u, v float64) color.RGBA {
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return ColorWhite
	}
	x := int(u * float64(tex.Width))
	y := int(v * float64(tex.Height))
	if !r.cfg.TextureRowFix {
		y--
	}
	x = clampInt(x, 0, tex.Width-1)
	y = clampInt(y, 0, tex.Height-1)
	return tex.Pixels[y*tex.Width+x]
}

// shade scales each color channel by intensity, truncating.
func shade(c color.RGBA, intensity float64) color.RGBA {
	return color.RGBA{
		R: scaleChannel(c.R, intensity),
		G: scaleChannel(c.G, intensity),
		B: scaleChannel(c.B, intensity),
		A: 255,
	}
}

func scaleChannel(c uint8, intensity float64) uint8 {
	return uint8(min(intensity*float64(c), 255))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
