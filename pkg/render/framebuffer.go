// Package render rasterizes a mesh store into a color framebuffer: projection
// and viewport transform, barycentric triangle fill with a depth buffer,
// texture sampling under a single directional light, and integer line
// drawing for wireframes.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Framebuffer is a row-major grid of pixels. While rasterizing, row 0 is the
// bottom of the image; FlipVertical converts to the top-left origin image
// files use.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA
}

// NewFramebuffer creates an opaque black framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
	fb.Clear(ColorBlack)
	return fb
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) with the integer
// error-accumulator form of Bresenham's algorithm. Steep lines step along y.
// The endpoints are ordered by x first, so both directions produce the same
// pixels. Off-screen pixels are dropped.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	steep := false
	if abs(x0-x1) < abs(y0-y1) {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
		steep = true
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	derror := 2 * abs(y1-y0)
	ystep := 1
	if y1 < y0 {
		ystep = -1
	}

	errAcc := 0
	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			fb.SetPixel(y, x, c)
		} else {
			fb.SetPixel(x, y, c)
		}
		errAcc += derror
		if errAcc > dx {
			y += ystep
			errAcc -= 2 * dx
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// FlipVertical mirrors the framebuffer top to bottom in place.
func (fb *Framebuffer) FlipVertical() {
	w := fb.Width
	for top, bot := 0, fb.Height-1; top < bot; top, bot = top+1, bot-1 {
		a := fb.Pixels[top*w : (top+1)*w]
		b := fb.Pixels[bot*w : (bot+1)*w]
		for i := range a {
			a[i], b[i] = b[i], a[i]
		}
	}
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, fb.ToImage()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// DepthBuffer records, per pixel, the largest z drawn so far. Larger z is
// nearer the camera.
type DepthBuffer struct {
	Width  int
	Height int
	Depth  []float64
}

// NewDepthBuffer creates a depth buffer with every entry at -Inf.
func NewDepthBuffer(width, height int) *DepthBuffer {
	db := &DepthBuffer{
		Width:  width,
		Height: height,
		Depth:  make([]float64, width*height),
	}
	db.Clear()
	return db
}

// Clear resets every entry to -Inf.
func (db *DepthBuffer) Clear() {
	// Use copy-doubling for faster clearing
	n := len(db.Depth)
	if n == 0 {
		return
	}
	db.Depth[0] = math.Inf(-1)
	for i := 1; i < n; i *= 2 {
		copy(db.Depth[i:], db.Depth[:i])
	}
}

// At returns the depth at (x, y), or -Inf out of bounds.
func (db *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return math.Inf(-1)
	}
	return db.Depth[y*db.Width+x]
}

// Colors used by the command and tests.
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
)
