package models

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Texture is a decoded RGB image, row-major with a top-left origin.
// Alpha is kept at 255 and ignored by the rasterizer.
type Texture struct {
	Width  int
	Height int
	Pixels []color.RGBA
}

// NewTexture creates a black texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	t := &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
	for i := range t.Pixels {
		t.Pixels[i].A = 255
	}
	return t
}

// NewSolidTexture creates a texture filled with a single color.
func NewSolidTexture(width, height int, c color.RGBA) *Texture {
	t := NewTexture(width, height)
	c.A = 255
	for i := range t.Pixels {
		t.Pixels[i] = c
	}
	return t
}

// LoadTexture decodes a texture from an image file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}

	tex := TextureFromImage(img)
	slogger().Debug("loaded texture", "path", path, "format", format, "width", tex.Width, "height", tex.Height)
	return tex, nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := NewTexture(width, height)

	for y := range height {
		for x := range width {
			// Alpha is dropped, so read straight color rather than the
			// premultiplied values RGBA returns.
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			tex.Pixels[y*width+x] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
		}
	}

	return tex
}

// SetPixel sets a pixel in the texture. Out-of-range writes are ignored.
func (t *Texture) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y), or transparent black when out of
// range.
func (t *Texture) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return color.RGBA{}
	}
	return t.Pixels[y*t.Width+x]
}
