package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/tinyrender/pkg/models"
)

// ErrNilMesh is returned when a render is asked to draw nothing.
var ErrNilMesh = errors.New("nil mesh")

// checkPass validates the inputs shared by every render entry point. A mesh
// built by hand gets the same index check the loaders apply. Filled passes
// need a texture; wireframes do not.
func checkPass(mesh *models.Mesh, width, height int, cfg Config, needTexture bool) error {
	if mesh == nil {
		return ErrNilMesh
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if err := mesh.Validate(); err != nil {
		return fmt.Errorf("mesh %q: %w", mesh.Name, err)
	}
	if needTexture && mesh.Texture == nil {
		return fmt.Errorf("mesh %q: %w", mesh.Name, models.ErrNoTexture)
	}
	return cfg.Validate()
}

// Render draws mesh into a fresh width x height framebuffer and returns it
// flipped to a top-left origin, ready for encoding.
func Render(mesh *models.Mesh, width, height int, cfg Config) (*Framebuffer, Stats, error) {
	if err := checkPass(mesh, width, height, cfg, true); err != nil {
		return nil, Stats{}, err
	}

	fb := NewFramebuffer(width, height)
	stats := NewRasterizer(fb, cfg).DrawMesh(mesh)
	fb.FlipVertical()
	return fb, stats, nil
}

// RenderToFile renders mesh and writes it to baseName + ".png". Nothing is
// written when rendering fails.
func RenderToFile(width, height int, baseName string, mesh *models.Mesh, cfg Config) error {
	fb, _, err := Render(mesh, width, height, cfg)
	if err != nil {
		return err
	}
	path := baseName + ".png"
	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slogger().Debug("wrote image", "path", path, "width", width, "height", height)
	return nil
}
