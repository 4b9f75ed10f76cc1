package models

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

var (
	// ErrNoTexture is returned when a model has no texture to draw with.
	ErrNoTexture = errors.New("no texture")
	// ErrUnsupportedFormat is returned for model files that are neither
	// OBJ nor glTF.
	ErrUnsupportedFormat = errors.New("unsupported model format")
)

// Load builds a mesh store from a model file and a texture file. The model
// format is chosen by extension (.obj, .glb, .gltf). For glTF models an
// empty texturePath falls back to the first embedded image. There is no
// default texture: a model without one is an error.
func Load(modelPath, texturePath string) (*Mesh, error) {
	var (
		mesh     *Mesh
		embedded image.Image
		err      error
	)

	ext := strings.ToLower(filepath.Ext(modelPath))
	switch ext {
	case ".obj":
		mesh, err = LoadOBJ(modelPath)
	case ".glb", ".gltf":
		mesh, embedded, err = LoadGLTF(modelPath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	switch {
	case texturePath != "":
		tex, err := LoadTexture(texturePath)
		if err != nil {
			return nil, fmt.Errorf("load texture: %w", err)
		}
		mesh.Texture = tex
	case embedded != nil:
		mesh.Texture = TextureFromImage(embedded)
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(modelPath), ErrNoTexture)
	}

	return mesh, nil
}
