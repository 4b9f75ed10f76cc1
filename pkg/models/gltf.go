package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/tinyrender/pkg/math3d"
)

// LoadGLTF loads the triangle primitives of a glTF or GLB file into a mesh
// store. It also returns the first embedded (or sidecar) image that decodes,
// or nil when the document has none.
func LoadGLTF(path string) (*Mesh, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))

	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, nil, err
	}

	img := firstImage(doc, filepath.Dir(path))

	slogger().Debug("loaded gltf",
		"path", path,
		"positions", len(mesh.Positions),
		"faces", len(mesh.Faces),
		"embedded_texture", img != nil,
	)
	return mesh, img, nil
}

// processMesh appends the triangle primitives of m to mesh. A glTF vertex
// carries position, normal and UV under one index, so each face corner uses
// the same index into all three arrays.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Positions)
		for i, p := range positions {
			mesh.Positions = append(mesh.Positions, p)

			n := math3d.Zero3()
			if i < len(normals) {
				n = normals[i]
			}
			mesh.Normals = append(mesh.Normals, n)

			uv := math3d.Zero3()
			if i < len(uvs) {
				// glTF puts V=0 at the top of the image; OBJ puts it at the bottom.
				uv = math3d.V3(float64(uvs[i][0]), 1.0-float64(uvs[i][1]), 0)
			}
			mesh.TexCoords = append(mesh.TexCoords, uv)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		// glTF and OBJ share counter-clockwise front faces, so the winding
		// is kept as stored.
		for i := 0; i+2 < len(indices); i += 3 {
			var f Face
			for k := range 3 {
				idx := base + indices[i+k]
				f.V[k], f.T[k], f.N[k] = idx, idx, idx
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a glTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, errors.New("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readVec2Accessor reads Vec2 data from a glTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([][2]float32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, errors.New("unexpected data type for VEC2")
	}
	return floats, nil
}

// readIndices reads index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

func widen[T uint8 | uint16 | uint32](v []T) []int {
	result := make([]int, len(v))
	for i, x := range v {
		result[i] = int(x)
	}
	return result
}

// readAccessorData reads raw data from a glTF accessor. gltf.Open has
// already resolved external buffers into Buffer.Data.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, errors.New("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	bufData := doc.Buffers[bufferView.Buffer].Data
	if bufData == nil {
		return nil, errors.New("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	var elem int
	switch accessor.Type {
	case gltf.AccessorVec3:
		elem = 12
	case gltf.AccessorVec2:
		elem = 8
	case gltf.AccessorScalar:
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			elem = 1
		case gltf.ComponentUshort:
			elem = 2
		case gltf.ComponentUint:
			elem = 4
		}
	}
	if elem == 0 {
		return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
	}
	if stride == 0 {
		stride = elem
	}
	if count > 0 && start+(count-1)*stride+elem > len(bufData) {
		return nil, fmt.Errorf("accessor overruns buffer (%d elements of %d bytes at %d, buffer %d)", count, elem, start, len(bufData))
	}

	le := binary.LittleEndian
	switch accessor.Type {
	case gltf.AccessorVec3:
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = math.Float32frombits(le.Uint32(bufData[offset+j*4:]))
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = math.Float32frombits(le.Uint32(bufData[offset+j*4:]))
			}
		}
		return result, nil
	}

	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		result := make([]uint8, count)
		for i := range count {
			result[i] = bufData[start+i*stride]
		}
		return result, nil
	case gltf.ComponentUshort:
		result := make([]uint16, count)
		for i := range count {
			result[i] = le.Uint16(bufData[start+i*stride:])
		}
		return result, nil
	default:
		result := make([]uint32, count)
		for i := range count {
			result[i] = le.Uint32(bufData[start+i*stride:])
		}
		return result, nil
	}
}

// firstImage decodes the first usable image in the document, looking in
// buffer views first and then in files next to the document.
func firstImage(doc *gltf.Document, dir string) image.Image {
	for i, img := range doc.Images {
		var data []byte
		if img.BufferView != nil {
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data != nil && bv.ByteOffset+bv.ByteLength <= len(buf.Data) {
				data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
			}
		} else if img.URI != "" {
			b, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err != nil {
				slogger().Warn("skipping gltf image", "index", i, "uri", img.URI, "error", err)
				continue
			}
			data = b
		}
		if len(data) == 0 {
			continue
		}
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			slogger().Warn("skipping undecodable gltf image", "index", i, "error", err)
			continue
		}
		return decoded
	}
	return nil
}
