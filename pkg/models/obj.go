package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Parse failures. A *ParseError wraps exactly one of these.
var (
	ErrInvalidNumber    = errors.New("invalid number")
	ErrMissingComponent = errors.New("missing component")
	ErrCornerCount      = errors.New("face must have exactly 3 corners")
	ErrMalformedCorner  = errors.New("corner is not v/vt/vn")
	ErrIndexRange       = errors.New("index out of range")
)

// maxLineSize bounds a single OBJ line.
const maxLineSize = 1 << 20

// ParseError reports a malformed line in a mesh description.
type ParseError struct {
	Line int    // 1-based line number
	Text string // the offending line
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v (%q)", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Corner holds the 0-based indices of one face corner.
type Corner struct {
	V, T, N int
}

// LoadOBJ opens and parses an OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads a line-oriented mesh description. Only v, vt, vn and
// triangular f directives are understood; every other line is ignored.
// Any malformed line aborts the whole parse.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v", "vt", "vn":
			var v math3d.Vec3
			if v, err = parseVec3(fields[1:]); err != nil {
				break
			}
			switch fields[0] {
			case "v":
				mesh.Positions = append(mesh.Positions, v)
			case "vt":
				mesh.TexCoords = append(mesh.TexCoords, v)
			default:
				mesh.Normals = append(mesh.Normals, v)
			}
		case "f":
			var f Face
			if f, err = parseFace(fields[1:]); err == nil {
				mesh.Faces = append(mesh.Faces, f)
			}
		}
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	slogger().Debug("parsed obj",
		"positions", len(mesh.Positions),
		"texcoords", len(mesh.TexCoords),
		"normals", len(mesh.Normals),
		"faces", len(mesh.Faces),
	)
	return mesh, nil
}

// parseVec3 parses three floats. v, vt and vn records all carry three
// components; extra tokens must still be numbers and are ignored.
func parseVec3(tokens []string) (math3d.Vec3, error) {
	if len(tokens) < 3 {
		return math3d.Vec3{}, fmt.Errorf("%w: want 3 values, got %d", ErrMissingComponent, len(tokens))
	}
	var c [3]float64
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("%w %q", ErrInvalidNumber, tok)
		}
		if i < 3 {
			c[i] = f
		}
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

func parseFace(tokens []string) (Face, error) {
	if len(tokens) != 3 {
		return Face{}, fmt.Errorf("%w: got %d", ErrCornerCount, len(tokens))
	}
	var f Face
	for k, tok := range tokens {
		c, err := ParseCorner(tok)
		if err != nil {
			return Face{}, err
		}
		f.V[k], f.T[k], f.N[k] = c.V, c.T, c.N
	}
	return f, nil
}

// ParseCorner parses a "v/vt/vn" corner token of three 1-based decimal
// indices and returns them 0-based. Empty components, signs and any other
// shape are rejected with ErrMalformedCorner.
func ParseCorner(tok string) (Corner, error) {
	var idx [3]int
	part := 0
	start := 0
	for i := 0; i <= len(tok); i++ {
		if i < len(tok) && tok[i] != '/' {
			if tok[i] < '0' || tok[i] > '9' {
				return Corner{}, fmt.Errorf("%w: %q", ErrMalformedCorner, tok)
			}
			continue
		}
		// End of a component.
		if part == 3 || i == start {
			return Corner{}, fmt.Errorf("%w: %q", ErrMalformedCorner, tok)
		}
		n, err := strconv.Atoi(tok[start:i])
		if err != nil {
			return Corner{}, fmt.Errorf("%w %q", ErrInvalidNumber, tok[start:i])
		}
		idx[part] = n - 1
		part++
		start = i + 1
	}
	if part != 3 {
		return Corner{}, fmt.Errorf("%w: %q", ErrMalformedCorner, tok)
	}
	return Corner{V: idx[0], T: idx[1], N: idx[2]}, nil
}
