package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

const triangleOBJ = `# one textured triangle
v -1 -1 0
v 1 -1 0
v 0 1 0
vt 0 0 0
vt 1 0 0
vt 0.5 1 0
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`

func TestParseOBJ(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if len(mesh.Positions) != 3 || len(mesh.TexCoords) != 3 || len(mesh.Normals) != 1 {
		t.Fatalf("got %d positions, %d texcoords, %d normals",
			len(mesh.Positions), len(mesh.TexCoords), len(mesh.Normals))
	}
	if mesh.Positions[2] != math3d.V3(0, 1, 0) {
		t.Errorf("position 2 = %v", mesh.Positions[2])
	}
	if mesh.TexCoords[2] != math3d.V3(0.5, 1, 0) {
		t.Errorf("texcoord 2 = %v", mesh.TexCoords[2])
	}
	if mesh.TriangleCount() != 1 {
		t.Fatalf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}

	want := Face{V: [3]int{0, 1, 2}, T: [3]int{0, 1, 2}, N: [3]int{0, 0, 0}}
	if mesh.Faces[0] != want {
		t.Errorf("face = %+v, want %+v", mesh.Faces[0], want)
	}
}

// Stored indices are always the file's indices minus one.
func TestParseOBJIndicesAreZeroBased(t *testing.T) {
	var b strings.Builder
	for range 9 {
		b.WriteString("v 0 0 0\nvt 0 0 0\nvn 0 0 1\n")
	}
	b.WriteString("f 9/8/7 1/2/3 4/5/6\n")

	mesh, err := ParseOBJ(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	f := mesh.Faces[0]
	if f.V != [3]int{8, 0, 3} || f.T != [3]int{7, 1, 4} || f.N != [3]int{6, 2, 5} {
		t.Errorf("face = %+v", f)
	}
}

func TestParseOBJIgnoresUnknownLines(t *testing.T) {
	src := "mtllib foo.mtl\n\n   \no cube\ng group\ns off\nusemtl bar\n" + triangleOBJ
	mesh, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		want error
	}{
		{"bad float", "v 1 x 3\n", 1, ErrInvalidNumber},
		{"bad trailing float", "v 1 2 3 nope\n", 1, ErrInvalidNumber},
		{"short vertex", "v 1 2\n", 1, ErrMissingComponent},
		{"short normal", "vn 1\n", 1, ErrMissingComponent},
		{"short texcoord", "vt 1\n", 1, ErrMissingComponent},
		{"two component texcoord", "vt 0.25 0.75\n", 1, ErrMissingComponent},
		{"two component texcoord after vertices", "v 0 0 0\nv 1 0 0\nvt 0.5 0.5\n", 3, ErrMissingComponent},
		{"quad", "f 1/1/1 2/2/2 3/3/3 4/4/4\n", 1, ErrCornerCount},
		{"two corners", "f 1/1/1 2/2/2\n", 1, ErrCornerCount},
		{"bare index", "f 1 2 3\n", 1, ErrMalformedCorner},
		{"missing texcoord", "f 1//1 2//2 3//3\n", 1, ErrMalformedCorner},
		{"two components", "f 1/1 2/2 3/3\n", 1, ErrMalformedCorner},
		{"negative index", "f -1/1/1 2/2/2 3/3/3\n", 1, ErrMalformedCorner},
		{"later line", "v 0 0 0\nv 0 0 0\nf 1/1/1 2/a/2 3/3/3\n", 3, ErrMalformedCorner},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh, err := ParseOBJ(strings.NewReader(tc.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if mesh != nil {
				t.Error("no partial mesh may be returned on failure")
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err %v is not a *ParseError", err)
			}
			if pe.Line != tc.line {
				t.Errorf("line = %d, want %d", pe.Line, tc.line)
			}
		})
	}
}

func TestParseOBJIndexOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"vertex past end", "v 0 0 0\nvt 0 0 0\nvn 0 0 1\nf 1/1/1 1/1/1 2/1/1\n"},
		{"texcoord past end", "v 0 0 0\nvt 0 0 0\nvn 0 0 1\nf 1/1/1 1/2/1 1/1/1\n"},
		{"normal past end", "v 0 0 0\nvt 0 0 0\nvn 0 0 1\nf 1/1/1 1/1/1 1/1/5\n"},
		{"zero index", "v 0 0 0\nvt 0 0 0\nvn 0 0 1\nf 0/1/1 1/1/1 1/1/1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tc.src))
			if !errors.Is(err, ErrIndexRange) {
				t.Errorf("err = %v, want ErrIndexRange", err)
			}
		})
	}
}

func TestParseCorner(t *testing.T) {
	tests := []struct {
		tok     string
		want    Corner
		wantErr bool
	}{
		{"1/2/3", Corner{0, 1, 2}, false},
		{"10/20/30", Corner{9, 19, 29}, false},
		{"1/2/3/4", Corner{}, true},
		{"1/2", Corner{}, true},
		{"1//3", Corner{}, true},
		{"/1/2", Corner{}, true},
		{"1/2/", Corner{}, true},
		{"", Corner{}, true},
		{"+1/2/3", Corner{}, true},
		{"a/b/c", Corner{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.tok, func(t *testing.T) {
			got, err := ParseCorner(tc.tok)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParseCorner(%q) = %+v, want error", tc.tok, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCorner(%q): %v", tc.tok, err)
			}
			if got != tc.want {
				t.Errorf("ParseCorner(%q) = %+v, want %+v", tc.tok, got, tc.want)
			}
		})
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if mesh.Name != "tri.obj" {
		t.Errorf("Name = %q", mesh.Name)
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func BenchmarkParseOBJ(b *testing.B) {
	var sb strings.Builder
	for range 1000 {
		sb.WriteString("v 0.1 0.2 0.3\nvt 0.5 0.5 0\nvn 0 0 1\n")
	}
	for i := range 998 {
		sb.WriteString("f ")
		for k := range 3 {
			n := i + k + 1
			fmt.Fprintf(&sb, "%d/%d/%d ", n, n, n)
		}
		sb.WriteString("\n")
	}
	src := sb.String()

	for b.Loop() {
		if _, err := ParseOBJ(strings.NewReader(src)); err != nil {
			b.Fatal(err)
		}
	}
}
