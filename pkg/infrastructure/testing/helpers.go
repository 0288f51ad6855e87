package testing

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Triangle is a facet given by three vertices
type Triangle [3][3]float32

// Cube returns the 12 outward-facing triangles of an axis-aligned cube with
// its corner at the origin
func Cube(size float32) []Triangle {
	s := size
	v := [8][3]float32{
		{0, 0, 0}, {s, 0, 0}, {s, s, 0}, {0, s, 0},
		{0, 0, s}, {s, 0, s}, {s, s, s}, {0, s, s},
	}
	faces := [][4]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{2, 3, 7, 6}, // back
		{1, 2, 6, 5}, // right
		{0, 4, 7, 3}, // left
	}

	triangles := make([]Triangle, 0, 12)
	for _, f := range faces {
		triangles = append(triangles,
			Triangle{v[f[0]], v[f[1]], v[f[2]]},
			Triangle{v[f[0]], v[f[2]], v[f[3]]},
		)
	}
	return triangles
}

// BinarySTL encodes triangles as a binary STL file
func BinarySTL(triangles []Triangle) []byte {
	var buf bytes.Buffer
	header := make([]byte, 80)
	copy(header, "binary stl fixture")
	buf.Write(header)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(triangles)))

	for _, t := range triangles {
		_ = binary.Write(&buf, binary.LittleEndian, [3]float32{}) // normal
		for _, vertex := range t {
			_ = binary.Write(&buf, binary.LittleEndian, vertex)
		}
		_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

// ASCIISTL encodes triangles as an ASCII STL file
func ASCIISTL(name string, triangles []Triangle) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "solid %s\n", name)
	for _, t := range triangles {
		buf.WriteString("  facet normal 0 0 0\n    outer loop\n")
		for _, vertex := range t {
			fmt.Fprintf(&buf, "      vertex %g %g %g\n", vertex[0], vertex[1], vertex[2])
		}
		buf.WriteString("    endloop\n  endfacet\n")
	}
	fmt.Fprintf(&buf, "endsolid %s\n", name)
	return buf.Bytes()
}

// WriteFile writes content to name inside a temporary directory owned by the test
func WriteFile(t testing.TB, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// AlmostEqual compares floats with an absolute tolerance
func AlmostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
