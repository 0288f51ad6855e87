package geometry

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50
)

type vec3 [3]float64

// Mesh is a triangle soup read from an STL file
type Mesh struct {
	Triangles [][3]vec3
}

// ReadSTL decodes a binary or ASCII STL file
func ReadSTL(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stl: %w", err)
	}

	if isBinarySTL(data) {
		return readBinarySTL(data)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		return readASCIISTL(data)
	}
	return nil, fmt.Errorf("not a valid stl file")
}

// isBinarySTL checks the declared triangle count against the file size. ASCII
// files may also start with "solid", so the size is the reliable signal.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == uint64(stlHeaderSize+4)+uint64(count)*stlTriangleSize
}

func readBinarySTL(data []byte) (*Mesh, error) {
	count := int(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
	mesh := &Mesh{Triangles: make([][3]vec3, 0, count)}

	offset := stlHeaderSize + 4
	for i := 0; i < count; i++ {
		// skip the 12 byte normal
		p := offset + 12
		var t [3]vec3
		for v := 0; v < 3; v++ {
			for c := 0; c < 3; c++ {
				bits := binary.LittleEndian.Uint32(data[p:])
				t[v][c] = float64(math.Float32frombits(bits))
				p += 4
			}
		}
		mesh.Triangles = append(mesh.Triangles, t)
		offset += stlTriangleSize
	}
	return mesh, nil
}

func readASCIISTL(data []byte) (*Mesh, error) {
	mesh := &Mesh{}
	scanner := bufio.NewScanner(bytes.NewReader(data))

	var current []vec3
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var v vec3
			for c := 0; c < 3; c++ {
				f, err := strconv.ParseFloat(fields[c+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid coordinate %q: %w", line, fields[c+1], err)
				}
				v[c] = f
			}
			current = append(current, v)
		case "endloop":
			if len(current) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices, expected 3", line, len(current))
			}
			mesh.Triangles = append(mesh.Triangles, [3]vec3{current[0], current[1], current[2]})
			current = current[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan stl: %w", err)
	}
	return mesh, nil
}

// IsWatertight reports whether every edge is shared by exactly two facets
func (m *Mesh) IsWatertight() bool {
	if len(m.Triangles) == 0 {
		return false
	}

	type edge [2]vec3
	edges := make(map[edge]int, len(m.Triangles)*3/2)
	for _, t := range m.Triangles {
		for i := 0; i < 3; i++ {
			a, b := t[i], t[(i+1)%3]
			if less(b, a) {
				a, b = b, a
			}
			edges[edge{a, b}]++
		}
	}

	for _, n := range edges {
		if n != 2 {
			return false
		}
	}
	return true
}

// Volume returns the absolute enclosed volume as the sum of signed tetrahedra
// spanned by every facet and the origin
func (m *Mesh) Volume() float64 {
	sum := 0.0
	for _, t := range m.Triangles {
		a, b, c := t[0], t[1], t[2]
		sum += a[0]*(b[1]*c[2]-b[2]*c[1]) -
			a[1]*(b[0]*c[2]-b[2]*c[0]) +
			a[2]*(b[0]*c[1]-b[1]*c[0])
	}
	return math.Abs(sum / 6)
}

// Extents returns the size of the axis-aligned bounding box
func (m *Mesh) Extents() (x, y, z float64) {
	if len(m.Triangles) == 0 {
		return 0, 0, 0
	}
	lo := m.Triangles[0][0]
	hi := lo
	for _, t := range m.Triangles {
		for _, v := range t {
			for c := 0; c < 3; c++ {
				lo[c] = math.Min(lo[c], v[c])
				hi[c] = math.Max(hi[c], v[c])
			}
		}
	}
	return hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]
}

func less(a, b vec3) bool {
	for c := 0; c < 3; c++ {
		if a[c] != b[c] {
			return a[c] < b[c]
		}
	}
	return false
}
