package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/philipparndt/stlvol/pkg/geometry"
)

// WriteBinary writes triangles as a binary STL with the given header text
// (truncated to 80 bytes). Facet normals are computed from the winding.
func WriteBinary(w io.Writer, header string, triangles []geometry.Triangle) error {
	bw := bufio.NewWriter(w)

	var prefix [prefixSize]byte
	copy(prefix[:headerSize], header)
	binary.LittleEndian.PutUint32(prefix[headerSize:], uint32(len(triangles)))
	if _, err := bw.Write(prefix[:]); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	var rec [recordSize]byte
	for i, t := range triangles {
		n := t.Normal()
		vals := [12]float32{
			n.X, n.Y, n.Z,
			t.V1.X, t.V1.Y, t.V1.Z,
			t.V2.X, t.V2.Y, t.V2.Z,
			t.V3.X, t.V3.Y, t.V3.Z,
		}
		for j, v := range vals {
			binary.LittleEndian.PutUint32(rec[j*4:], math.Float32bits(v))
		}
		if _, err := bw.Write(rec[:]); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// WriteASCII writes triangles as an ASCII STL solid
func WriteASCII(w io.Writer, name string, triangles []geometry.Triangle) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range triangles {
		n := t.Normal()
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range []geometry.Vector3{t.V1, t.V2, t.V3} {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

// Triangles returns the soup as a slice of triangles
func (s *Soup) Triangles() []geometry.Triangle {
	out := make([]geometry.Triangle, s.TriangleCount())
	for i := range out {
		out[i] = s.Triangle(i)
	}
	return out
}
