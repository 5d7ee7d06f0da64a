package analysis

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/philipparndt/stlvol/pkg/geometry"
	"github.com/philipparndt/stlvol/pkg/stl"
)

// EdgeInfo contains information about an edge in the model
type EdgeInfo struct {
	Start      geometry.Vector3
	End        geometry.Vector3
	Length     float32
	TriangleID int
}

// Report contains various measurements of a decoded triangle soup
type Report struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float32
	BoxVolume     float32
	SurfaceArea   float32
	TriangleCount int
	Degenerate    int
	EdgeCount     int
	MinEdgeLength float32
	MaxEdgeLength float32
	AvgEdgeLength float32
	AllEdges      []EdgeInfo
}

// Analyze performs a full pass over the soup. Volume is the enclosed mesh
// volume; BoxVolume is the volume of the axis-aligned bounds.
func Analyze(soup *stl.Soup) *Report {
	result := &Report{
		BoundingBox:   soup.Bounds,
		Volume:        soup.Volume(),
		TriangleCount: soup.TriangleCount(),
		AllEdges:      make([]EdgeInfo, 0, soup.TriangleCount()*3),
	}
	result.Dimensions = result.BoundingBox.Size()
	result.BoxVolume = result.BoundingBox.Volume()

	minLength := float32(math32.MaxFloat32)
	var maxLength, totalLength float32

	for i := 0; i < soup.TriangleCount(); i++ {
		triangle := soup.Triangle(i)
		area := triangle.Area()
		if area == 0 {
			result.Degenerate++
		}
		result.SurfaceArea += area

		edges := [3][2]geometry.Vector3{
			{triangle.V1, triangle.V2},
			{triangle.V2, triangle.V3},
			{triangle.V3, triangle.V1},
		}
		for _, edge := range edges {
			length := edge[1].Sub(edge[0]).Length()
			result.AllEdges = append(result.AllEdges, EdgeInfo{
				Start:      edge[0],
				End:        edge[1],
				Length:     length,
				TriangleID: i,
			})

			totalLength += length
			if length < minLength {
				minLength = length
			}
			if length > maxLength {
				maxLength = length
			}
		}
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float32(result.EdgeCount)
	}

	return result
}

// LongestEdges returns the N longest edges in the report
func LongestEdges(result *Report, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b float32) bool { return a > b })
}

// ShortestEdges returns the N shortest edges in the report
func ShortestEdges(result *Report, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b float32) bool { return a < b })
}

func sortedEdges(result *Report, count int, less func(a, b float32) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i].Length, edges[j].Length)
	})

	if count > len(edges) {
		count = len(edges)
	}
	if count < 0 {
		count = 0
	}
	return edges[:count]
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float32, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}

// NearestVertex returns the soup vertex closest to p and its distance.
// An empty soup returns p itself at distance zero.
func NearestVertex(soup *stl.Soup, p geometry.Vector3) (geometry.Vector3, float32) {
	nearest := p
	best := float32(math32.MaxFloat32)
	for i := 0; i < soup.VertexCount(); i++ {
		v := geometry.VectorAt(soup.Positions, i)
		d := v.Sub(p)
		if dist := d.Dot(d); dist < best {
			best = dist
			nearest = v
		}
	}
	if best == math32.MaxFloat32 {
		return p, 0
	}
	return nearest, math32.Sqrt(best)
}
