package batch

import (
	"context"
	"errors"
	"io/fs"

	"github.com/philipparndt/stlvol/pkg/stl"
)

// ErrNoSTLFiles is returned by Submit when nothing in the selection is an STL file
var ErrNoSTLFiles = errors.New("no STL files")

// Describe turns an error into the short message shown next to a file
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, stl.ErrNoTriangles):
		return "no triangles found"
	case errors.Is(err, stl.ErrTruncated):
		return "file is truncated"
	case errors.Is(err, ErrNoSTLFiles):
		return "STL file required (binary or ASCII)"
	case errors.Is(err, fs.ErrNotExist):
		return "file not found"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return "could not read file"
}
