package batch

import (
	"context"
	"os"
	"path/filepath"
)

// Source is one user-supplied file
type Source interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// FileSource reads a file from disk
type FileSource struct {
	Path string
}

// FileSources wraps paths
func FileSources(paths ...string) []Source {
	out := make([]Source, len(paths))
	for i, p := range paths {
		out[i] = FileSource{Path: p}
	}
	return out
}

// Name returns the base name of the path
func (f FileSource) Name() string {
	return filepath.Base(f.Path)
}

// Read returns the file contents
func (f FileSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.Path)
}

// BytesSource is an in-memory file
type BytesSource struct {
	FileName string
	Data     []byte
}

// Name returns the file name
func (b BytesSource) Name() string {
	return b.FileName
}

// Read returns the data
func (b BytesSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.Data, nil
}
