package stl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNoTriangles is returned when a file decodes to an empty soup
	ErrNoTriangles = errors.New("no triangles")
	// ErrTruncated is returned when a binary buffer is shorter than its header claims
	ErrTruncated = errors.New("truncated binary STL")
)

const (
	headerSize = 80
	prefixSize = headerSize + 4
	recordSize = 50
)

// IsBinary reports whether data is a binary STL. The triangle count at offset
// 80 must account for every byte after the 84-byte prefix; anything else is
// treated as ASCII.
func IsBinary(data []byte) bool {
	if len(data) < prefixSize {
		return false
	}
	count := uint64(binary.LittleEndian.Uint32(data[headerSize:prefixSize]))
	return prefixSize+recordSize*count == uint64(len(data))
}

// Decode detects the format of data and returns the full triangle soup
func Decode(data []byte) (*Soup, error) {
	acc, err := decode(data, true)
	if err != nil {
		return nil, err
	}
	if acc.triangles == 0 {
		return nil, ErrNoTriangles
	}
	return acc.soup(), nil
}

// Measure decodes data without retaining positions or normals
func Measure(data []byte) (Measurement, error) {
	acc, err := decode(data, false)
	if err != nil {
		return Measurement{}, err
	}
	if acc.triangles == 0 {
		return Measurement{}, ErrNoTriangles
	}
	return acc.measurement(), nil
}

func decode(data []byte, keep bool) (*accumulator, error) {
	if IsBinary(data) {
		return decodeBinary(data, keep)
	}
	return decodeASCII(data, keep), nil
}

// ReadFile reads and decodes the STL file at path
func ReadFile(path string) (*Soup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	soup, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return soup, nil
}

// HasSTLExt reports whether name ends in .stl, ignoring case
func HasSTLExt(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".stl")
}
