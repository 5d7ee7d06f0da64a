package stl

import (
	"encoding/binary"
	"fmt"
	"math"
)

// decodeBinary walks the 50-byte records after the 84-byte prefix. The stored
// facet normal and the attribute word are skipped.
func decodeBinary(data []byte, keep bool) (*accumulator, error) {
	if len(data) < prefixSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	count := uint64(binary.LittleEndian.Uint32(data[headerSize:prefixSize]))
	if need := prefixSize + recordSize*count; uint64(len(data)) < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, need, len(data))
	}

	acc := newAccumulator(keep, int(count))
	var v [9]float32
	for i := uint64(0); i < count; i++ {
		rec := data[prefixSize+i*recordSize:]
		for j := range v {
			off := 12 + j*4
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(rec[off : off+4]))
		}
		acc.add(v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8])
	}
	return acc, nil
}
