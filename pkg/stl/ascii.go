package stl

import (
	"regexp"
	"strconv"
)

const floatPattern = `([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)`

var vertexPattern = regexp.MustCompile(`\bvertex\s+` + floatPattern + `\s+` + floatPattern + `\s+` + floatPattern)

// decodeASCII collects every "vertex x y z" match in order and groups them in
// threes. Other keywords are ignored and a trailing partial group is dropped.
func decodeASCII(data []byte, keep bool) *accumulator {
	matches := vertexPattern.FindAllSubmatch(data, -1)
	acc := newAccumulator(keep, len(matches)/3)

	var v [9]float32
	n := 0
	for _, m := range matches {
		for k := 0; k < 3; k++ {
			// the pattern only admits valid literals; range errors yield ±Inf
			f, _ := strconv.ParseFloat(string(m[k+1]), 32)
			v[n*3+k] = float32(f)
		}
		n++
		if n == 3 {
			acc.add(v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8])
			n = 0
		}
	}
	return acc
}
