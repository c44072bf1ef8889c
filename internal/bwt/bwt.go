// Package bwt provides a reference Burrows-Wheeler Transform kernel.
package bwt

import (
	"errors"
	"sort"
)

var errInvalidLength = errors.New("bwt: length must be positive")

// Default is a reference BWT kernel using a straightforward rotation
// sort. It favors clarity over asymptotic performance: production use
// against large blocks should supply a linear-time suffix-sort kernel
// instead (this package's contract only requires a bzip2block.BWT-shaped
// Transform method, so any conforming kernel can be substituted).
type Default struct{}

// Transform sorts the length cyclic rotations of block[0:length] and
// writes the last column of each sorted rotation into dst. It returns the
// index, within the sorted order, of the rotation starting at block[0].
//
// The wrap byte at block[length] is not required for correctness here:
// each rotation is read modulo length, so the transform works directly
// off the cyclic string.
func (Default) Transform(dst []int32, block []byte, length int) (int, error) {
	if length <= 0 {
		return 0, errInvalidLength
	}

	rotations := make([]int32, length)
	for i := range rotations {
		rotations[i] = int32(i)
	}

	sort.Slice(rotations, func(i, j int) bool {
		a, b := rotations[i], rotations[j]
		for k := 0; k < length; k++ {
			ba := block[(int(a)+k)%length]
			bb := block[(int(b)+k)%length]
			if ba != bb {
				return ba < bb
			}
		}
		// All rotations of a string with no repeated full rotation are
		// distinct; a tie here only arises from a perfectly periodic
		// block, so fall back to the starting index for a stable order.
		return a < b
	})

	primary := -1
	for sortedPos, start := range rotations {
		last := block[(int(start)+length-1)%length]
		dst[sortedPos] = int32(last)
		if start == 0 {
			primary = sortedPos
		}
	}
	return primary, nil
}
